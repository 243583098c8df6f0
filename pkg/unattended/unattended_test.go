// pkg/unattended/unattended_test.go

package unattended

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleConfig = `// Automatically upgrade packages from these (origin:archive) pairs
Unattended-Upgrade::Origins-Pattern {
        // "origin=Debian,codename=${distro_codename}-updates";
//      "origin=Debian,codename=${distro_codename},label=Debian-Security";
        "origin=Debian,codename=${distro_codename}-security,label=Debian-Security";
};

// Automatically reboot *WITHOUT CONFIRMATION* if
//Unattended-Upgrade::Automatic-Reboot "false";
`

func TestAutoUpgradesPeriodicDirectives(t *testing.T) {
	for _, directive := range []string{
		`APT::Periodic::Update-Package-Lists "1";`,
		`APT::Periodic::Unattended-Upgrade "1";`,
		`APT::Periodic::AutocleanInterval "7";`,
		`APT::Periodic::Download-Upgradeable-Packages "1";`,
	} {
		assert.Contains(t, autoUpgradesContent, directive)
	}
}

func TestRewritePolicyUncommentsSecurityOrigin(t *testing.T) {
	out, changed := rewritePolicy(sampleConfig)
	assert.True(t, changed)
	assert.Contains(t, out, "\n\"origin=Debian,codename=${distro_codename},label=Debian-Security\";")
	assert.NotContains(t, out, `//      "origin=Debian,codename=${distro_codename},label=Debian-Security";`)
	// unrelated commented example stays commented
	assert.Contains(t, out, `// "origin=Debian,codename=${distro_codename}-updates";`)
}

func TestRewritePolicyForcesRebootOff(t *testing.T) {
	out, _ := rewritePolicy(sampleConfig)
	assert.Contains(t, out, `Unattended-Upgrade::Automatic-Reboot "false";`)
	assert.NotContains(t, out, `//Unattended-Upgrade::Automatic-Reboot`)
}

func TestRewritePolicyFlipsRebootTrue(t *testing.T) {
	in := `Unattended-Upgrade::Automatic-Reboot "true";` + "\n"
	out, changed := rewritePolicy(in)
	assert.True(t, changed)
	assert.Equal(t, `Unattended-Upgrade::Automatic-Reboot "false";`+"\n", out)
}

func TestRewritePolicyAppendsRebootWhenAbsent(t *testing.T) {
	in := "Unattended-Upgrade::Origins-Pattern {\n};"
	out, changed := rewritePolicy(in)
	assert.True(t, changed)
	assert.True(t, strings.HasSuffix(out, `Unattended-Upgrade::Automatic-Reboot "false";`+"\n"))
}

func TestRewritePolicyIdempotent(t *testing.T) {
	once, _ := rewritePolicy(sampleConfig)
	twice, changed := rewritePolicy(once)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}
