// pkg/interaction/menu_test.go

package interaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMenuSelectionAll(t *testing.T) {
	items := []string{"certbot", "docker", "nginx"}
	assert.Equal(t, items, ParseMenuSelection("all", items))
}

func TestParseMenuSelectionNone(t *testing.T) {
	items := []string{"certbot", "docker"}
	assert.Nil(t, ParseMenuSelection("none", items))
	assert.Nil(t, ParseMenuSelection("", items))
}

func TestParseMenuSelectionNumbers(t *testing.T) {
	items := []string{"certbot", "docker", "nginx", "pandoc"}
	assert.Equal(t, []string{"certbot", "nginx"}, ParseMenuSelection("1, 3", items))
}

func TestParseMenuSelectionIgnoresInvalid(t *testing.T) {
	items := []string{"certbot", "docker"}
	assert.Equal(t, []string{"docker"}, ParseMenuSelection("0,2,9,x", items))
}

func TestParseMenuSelectionDeduplicates(t *testing.T) {
	items := []string{"certbot", "docker"}
	assert.Equal(t, []string{"docker"}, ParseMenuSelection("2,2,2", items))
}

func TestSelectFromMenuReader(t *testing.T) {
	items := []string{"certbot", "docker", "nginx"}
	selected := SelectFromMenuReader(strings.NewReader("2,3\n"), "Packages", items)
	assert.Equal(t, []string{"docker", "nginx"}, selected)
}

func TestPromptInputReaderDefault(t *testing.T) {
	assert.Equal(t, "fallback", PromptInputReader(strings.NewReader("\n"), "Value", "fallback"))
	assert.Equal(t, "typed", PromptInputReader(strings.NewReader("typed\n"), "Value", "fallback"))
}
