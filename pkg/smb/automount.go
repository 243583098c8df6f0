// pkg/smb/automount.go

package smb

import (
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/base_unix"
	"github.com/copperhearth/baseline/pkg/shared"
)

const automountUnit = `[Unit]
Description=Dynamically check network mounts and automount on start
After=network-online.target
Wants=network-online.target

[Service]
Type=oneshot
ExecStartPre=/bin/sleep 15
ExecStart=/bin/bash -c 'hosts=$(grep -E "^[^#].*cifs|nfs" /etc/fstab | grep -oP "//\K[^/]+" | sort -u); for host in $hosts; do for i in {1..10}; do ping -c 1 $host && break || (echo "Waiting for $host..." && sleep 3); done; done; mount -a'
RemainAfterExit=yes

[Install]
WantedBy=multi-user.target
`

// InstallAutomountUnit installs and enables the oneshot unit that waits for
// each fstab network host to answer a ping, then runs mount -a.
func InstallAutomountUnit(rc *base_io.RuntimeContext) error {
	return base_unix.InstallUnit(rc.Ctx, shared.AutomountUnitPath, automountUnit)
}
