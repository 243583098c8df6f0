// cmd/setup/shares.go

package setup

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/config"
	"github.com/copperhearth/baseline/pkg/smb"
)

// mountConfiguredShares attaches any CIFS shares already described in the
// shares env file. A missing or empty file is not an error during
// provisioning; the shares can be added later via `baseline mount shares`.
func mountConfiguredShares(rc *base_io.RuntimeContext, username string) error {
	logger := otelzap.Ctx(rc.Ctx)

	cfg, err := config.Load(rc)
	if err != nil {
		return err
	}

	created, err := smb.EnsureSharesFile(rc, cfg.SharesFile)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Wrote shares template; fill it in and run `baseline mount shares`",
			zap.String("path", cfg.SharesFile))
		return nil
	}

	shares, err := smb.LoadShares(rc, cfg.SharesFile)
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		logger.Info("No shares configured, skipping CIFS mounts",
			zap.String("path", cfg.SharesFile))
		return nil
	}

	for _, share := range shares {
		credsPath, err := smb.WriteCredentials(rc, share)
		if err != nil {
			return err
		}
		if err := smb.EnsureFstabEntry(rc, share, credsPath, username); err != nil {
			return err
		}
		if err := smb.Mount(rc, share, credsPath, username); err != nil {
			logger.Warn("Share did not mount, the automount unit will retry at boot",
				zap.String("source", share.Source()), zap.Error(err))
		}
	}
	return nil
}
