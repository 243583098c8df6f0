// pkg/base_cli/wrap.go

package base_cli

import (
	"context"
	"fmt"
	"os"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/copperhearth/baseline/pkg/base_err"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/logger"
)

// Wrap adapts a RuntimeContext handler to a cobra RunE, adding panic
// recovery, lifecycle logging and error classification.
func Wrap(fn func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return wrap(0, fn)
}

// WrapExtended is Wrap with a hard timeout for long-running commands.
func WrapExtended(timeout time.Duration, fn func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return wrap(timeout, fn)
}

func wrap(timeout time.Duration, fn func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.L() // initializes the fallback logger when main has not

		var rc *base_io.RuntimeContext
		if timeout > 0 {
			rc = base_io.NewExtendedContext(context.Background(), cmd.Name(), timeout)
		} else {
			rc = base_io.NewContext(context.Background(), cmd.Name())
		}
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		err = fn(rc, cmd, args)
		if err != nil && !base_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}

// RequireRoot returns an expected error when the process is not running with
// effective uid 0. System mutations all gate on this.
func RequireRoot() error {
	if os.Geteuid() != 0 {
		return base_err.NewExpectedError(fmt.Errorf("this command must be run as root (try sudo)"))
	}
	return nil
}
