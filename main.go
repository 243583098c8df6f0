// main.go

package main

import (
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/cmd"
	"github.com/copperhearth/baseline/pkg/logger"
	"github.com/copperhearth/baseline/pkg/shared"
	"github.com/copperhearth/baseline/pkg/telemetry"
)

func main() {
	logger.InitializeWithFallback()

	if telemetry.IsEnabled() {
		if err := telemetry.Init(shared.AppID); err != nil {
			logger.L().Warn("Telemetry init failed, continuing without", zap.Error(err))
		}
	}

	cmd.Execute()
}
