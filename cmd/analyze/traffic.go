// cmd/analyze/traffic.go

package analyze

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/copperhearth/baseline/pkg/base_cli"
	"github.com/copperhearth/baseline/pkg/base_io"
	"github.com/copperhearth/baseline/pkg/config"
	"github.com/copperhearth/baseline/pkg/traffic"
)

var (
	trafficContainer string
	trafficFile      string
)

var trafficCmd = &cobra.Command{
	Use:   "traffic",
	Short: "Analyze Traefik logs for external connections and probes",
	Long: `Pulls the Traefik container's logs through the Docker API (or reads
a saved log with --file), classifies connection errors and TLS failures,
flags scanner probes, geo-locates remote addresses and prints a report:
top IPs, top countries, error distribution and suspicious activity.`,
	RunE: base_cli.WrapExtended(10*time.Minute, func(rc *base_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		var lines []string
		var err error
		if trafficFile != "" {
			lines, err = traffic.ReadLogFile(trafficFile)
		} else {
			container := trafficContainer
			if container == "" {
				cfg, cfgErr := config.Load(rc)
				if cfgErr != nil {
					return cfgErr
				}
				container = cfg.TraefikContainer
			}
			lines, err = traffic.FetchContainerLogs(rc, container)
		}
		if err != nil {
			return err
		}

		geo := traffic.NewGeoIPLookup(rc.Ctx)
		if !geo.Available() {
			logger.Warn("geoiplookup not installed, country data will be Unknown",
				zap.String("hint", "apt install geoip-bin"))
		}

		stats := traffic.NewStats(geo)
		traffic.Analyze(rc, lines, stats)
		traffic.WriteReport(os.Stdout, stats, time.Now())
		return nil
	}),
}

func init() {
	trafficCmd.Flags().StringVar(&trafficContainer, "container", "", "Traefik container name (default from config)")
	trafficCmd.Flags().StringVar(&trafficFile, "file", "", "analyze a saved log file instead of the container")
}
