// cmd/storefront/commands/root.go
package commands

import (
	"fmt"

	"mycars-storefront/config"
	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	logLevel  string

	cfg config.Config
	log *zap.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "MyCars dealership storefront and catalog API client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(configDir)
			if err != nil {
				return fmt.Errorf("could not load config: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			log, err = logger.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return fmt.Errorf("could not build logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configDir, "config", "./config", "directory containing config.yaml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(serveCmd(), carsCmd(), brandsCmd())
	return root.Execute()
}

// newClient dựng API client duy nhất của process từ config.
func newClient() *apiclient.Client {
	return apiclient.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log,
		apiclient.WithPhotoPrefix(cfg.API.PhotoPrefix),
	)
}
