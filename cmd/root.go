package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ecotrace",
	Short: "Product origin resolution and shipping emissions estimation",
	Long:  "Resolves a product's manufacturing origin from noisy listing evidence, learns new brand-origin mappings, and estimates transport carbon and eco-scores.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
