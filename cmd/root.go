package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kurashi-ikiiki/keisu-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "keisu-cli",
	Short: "Sales reporting and KPI toolkit for small EC businesses",
	Long:  "Normalizes marketplace sales exports, joins cost masters, and produces period summaries, KPI dashboards, P&L simulations, cash forecasts, and alerts.",
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
