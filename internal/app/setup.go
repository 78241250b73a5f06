package app

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/entnt/dentdesk/config"
	"github.com/entnt/dentdesk/pkg/logs"
)

// Setup reads the config file named by the root --config flag and
// installs the process logger. Every command calls it before RunOnce.
func Setup(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logs.New(cfg))
	return cfg, nil
}
