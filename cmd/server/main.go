package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quipper/poc/housejobs/internal/config"
	"github.com/quipper/poc/housejobs/pkg/common/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "housejobs",
	Short: "Slack bot for configuring house jobs",
	Long: `Serve the Slack slash command, interaction and event endpoints used to
configure weekly house jobs.

Settings come from defaults, then the optional TOML file given with --config,
then the environment (SLACK_BOT_TOKEN, SLACK_SIGNING_SECRET, HOUSE_MANAGER_UID,
DEVELOPER_UID, LOGLEVEL, PORT, SQLITE_PATH, SLACK_COMMAND, SLACK_API_URL).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.AddCommand(recordsCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Initialize(cfg.LogLevel)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
