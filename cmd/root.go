// Package cmd implements the cyberbot CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wwcxin/cyberbot-new/internal/config"
	"github.com/wwcxin/cyberbot-new/internal/shared/cmdutils"
)

const version = "0.1.0"

var cfgFile string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cyberbot",
	Short: cmdutils.Logo + " cyberbot, a OneBot11 plugin bot",
	Long:  cmdutils.Logo + " cyberbot connects to a OneBot11 gateway over WebSocket and runs chat plugins",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default $CYBERBOT_CONFIG or cyberbot.json)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(cronCmd)
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigPath()
}
