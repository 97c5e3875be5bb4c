package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wwcxin/cyberbot-new/internal/config"
	"github.com/wwcxin/cyberbot-new/internal/plugins"
	"github.com/wwcxin/cyberbot-new/internal/shared/cmdutils"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cyberbot status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := configPath()

	cmdutils.Banner("Status")

	_, statErr := os.Stat(cfgPath)
	fmt.Printf("Config:    %s %s\n", cfgPath, cmdutils.Mark(statErr == nil))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Gateway:   %s\n", cfg.Gateway.URL)
	fmt.Printf("Token:     %s\n", cmdutils.Mark(cfg.Gateway.AccessToken != ""))
	fmt.Printf("Timezone:  %s\n", cfg.Cron.Location())
	fmt.Printf("Masters:   %v\n", cfg.Master)
	fmt.Printf("Admins:    %v\n\n", cfg.Admins)

	_, dirErr := os.Stat(cfg.Plugins.ConfigDir)
	fmt.Printf("Plugin config dir: %s %s\n", cfg.Plugins.ConfigDir, cmdutils.Mark(dirErr == nil))
	fmt.Println("Plugins:")
	for _, name := range plugins.Names() {
		fmt.Printf("  %-12s %s\n", name, cmdutils.Mark(cfg.Plugins.IsEnabled(name)))
	}
	return nil
}
