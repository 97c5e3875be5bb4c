package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wwcxin/cyberbot-new/internal/config"
	"github.com/wwcxin/cyberbot-new/internal/plugins/chatgpt"
	"github.com/wwcxin/cyberbot-new/internal/plugins/demo"
	"github.com/wwcxin/cyberbot-new/internal/plugins/kmy"
	"github.com/wwcxin/cyberbot-new/internal/plugins/news"
	"github.com/wwcxin/cyberbot-new/internal/shared/cmdutils"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and plugin settings",
	RunE:  runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	cfgPath := configPath()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	_, statErr := os.Stat(cfgPath)
	if err := config.Save(cfg, cfgPath); err != nil {
		return err
	}
	if statErr == nil {
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	defaults := map[string]any{
		demo.Name:    demo.DefaultConfig(),
		news.Name:    news.DefaultConfig(),
		chatgpt.Name: chatgpt.DefaultConfig(),
		"kmy":        kmy.DefaultConfig(),
	}
	dir := cfg.Plugins.ConfigDir
	for name, def := range defaults {
		path := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := config.SavePluginConfig(dir, name, def); err != nil {
			return err
		}
		fmt.Printf("  Created %s\n", path)
	}

	fmt.Printf("\n%s cyberbot is ready!\n\n", cmdutils.Logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Set master/admins and gateway.url in %s\n", cfgPath)
	fmt.Println("  2. Start: cyberbot run")
	return nil
}
