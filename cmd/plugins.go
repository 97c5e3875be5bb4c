package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wwcxin/cyberbot-new/internal/config"
	"github.com/wwcxin/cyberbot-new/internal/container"
	"github.com/wwcxin/cyberbot-new/internal/plugin"
	"github.com/wwcxin/cyberbot-new/internal/shared/cmdutils"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List enabled plugins and their subscriptions",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := loadRuntime()
		if err != nil {
			return err
		}
		list := c.Registry().List()
		if len(list) == 0 {
			fmt.Println("No plugins enabled.")
			return nil
		}
		fmt.Printf("%-12s %-8s %-30s %s\n", "Name", "Version", "Description", "Handles")
		fmt.Println(cmdutils.Rule(80))
		for _, p := range list {
			fmt.Printf("%-12s %-8s %-30s %s\n", p.Name, p.Version, cmdutils.Cell(p.Description, 30), categories(p))
		}
		return nil
	},
}

func categories(p *plugin.Plugin) string {
	var out []string
	for _, c := range p.Categories() {
		out = append(out, string(c))
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}

// loadRuntime wires the runtime without connecting, for inspection commands.
func loadRuntime() (*container.Container, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return container.New(cfg, path)
}
