package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wwcxin/cyberbot-new/internal/shared/cmdutils"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Inspect plugin schedules",
}

func init() {
	cronCmd.AddCommand(cronListCmd)
}

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules registered by enabled plugins",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := loadRuntime()
		if err != nil {
			return err
		}
		entries := c.Scheduler().Entries()
		if len(entries) == 0 {
			fmt.Println("No scheduled jobs.")
			return nil
		}
		fmt.Printf("%-5s %-12s %-25s\n", "ID", "Plugin", "Schedule")
		fmt.Println(cmdutils.Rule(44))
		for _, e := range entries {
			fmt.Printf("%-5d %-12s %-25s\n", e.ID, e.Plugin, cmdutils.Cell(e.Spec, 25))
		}
		return nil
	},
}
