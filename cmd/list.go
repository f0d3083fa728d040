// File: cmd/list.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvalis/opendnsctl/internal/conf"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the categories configured in opendns.conf",
	Long: `List prints the configured category lists from opendns.conf without
opening a browser session. Use the login command to see the live dashboard
state instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := conf.Load(appCfg.ConfPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configured blocked categories (%d):\n", len(cfg.Blocked))
		for _, name := range cfg.Blocked {
			fmt.Fprintln(out, " -", name)
		}
		if len(cfg.Allowed) > 0 {
			fmt.Fprintf(out, "Configured allowed categories (%d):\n", len(cfg.Allowed))
			for _, name := range cfg.Allowed {
				fmt.Fprintln(out, " -", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
