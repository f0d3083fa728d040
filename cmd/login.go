// File: cmd/login.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify that the configured credentials can sign in",
	Long: `Login signs in with the configured credentials, opens the content
filtering settings and prints the current category state without changing
anything. Useful as a dry run before a mutating operation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, appCfg.ConfPath, false, func(ctx context.Context, rt *runtime) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Login successful")
			printStatus(cmd, rt.catalog, rt.before, nil)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
