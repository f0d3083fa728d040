// File: cmd/allow.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var allowCmd = &cobra.Command{
	Use:   "allow",
	Short: "Allow the categories configured in opendns.conf",
	Long: `Allow reads the configured category list and makes sure every listed
category is unblocked on the dashboard. Categories not in the list are left
as they are.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, appCfg.ConfPath, true, func(ctx context.Context, rt *runtime) error {
			rt.logger.Info("Allowing configured categories",
				zap.Int("count", len(rt.creds.Blocked)))

			release := make(map[string]struct{}, len(rt.creds.Blocked))
			for _, name := range rt.creds.Blocked {
				release[name] = struct{}{}
			}
			var desired []string
			for _, name := range blockedSet(rt.catalog, rt.before) {
				if _, drop := release[name]; !drop {
					desired = append(desired, name)
				}
			}
			return runMutation(ctx, cmd, rt, desired)
		})
	},
}

func init() {
	rootCmd.AddCommand(allowCmd)
}
