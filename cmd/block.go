// File: cmd/block.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Block the categories configured in opendns.conf",
	Long: `Block reads the configured category list and makes sure every listed
category is blocked on the dashboard. Categories not in the list are left as
they are.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, appCfg.ConfPath, true, func(ctx context.Context, rt *runtime) error {
			rt.logger.Info("Blocking configured categories",
				zap.Int("count", len(rt.creds.Blocked)))

			desired := blockedSet(rt.catalog, rt.before)
			have := make(map[string]struct{}, len(desired))
			for _, name := range desired {
				have[name] = struct{}{}
			}
			for _, name := range rt.creds.Blocked {
				if _, dup := have[name]; !dup {
					desired = append(desired, name)
				}
			}
			return runMutation(ctx, cmd, rt, desired)
		})
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
}
