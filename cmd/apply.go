// File: cmd/apply.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Apply a saved config file as the exact desired state",
	Long: `Apply reads a previously saved config file and makes the dashboard match
it exactly: every category in its blocked list ends up blocked and every
other known category ends up allowed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, args[0], true, func(ctx context.Context, rt *runtime) error {
			rt.logger.Info("Applying settings from file",
				zap.String("path", args[0]), zap.Int("blocked", len(rt.creds.Blocked)))
			return runMutation(ctx, cmd, rt, rt.creds.Blocked)
		})
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
