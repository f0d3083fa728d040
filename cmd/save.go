// File: cmd/save.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dvalis/opendnsctl/internal/conf"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current dashboard state to a timestamped config file",
	Long: `Save signs in, reads the current blocked/allowed state of every category
and writes it as a new opendns.conf.<timestamp> file. The saved file can be
replayed later with the apply command.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, appCfg.ConfPath, false, func(ctx context.Context, rt *runtime) error {
			path, err := conf.Save(rt.catalog, rt.before,
				rt.creds.User, rt.creds.Pass, rt.creds.NetworkID, rt.creds.ScreenshotPath)
			if err != nil {
				return err
			}
			rt.logger.Info("Saved current settings", zap.String("path", path))
			fmt.Fprintln(cmd.OutOrStdout(), "Saved current settings to", path)
			printStatus(cmd, rt.catalog, rt.before, nil)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
}
