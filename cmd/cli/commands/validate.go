package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/services"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	var flags requestFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check whether a job can be scheduled and explain what is missing",
		Example: "  scheduler validate --fixture team.yaml --team team-1 --date 2026-10-19 " +
			"--start 10:00 --end 12:00 --role window:2",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			app.Logger.Debug("validate command", zap.String("team_id", req.TeamID), zap.Int("roles", len(req.Roles)))

			result := services.ValidateJob(app.Ctx, app.Database, app.Cfg.ValidationOptions(), app.Logger, req)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printValidation(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
