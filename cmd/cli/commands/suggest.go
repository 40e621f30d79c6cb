package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/services"
)

// SuggestCmd creates the suggest command
func SuggestCmd(app *AppContext) *cobra.Command {
	var flags requestFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Validate a job and propose ranked worker assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			app.Logger.Debug("suggest command", zap.String("team_id", req.TeamID))

			result, err := services.SuggestAssignments(app.Ctx, app.Database, app.Cfg.ValidationOptions(), app.Logger, req)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printValidation(cmd.OutOrStdout(), result.Validation)
			printSuggestions(cmd.OutOrStdout(), result.Suggestions)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
