package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/core/services"
)

// CreateJobCmd creates the createJob command
func CreateJobCmd(app *AppContext) *cobra.Command {
	var flags requestFlags
	var clientID, address, lead string
	var assign []string
	var pick int

	cmd := &cobra.Command{
		Use:   "createJob",
		Short: "Validate a job and save it with its worker assignments",
		Long: "Validate a job and save it with its worker assignments.\n\n" +
			"Assignments come either from --assign worker:role (repeatable) or from\n" +
			"--suggestion N, which takes the Nth ranked suggestion.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			if pick > 0 && len(assign) > 0 {
				return errors.New("use either --assign or --suggestion, not both")
			}

			opts := app.Cfg.ValidationOptions()
			assignments, err := parseAssignments(assign, lead)
			if err != nil {
				return err
			}

			if pick > 0 {
				suggested, err := services.SuggestAssignments(app.Ctx, app.Database, opts, app.Logger, req)
				if err != nil {
					return err
				}
				if pick > len(suggested.Suggestions) {
					printValidation(cmd.OutOrStdout(), suggested.Validation)
					return errors.Newf("there are only %d suggestions", len(suggested.Suggestions))
				}
				assignments = suggested.Suggestions[pick-1].Assignments("")
			}

			app.Logger.Debug("createJob command",
				zap.String("team_id", req.TeamID),
				zap.Int("assignments", len(assignments)))

			result, err := services.CreateJob(app.Ctx, app.Database, opts, app.Logger, services.CreateJobInput{
				Request:     req,
				ClientID:    clientID,
				Address:     address,
				Assignments: assignments,
			})
			var notBookable *services.NotBookableError
			if errors.As(err, &notBookable) {
				printValidation(cmd.OutOrStdout(), notBookable.Validation)
			}
			if err != nil {
				return err
			}

			printJob(cmd, result.Job, result.Assignments)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&clientID, "client", "", "client ID")
	cmd.Flags().StringVar(&address, "address", "", "job address")
	cmd.Flags().StringArrayVar(&assign, "assign", nil, "assignment as worker:role, repeatable")
	cmd.Flags().StringVar(&lead, "lead", "", "worker ID to mark as lead")
	cmd.Flags().IntVar(&pick, "suggestion", 0, "use the Nth suggestion's assignments")
	return cmd
}

func printJob(cmd *cobra.Command, job model.Job, assignments []model.WorkerRoleAssignment) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%s✓ Job created%s\n\n", colorGreen, colorReset)
	fmt.Fprintf(w, "Job ID: %s\n", job.ID)
	fmt.Fprintf(w, "When:   %s to %s\n", job.Start.Format("Mon 2006-01-02 15:04"), job.End.Format("15:04"))
	fmt.Fprintf(w, "Status: %s\n", job.Status)

	if len(assignments) > 0 {
		fmt.Fprintf(w, "\nAssigned:\n")
		for _, a := range assignments {
			lead := ""
			if a.IsLead {
				lead = " (lead)"
			}
			fmt.Fprintf(w, "  - %s as %s at %.2f/h%s\n", a.WorkerID, a.JobRoleID, a.HourlyRate, lead)
		}
	}
	fmt.Fprintln(w)
}
