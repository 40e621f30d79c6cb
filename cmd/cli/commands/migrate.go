package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Postgres == nil {
				return errors.New("migrate needs a PostgreSQL database; set DATABASE_URL and drop --fixture")
			}

			if err := app.Postgres.RunMigrations(app.Ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%s✓ Database is up to date%s\n\n", colorGreen, colorReset)
			return nil
		},
	}
}
