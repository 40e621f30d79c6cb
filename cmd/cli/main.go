package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Mohamed-004/scheduler/cmd/cli/commands"
	"github.com/Mohamed-004/scheduler/internal/config"
	"github.com/Mohamed-004/scheduler/pkg/utils/logging"
)

func main() {
	app := &commands.AppContext{Ctx: context.Background()}

	var configPath, env, fixture string
	var verbose bool

	root := &cobra.Command{
		Use:           "scheduler",
		Short:         "Check job schedules against worker roles and availability",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()

			var err error
			if configPath != "" {
				app.Cfg, err = config.LoadFromPath(configPath)
			} else {
				app.Cfg, err = config.Load()
			}
			if err != nil {
				return err
			}

			app.Logger, err = logging.InitLogger(logging.Options{Env: env, Verbose: verbose})
			if err != nil {
				return err
			}

			return app.OpenStore(fixture)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./"+config.FileName+" or ~/"+config.FileName+")")
	root.PersistentFlags().StringVar(&env, "env", "dev", "environment name, used to prefix log files")
	root.PersistentFlags().StringVar(&fixture, "fixture", "", "YAML team fixture to use instead of the database")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to the console")

	root.AddCommand(
		commands.ValidateCmd(app),
		commands.SuggestCmd(app),
		commands.CreateJobCmd(app),
		commands.MigrateCmd(app),
		commands.ServeCmd(app),
	)

	if err := root.Execute(); err != nil {
		app.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
