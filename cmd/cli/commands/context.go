package commands

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/internal/config"
	"github.com/Mohamed-004/scheduler/pkg/db"
	"github.com/Mohamed-004/scheduler/pkg/memstore"
	"github.com/Mohamed-004/scheduler/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Store
	// Postgres is set when Database is backed by PostgreSQL
	Postgres *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}

// OpenStore loads the YAML fixture when one is given, otherwise connects to the configured database
func (app *AppContext) OpenStore(fixturePath string) error {
	if fixturePath != "" {
		store, err := memstore.LoadFile(fixturePath)
		if err != nil {
			return err
		}
		app.Logger.Debug("Using fixture store", zap.String("path", fixturePath))
		app.Database = store
		return nil
	}

	if app.Cfg.DatabaseURL == "" {
		return errors.WithHint(
			errors.New("no data source configured"),
			"Pass --fixture <team.yaml> or set DATABASE_URL.")
	}

	pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
	if err != nil {
		return err
	}
	app.Logger.Debug("Connected to PostgreSQL")
	app.Postgres = pg
	app.Database = pg
	return nil
}

// Close releases the database connection, if any
func (app *AppContext) Close() {
	if app.Postgres != nil {
		app.Postgres.Close()
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
