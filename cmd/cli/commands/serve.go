package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/api"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Cfg.HTTPAddr
			}
			if os.Getenv("GIN_MODE") == "" {
				gin.SetMode(gin.ReleaseMode)
			}

			router := api.NewRouter(&api.Handler{
				Store:   app.Database,
				Options: app.Cfg.ValidationOptions(),
				Logger:  app.Logger,
			})
			server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				app.Logger.Info("Server starting", zap.String("addr", addr))
				serveErr <- server.ListenAndServe()
			}()

			select {
			case err := <-serveErr:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return errors.Wrap(err, "server stopped")
			case <-ctx.Done():
			}

			app.Logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return errors.Wrap(server.Shutdown(shutdownCtx), "failed to shut down server")
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to httpAddr from config)")
	return cmd
}
