// cmd/storefront/commands/serve.go
package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mycars-storefront/internal/api/routes"
	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/socket"
	"mycars-storefront/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	return cmd
}

func serve(ctx context.Context) error {
	gin.SetMode(cfg.Server.Mode)

	client := newClient()
	hub := socket.NewHub(log)
	creator := workflow.NewCreator(client, apiclient.NewCarRepository(client), hub, log)

	router, err := routes.SetupRouter(routes.Deps{
		Config:  cfg,
		Client:  client,
		Creator: creator,
		Hub:     hub,
		Log:     log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting storefront",
			zap.String("addr", srv.Addr),
			zap.String("apiBaseURL", client.BaseURL()),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down storefront", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("storefront stopped")
	return nil
}
