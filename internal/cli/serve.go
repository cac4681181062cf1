package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NamanBalaji/debridget/internal/api"
	"github.com/NamanBalaji/debridget/internal/config"
	"github.com/NamanBalaji/debridget/internal/engine"
	"github.com/NamanBalaji/debridget/internal/logger"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the download HTTP API",
		Long:  "Start the engine and serve the download API until interrupted. Running transfers are cancelled on shutdown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			if written, err := config.WriteDefault(); err != nil {
				logger.Warnf("Could not write default config %s: %v", config.Path(), err)
			} else if written {
				logger.Infof("Wrote default config to %s", config.Path())
			}

			if addr != "" {
				cfg.ListenAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, engine.New(engineConfig(cfg)))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, "+config.EnvListenAddr+")")

	return cmd
}

// serve runs the API server until ctx is done, then shuts the server and engine down.
func serve(ctx context.Context, cfg *config.Config, eng *engine.Engine) error {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(eng, cfg.CategoryDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Warnf("Serving API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}

		if err := eng.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}

		return errors.Join(errs...)
	})

	return g.Wait()
}
