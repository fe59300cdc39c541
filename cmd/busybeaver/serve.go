package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/busybeaver"
	"github.com/aretw0/busybeaver/internal/cli"
	"github.com/aretw0/busybeaver/internal/presentation/tui"
	apihttp "github.com/aretw0/busybeaver/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		store string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored search results and catalog runs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Kind = store
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			backend, err := cli.OpenBackend(cfg.Store)
			if err != nil {
				return err
			}
			defer backend.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			eng, err := cli.NewEngine(cfg, a.logger, reg, backend)
			if err != nil {
				return err
			}

			tui.PrintBanner(cmd.ErrOrStderr(), profileOf(cmd.ErrOrStderr()))
			return serve(cmd.Context(), cfg.HTTP.Addr, eng, reg, a)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&store, "store", "", "result store: none, memory, file, redis, sqlite")
	return cmd
}

// serve blocks until ctx is cancelled or the listener fails, then drains
// in-flight requests for up to shutdownTimeout.
func serve(ctx context.Context, addr string, eng *busybeaver.Engine, reg *prometheus.Registry, a *app) error {
	srv := &http.Server{
		Addr: addr,
		Handler: apihttp.NewHandler(&apihttp.Server{
			Store:    eng.Store(),
			Runner:   eng,
			Gatherer: reg,
			Version:  strings.TrimSpace(busybeaver.Version),
			Logger:   a.logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", srv.Addr, "store", a.cfg.Store.Kind)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		a.logger.Info("shutting down", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		a.logger.Info("server stopped")
		return nil
	}
}
