package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/selfheal/recovery-graph/internal/api"
	"github.com/selfheal/recovery-graph/internal/config"
	"github.com/selfheal/recovery-graph/internal/parser"
	"github.com/selfheal/recovery-graph/internal/session"
	"github.com/selfheal/recovery-graph/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [log-file]",
		Short: "Serve the charts in a browser",
		Long: `Start an HTTP viewer showing both charts. The log file is extracted again
whenever it changes on disk, so the page follows a live monitor log.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(args)
			if err != nil {
				return err
			}
			if cfg.LogFile == "" {
				return parser.ErrNoLogFile
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().String("addr", config.DefaultConfig().Server.Addr, "listen address")
	if err := a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	return cmd
}

// newServer assembles the echo instance for the viewer.
func newServer(cfg *config.Config, store *session.Store, logger *log.Logger, requestLog io.Writer) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = logger

	api.SetupMiddleware(e, requestLog)
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Source:       store,
		Thresholds:   api.Thresholds{CPU: cfg.Thresholds.CPU, Memory: cfg.Thresholds.Memory},
		ChartOptions: chartOptions(cfg),
		Version:      appVersion,
	}))
	if err := web.RegisterStaticRoutes(e); err != nil {
		return nil, err
	}
	return e, nil
}

// serve runs the viewer until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg *config.Config, logger *log.Logger, requestLog io.Writer) error {
	x := parser.NewExtractor(parser.WithTimestampLayout(cfg.TimestampLayout))
	store := session.NewStore(cfg.LogFile, x)
	if _, err := store.Current(ctx); err != nil {
		logger.Warnf("initial extraction failed, will retry on request: %v", err)
	}

	e, err := newServer(cfg, store, logger, requestLog)
	if err != nil {
		return err
	}

	s := &http.Server{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.StartServer(s)
	}()
	logger.Infof("serving %s on http://%s", cfg.LogFile, cfg.Server.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
