package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"BuffettIndicator/internal/domain/models"
	"BuffettIndicator/internal/presenter"
	"BuffettIndicator/internal/service/ratelimit"
	"BuffettIndicator/pkg/config"
	xhttp "BuffettIndicator/pkg/http"
	applogger "BuffettIndicator/pkg/logger"
)

const limiterPruneInterval = time.Minute

// Calculator produces one indicator report per call.
type Calculator interface {
	Calculate(ctx context.Context) (*models.Report, error)
}

// App encapsulates the application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	calc        Calculator
	httpHandler xhttp.Handler
	limiter     *ratelimit.Limiter
	closers     []io.Closer
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	calc Calculator,
	handler xhttp.Handler,
	limiter *ratelimit.Limiter,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		calc:        calc,
		httpHandler: handler,
		limiter:     limiter,
	}
}

// AddCloser registers a resource released by Close.
func (a *App) AddCloser(c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

// RunOnce performs a single fetch, compute and print cycle and returns the
// process exit code.
func (a *App) RunOnce(ctx context.Context, out io.Writer) int {
	report, err := a.calc.Calculate(ctx)
	if err != nil {
		a.logger.Warn("indicator not calculated", applogger.Error(err))
		if werr := presenter.WriteUnavailable(out); werr != nil {
			a.logger.Error("write output", applogger.Error(werr))
		}
		return 1
	}

	if err := presenter.WriteText(out, report); err != nil {
		a.logger.Error("write output", applogger.Error(err))
		return 1
	}
	return 0
}

// Serve runs the HTTP API and blocks until SIGINT or SIGTERM, or until the
// server fails.
func (a *App) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsPath := a.cfg.Metrics.Path
	if !a.cfg.Metrics.Enabled {
		metricsPath = ""
	}
	srv := xhttp.NewServer(a.httpHandler, a.logger,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(a.cfg.Server.SlowRequest),
		xhttp.WithMetricsPath(metricsPath),
	)
	if err := srv.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("serving indicator api",
		applogger.String("addr", srv.Addr()),
		applogger.String("metrics_path", metricsPath),
	)

	if a.limiter != nil {
		go a.pruneLimiter(ctx)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case serveErr = <-srv.Errors():
		a.logger.Error("http server stopped unexpectedly", applogger.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout())
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return errors.Join(serveErr, err)
	}
	return serveErr
}

func (a *App) pruneLimiter(ctx context.Context) {
	t := time.NewTicker(limiterPruneInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Prune(); n > 0 {
				a.logger.Debug("pruned rate limit buckets", applogger.Int("count", n))
			}
		}
	}
}

// Close releases infrastructure clients.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
