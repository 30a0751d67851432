// SPDX-License-Identifier: MIT

// Command wavediag propagates a generated source field at one or more
// wavelengths and logs the result summary as JSON. Configuration comes from
// WAVEPROP_* environment variables; with WAVEPROP_METRICS_ADDR set, the
// Prometheus metrics of the run are served until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/metrics"
	"github.com/katalvlaran/waveprop/propagate"
	"github.com/katalvlaran/waveprop/source"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	cfg := loadConfig(logger, os.Getenv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		logger.Error("metrics registration failed", "error", err)
		os.Exit(1)
	}

	if err = run(ctx, cfg, logger, rec); err != nil {
		logger.Error("propagation failed", "error", err)
		os.Exit(1)
	}

	if cfg.MetricsAddr == "" {
		return
	}
	if err = serveMetrics(ctx, cfg.MetricsAddr, reg, logger); err != nil {
		logger.Error("metrics server error", "error", err)
		os.Exit(1)
	}
}

// run builds one source field per wavelength and propagates them as a batch.
func run(ctx context.Context, cfg config, logger *slog.Logger, rec *metrics.Recorder) error {
	g, err := grid.New(cfg.Samples, cfg.Samples, cfg.Pitch, cfg.Pitch)
	if err != nil {
		return err
	}
	amp, err := generate(g, cfg)
	if err != nil {
		return err
	}
	fields := make([]*field.Field, len(cfg.Wavelengths))
	for i, l := range cfg.Wavelengths {
		if fields[i], err = field.NewFlat(amp, g, l); err != nil {
			return fmt.Errorf("wavelength %g: %w", l, err)
		}
	}

	p := propagate.New(
		propagate.WithLogger(logger),
		propagate.WithMetrics(rec),
		propagate.WithWorkers(cfg.Workers),
	)
	for _, f := range fields {
		m, nf, err := p.Recommend(g, f.Wavelength(), cfg.Distance)
		if err != nil {
			return err
		}
		logger.Info("recommendation",
			"wavelength_m", f.Wavelength(),
			"method", m.String(),
			"fresnel_number", nf,
		)
	}

	call := []propagate.CallOption{propagate.Method(cfg.Method)}
	if cfg.AutoResize {
		call = append(call, propagate.AutoResize())
	}
	start := time.Now()
	out, err := p.PropagateBatch(ctx, fields, cfg.Distance, call...)
	if err != nil {
		return err
	}

	for i, f := range out {
		og := f.Grid()
		logger.Info("propagated field",
			"wavelength_m", f.Wavelength(),
			"z_m", f.Position(),
			"grid", og.String(),
			"power_in", fields[i].Power(),
			"power_out", f.Power(),
			"peak_intensity", f.PeakIntensity(),
			"center_intensity", intensity(f.Center()),
		)
	}
	logger.Info("run complete", "fields", len(out), "duration_ms", time.Since(start).Milliseconds())

	return nil
}

func generate(g grid.Grid, cfg config) ([]complex128, error) {
	switch cfg.Source {
	case "rectangle":
		return source.Rectangle(g, 2*cfg.Radius, 2*cfg.Radius, source.WithSupersample(4))
	case "gaussian":
		return source.Gaussian(g, cfg.Radius)
	case "point":
		return source.Point(g, 0, 0)
	default:
		return source.Circle(g, cfg.Radius, source.WithSupersample(4))
	}
}

func intensity(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}

// serveMetrics exposes reg on addr until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down metrics server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
