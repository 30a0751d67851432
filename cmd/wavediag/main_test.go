// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waveprop/kernel"
	"github.com/katalvlaran/waveprop/metrics"
	"github.com/katalvlaran/waveprop/propagate"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig(slog.New(slog.DiscardHandler), envMap(nil))
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg := loadConfig(slog.New(slog.DiscardHandler), envMap(map[string]string{
		"WAVEPROP_N":            "128",
		"WAVEPROP_PITCH":        "1e-5",
		"WAVEPROP_WAVELENGTHS":  "500e-9, 633e-9,,800e-9",
		"WAVEPROP_DISTANCE":     "-0.2",
		"WAVEPROP_RADIUS":       "2e-4",
		"WAVEPROP_SOURCE":       "Gaussian",
		"WAVEPROP_METHOD":       "fresnel_one_step",
		"WAVEPROP_AUTO_RESIZE":  "true",
		"WAVEPROP_WORKERS":      "3",
		"WAVEPROP_METRICS_ADDR": ":9090",
	}))
	assert.Equal(t, 128, cfg.Samples)
	assert.Equal(t, 1e-5, cfg.Pitch)
	assert.Equal(t, []float64{500e-9, 633e-9, 800e-9}, cfg.Wavelengths)
	assert.Equal(t, -0.2, cfg.Distance)
	assert.Equal(t, 2e-4, cfg.Radius)
	assert.Equal(t, "gaussian", cfg.Source)
	assert.Equal(t, kernel.FresnelOneStep, cfg.Method)
	assert.True(t, cfg.AutoResize)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadConfig_InvalidKeepsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cfg := loadConfig(logger, envMap(map[string]string{
		"WAVEPROP_N":           "-4",
		"WAVEPROP_PITCH":       "abc",
		"WAVEPROP_WAVELENGTHS": "x,-1",
		"WAVEPROP_SOURCE":      "laser",
		"WAVEPROP_METHOD":      "magic",
		"WAVEPROP_AUTO_RESIZE": "maybe",
	}))
	def := defaultConfig()
	assert.Equal(t, def.Samples, cfg.Samples)
	assert.Equal(t, def.Pitch, cfg.Pitch)
	assert.Equal(t, def.Wavelengths, cfg.Wavelengths)
	assert.Equal(t, def.Source, cfg.Source)
	assert.Equal(t, kernel.Auto, cfg.Method)
	assert.False(t, cfg.AutoResize)
	assert.Contains(t, buf.String(), "invalid WAVEPROP_N value")
	assert.Contains(t, buf.String(), "invalid WAVEPROP_METHOD value")
}

func TestRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := defaultConfig()
	cfg.Samples = 64
	cfg.Source = "gaussian"
	cfg.Radius = 0.2e-3
	cfg.Distance = 0.08
	cfg.Wavelengths = []float64{500e-9, 633e-9}
	cfg.Workers = 2

	require.NoError(t, run(context.Background(), cfg, logger, rec))
	n, err := testutil.GatherAndCount(reg, "waveprop_propagations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "one angular-spectrum/ok series")
	assert.Contains(t, buf.String(), `"msg":"propagated field"`)
	assert.Contains(t, buf.String(), `"method":"angular-spectrum"`)
}

func TestRun_SamplingFailure(t *testing.T) {
	cfg := defaultConfig()
	cfg.Samples = 64
	cfg.Pitch = 100e-6
	cfg.Distance = 0.01
	cfg.Method = kernel.AngularSpectrum

	err := run(context.Background(), cfg, slog.New(slog.DiscardHandler), nil)
	assert.ErrorIs(t, err, propagate.ErrSamplingViolation)
}
