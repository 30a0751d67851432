// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"github.com/katalvlaran/waveprop/kernel"
)

// config is the diagnostic run, read from WAVEPROP_* variables.
type config struct {
	Samples     int       // WAVEPROP_N: samples per axis
	Pitch       float64   // WAVEPROP_PITCH: meters
	Wavelengths []float64 // WAVEPROP_WAVELENGTHS: comma-separated meters
	Distance    float64   // WAVEPROP_DISTANCE: meters, may be negative
	Radius      float64   // WAVEPROP_RADIUS: aperture radius or beam waist, meters
	Source      string    // WAVEPROP_SOURCE: circle | rectangle | gaussian | point
	Method      kernel.Method
	AutoResize  bool
	Workers     int
	MetricsAddr string // WAVEPROP_METRICS_ADDR: serve /metrics until interrupted when set
}

func defaultConfig() config {
	return config{
		Samples:     256,
		Pitch:       20e-6,
		Wavelengths: []float64{633e-9},
		Distance:    0.3,
		Radius:      0.5e-3,
		Source:      "circle",
		Method:      kernel.Auto,
		Workers:     runtime.NumCPU(),
	}
}

var sources = map[string]bool{"circle": true, "rectangle": true, "gaussian": true, "point": true}

// loadConfig applies the environment over the defaults. Invalid values are
// logged and the default kept.
func loadConfig(logger *slog.Logger, getenv func(string) string) config {
	cfg := defaultConfig()

	if v := getenv("WAVEPROP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid WAVEPROP_N value, using default", "value", v, "default", cfg.Samples)
		} else {
			cfg.Samples = n
		}
	}

	if v := getenv("WAVEPROP_PITCH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f > 0) {
			logger.Warn("invalid WAVEPROP_PITCH value, using default", "value", v, "default", cfg.Pitch)
		} else {
			cfg.Pitch = f
		}
	}

	if v := getenv("WAVEPROP_WAVELENGTHS"); v != "" {
		var ls []float64
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil || !(f > 0) {
				logger.Warn("invalid WAVEPROP_WAVELENGTHS entry, skipping", "value", s)
				continue
			}
			ls = append(ls, f)
		}
		if len(ls) > 0 {
			cfg.Wavelengths = ls
		} else {
			logger.Warn("no valid WAVEPROP_WAVELENGTHS entries, using default", "value", v)
		}
	}

	if v := getenv("WAVEPROP_DISTANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Warn("invalid WAVEPROP_DISTANCE value, using default", "value", v, "default", cfg.Distance)
		} else {
			cfg.Distance = f
		}
	}

	if v := getenv("WAVEPROP_RADIUS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f > 0) {
			logger.Warn("invalid WAVEPROP_RADIUS value, using default", "value", v, "default", cfg.Radius)
		} else {
			cfg.Radius = f
		}
	}

	if v := getenv("WAVEPROP_SOURCE"); v != "" {
		s := strings.ToLower(strings.TrimSpace(v))
		if !sources[s] {
			logger.Warn("invalid WAVEPROP_SOURCE value, using default", "value", v, "default", cfg.Source)
		} else {
			cfg.Source = s
		}
	}

	if v := getenv("WAVEPROP_METHOD"); v != "" {
		m, err := kernel.ParseMethod(v)
		if err != nil {
			logger.Warn("invalid WAVEPROP_METHOD value, using auto", "value", v, "error", err)
		} else {
			cfg.Method = m
		}
	}

	if v := getenv("WAVEPROP_AUTO_RESIZE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid WAVEPROP_AUTO_RESIZE value, defaulting to false", "value", v)
		} else {
			cfg.AutoResize = b
		}
	}

	if v := getenv("WAVEPROP_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid WAVEPROP_WORKERS value, using default", "value", v, "default", cfg.Workers)
		} else {
			cfg.Workers = n
		}
	}

	cfg.MetricsAddr = getenv("WAVEPROP_METRICS_ADDR")

	logger.Info("diagnostic config",
		"samples", cfg.Samples,
		"pitch_m", cfg.Pitch,
		"wavelengths_m", cfg.Wavelengths,
		"distance_m", cfg.Distance,
		"radius_m", cfg.Radius,
		"source", cfg.Source,
		"method", cfg.Method.String(),
		"auto_resize", cfg.AutoResize,
		"workers", cfg.Workers,
		"metrics_addr", cfg.MetricsAddr,
	)

	return cfg
}
