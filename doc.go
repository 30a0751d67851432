// Package waveprop is a free-space optical field propagation engine: scalar
// complex fields sampled on a rectangular grid are advanced between planes
// with the method that fits the geometry.
//
// 🚀 What is waveprop?
//
//	A small, concurrency-safe library that brings together:
//		• Grids: immutable lattices with centered coordinates and FFT-order frequencies
//		• Fields: immutable complex samples with power, intensity and resampling
//		• Kernels: angular spectrum (band-limited, shifted), Fresnel one-step,
//		  Fresnel two-step (magnifying), Fraunhofer, Rayleigh–Sommerfeld direct integration
//		• Sampling: per-method Nyquist checks with recommended grids
//		• Propagation: automatic method choice, kernel cache, batch over wavelengths
//
// ✨ Why choose waveprop?
//
//   - Explicit – every sampling violation is reported with the lattice that fixes it
//   - Immutable – grids, fields and kernels are values you can share across goroutines
//   - Observable – slog logging and Prometheus metrics injected per Propagator
//
// Packages:
//
//	grid/      — lattice geometry: counts, pitch, origin, extents, frequencies
//	field/     — complex field, energy, normalization, bilinear/Fourier resampling
//	spectral/  — 2D FFT, centered transforms, shifts, pad/crop/flip
//	kernel/    — Method enum and kernel builders, Apply
//	sampling/  — Check(Request) → Report with violations and recommendation
//	propagate/ — Propagator: Prepare/Execute, Auto method, LRU cache, PropagateBatch
//	source/    — apertures, Gaussian beam, point source
//	metrics/   — Prometheus recorder and /metrics handler
//	cmd/wavediag — environment-configured diagnostic run
//
// Quick sketch:
//
//	  aperture ──z──▶ observation plane
//	    ┌─┐            ░░▒▒▓▓▒▒░░
//	    └─┘
//
//	g, _ := grid.New(256, 256, 20e-6, 20e-6)
//	u, _ := source.Circle(g, 0.5e-3)
//	f, _ := field.NewFlat(u, g, 633e-9)
//	out, err := propagate.New().Propagate(f, 0.3)
//
//	go get github.com/katalvlaran/waveprop
package waveprop
