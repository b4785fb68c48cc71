// Package pkg provides the libraries behind imgaug, a reproducible image
// augmentation tool.
//
// # Overview
//
// imgaug reads an image dataset laid out as <root>/original/<split>/...,
// applies geometric, frequency-domain and intensity augmentations and writes
// each result next to its input under <root>/<augmentation>/<split>/....
// The pkg directory is organized into three areas:
//
//  1. [core] - Numeric kernels working on plain pixel grids
//  2. [augment] - Named, parameterized operators built from the kernels
//  3. [pipeline] - Orchestration (scan → augment → store) with caching
//
// # Architecture
//
// The data flow of one run:
//
//	<root>/original/train/**
//	         ↓
//	    [dataset] package (scan, subsample, decode)
//	         ↓
//	    [augment] package (operator registry, seeded draws from [rng])
//	         ↓
//	    [core/geometric], [core/frequency], [core/intensity]
//	         ↓
//	    [dataset] package (encode, write <root>/<op>/train/**)
//
// [pipeline] drives this flow with bounded concurrency, consults [cache]
// before computing and records every run in a [store].
//
// # Quick Start
//
// Rotate a single image:
//
//	import (
//	    "github.com/matzehuels/imgaug/pkg/augment"
//	    "github.com/matzehuels/imgaug/pkg/dataset"
//	    "github.com/matzehuels/imgaug/pkg/rng"
//	)
//
//	img, _ := dataset.Load("cat.png")
//	op, _ := augment.New(augment.Rotate, augment.Params{MaxTheta: 30})
//	out, _ := op.Apply(img, rng.New(42))
//	_ = dataset.Save("cat_rotated.png", out)
//
// # Main Packages
//
// ## Kernels
//
// [core/geometric] - Affine resampling with nearest-neighbour sampling and
// strict bounds, plus flip, rotate, scale and translate matrix builders.
//
// [core/frequency] - Padded FFT filtering with Gaussian low-pass, high-pass
// and band-pass transfer functions. Two FFT backends (gonum, go-dsp).
//
// [core/intensity] - Histogram equalization and inversion.
//
// [raster] - The row-major 8-bit pixel grid shared by all kernels.
//
// [rng] - Seeded random sources and per-image seed derivation.
//
// ## Orchestration
//
// [augment] - Operator registry mapping names such as "rotate" or
// "bandpass" to configured operators.
//
// [dataset] - Dataset layout, subsampling and image codecs.
//
// [pipeline] - Batch execution used by the CLI and the HTTP API.
//
// [config] - TOML pipeline files.
//
// ## Infrastructure
//
// [cache] - Result cache with file, Redis and null backends.
//
// [store] - Run provenance with file, MongoDB and null backends.
//
// [server] - HTTP API (chi).
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Structured error codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/frequency/...     # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB tests run when IMGAUG_TEST_REDIS_URL and
// IMGAUG_TEST_MONGO_URI point at live servers.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/core
// [core/geometric]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/core/geometric
// [core/frequency]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/core/frequency
// [core/intensity]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/core/intensity
// [raster]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/raster
// [rng]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/rng
// [augment]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/augment
// [dataset]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/dataset
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/imgaug/pkg/errors
package pkg
