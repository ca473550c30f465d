// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for crop-and-resize.
//
// # Overview
//
// This package implements every kernel of the roi.Backend contract:
//   - Forward bilinear and trilinear crop-and-resize
//   - Image gradients (scatter-accumulate onto the source grid)
//   - Box gradients (per-box coordinate derivatives)
//
// Images may use any supported numeric element type; sampling computes in
// float32. No CGO.
//
// # Basic Usage
//
//	import (
//	    "github.com/crop-ml/cropresize/backend/cpu"
//	    "github.com/crop-ml/cropresize/roi"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    cropper, err := roi.New(backend, roi.Bilinear, 0)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    crops, err := cropper.Crop(image, boxes, boxIndex, [2]int{64, 64})
//	    ...
//	}
//
// # Parallelism
//
// Work is partitioned across boxes into cost-weighted chunks, one goroutine
// per chunk. Forward crops and box gradients write disjoint outputs, so
// parallel results are byte-identical to sequential ones. Image gradients
// accumulate per-chunk partial sums and reduce them in a fixed order:
// deterministic across runs, though float rounding may differ from a
// sequential run by a few ulps. Use NewWithConfig(cpu.Config{Enabled: false})
// when bit-exact sequential behavior matters.
//
// # Thread Safety
//
// The backend is stateless apart from its configuration and safe for
// concurrent use.
package cpu
