// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/crop-ml/cropresize/internal/backend/cpu"
	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/roi"
)

// Backend represents the CPU backend implementation.
//
// All six crop-and-resize kernels run as pure Go over raw slices,
// partitioned across goroutines by estimated per-box cost.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements roi.Backend.
var _ roi.Backend = (*Backend)(nil)

// Config controls how the backend partitions kernel work across goroutines.
//
// Disabling it (or setting NumWorkers to 1) forces sequential execution,
// which is useful for bit-exact reproducibility of image gradients.
type Config = parallel.Config

// DefaultConfig returns the parallel configuration New uses: one worker per
// CPU, with small workloads kept sequential.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// New creates a new CPU backend with the default parallel configuration.
//
// Example:
//
//	import (
//	    "github.com/crop-ml/cropresize/backend/cpu"
//	    "github.com/crop-ml/cropresize/roi"
//	)
//
//	func main() {
//	    cropper, err := roi.New(cpu.New(), roi.Bilinear, 0)
//	    ...
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
//
// Example:
//
//	backend := cpu.NewWithConfig(cpu.Config{Enabled: false})
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}
