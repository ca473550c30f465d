// Package cpu implements the reference CPU backend for the crop-and-resize
// kernels: forward resampling, image gradients, and box gradients in 2-D
// (bilinear) and 3-D (trilinear) variants.
package cpu

import (
	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// CPUBackend executes the kernels on the host, partitioning work across
// boxes with the parallel package.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend with default parallelism.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
// A config with Enabled=false yields fully sequential, deterministic kernels.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
