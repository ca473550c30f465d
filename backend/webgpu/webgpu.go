//go:build windows

// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU backend for crop-and-resize.
//
// Forward crops run as WGSL compute shaders through WebGPU (wgpu_native);
// gradient kernels fall back to the CPU backend, which WGSL cannot replace
// without float atomics. The backend requires the wgpu_native shared
// library at runtime.
//
// Example:
//
//	import (
//	    "github.com/crop-ml/cropresize/backend/webgpu"
//	    "github.com/crop-ml/cropresize/roi"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    cropper, err := roi.New(gpu, roi.Bilinear, 0)
//	    ...
//	}
package webgpu

import (
	internalwebgpu "github.com/crop-ml/cropresize/internal/backend/webgpu"
	"github.com/crop-ml/cropresize/roi"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements roi.Backend.
var _ roi.Backend = (*Backend)(nil)

// New creates a new WebGPU backend on the first available adapter.
//
// Call Release when done to free GPU resources. Returns an error if the
// wgpu_native library is missing or no compatible adapter is found.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU can be initialized on the current system.
//
// Useful for graceful fallback to the CPU backend:
//
//	var backend roi.Backend = cpu.New()
//	if webgpu.IsAvailable() {
//	    gpu, err := webgpu.New()
//	    if err == nil {
//	        defer gpu.Release()
//	        backend = gpu
//	    }
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
