// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense arrays the
// crop-and-resize operations consume and produce.
//
// The package defines the core data types:
//   - RawTensor: a contiguous row-major host buffer with shape and type info
//   - Shape, DataType, Device: core type definitions
//   - Creation helpers: NewRaw, Zeros, Full, FromSlice, Rand
//
// Example:
//
//	image, _ := tensor.FromSlice(pixels, tensor.Shape{1, 480, 640, 3})
//	boxes, _ := tensor.FromSlice([]float32{0.1, 0.1, 0.9, 0.9}, tensor.Shape{1, 4})
package tensor

import (
	"github.com/crop-ml/cropresize/internal/tensor"
)

// Type aliases for public API

// DType is a constraint covering the supported tensor element types:
// float32, float64, int8, int16, int32, int64, uint8, uint16.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Uint16  DataType = tensor.Uint16
)

// Device identifies where a backend runs its kernels.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Creation functions

// NewRaw creates a zero-initialized tensor with the given shape and type.
//
// Example:
//
//	crops, err := tensor.NewRaw(tensor.Shape{4, 32, 32, 3}, tensor.Float32)
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
func Zeros[T DType](shape Shape) *RawTensor {
	return tensor.Zeros[T](shape)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14)
func Full[T DType](shape Shape, value T) *RawTensor {
	return tensor.Full[T](shape, value)
}

// FromSlice creates a tensor from existing data. The slice length must match
// the shape's element count.
//
// Example:
//
//	boxes, err := tensor.FromSlice([]float32{0, 0, 1, 1}, tensor.Shape{1, 4})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Rand creates a tensor filled with uniform random values in [0, 1).
//
// Example:
//
//	x := tensor.Rand[float32](tensor.Shape{2, 3})
func Rand[T DType](shape Shape) *RawTensor {
	return tensor.Rand[T](shape)
}

// TypeOf returns the runtime DataType for a generic element type.
//
// Example:
//
//	dt := tensor.TypeOf[float32]()  // tensor.Float32
func TypeOf[T DType]() DataType {
	return tensor.TypeOf[T]()
}
