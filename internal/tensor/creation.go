package tensor

import (
	"fmt"
	"math/rand"
	"unsafe"
)

// Zeros creates a zero-filled tensor of the given shape.
//
// Example:
//
//	t := tensor.Zeros[float32](tensor.Shape{2, 3, 3, 1})
func Zeros[T DType](shape Shape) *RawTensor {
	raw, err := NewRaw(shape, TypeOf[T]())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	// Data is already zero-initialized by make()
	return raw
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	grads := tensor.Full[float32](tensor.Shape{1, 4, 4, 2}, 1.0)
func Full[T DType](shape Shape, value T) *RawTensor {
	raw := Zeros[T](shape)
	data := sliceOf[T](raw)
	for i := range data {
		data[i] = value
	}
	return raw
}

// FromSlice creates a tensor that copies the given data, which must contain
// exactly shape.NumElements() values.
//
// Example:
//
//	img, err := tensor.FromSlice([]float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	raw, err := NewRaw(shape, TypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(sliceOf[T](raw), data)
	return raw, nil
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
// Only works with float types.
// Note: Uses math/rand (not crypto/rand) - appropriate for synthetic image data.
func Rand[T DType](shape Shape) *RawTensor {
	raw := Zeros[T](shape)
	switch raw.DType() {
	case Float32:
		data := raw.AsFloat32()
		for i := range data {
			data[i] = rand.Float32() //nolint:gosec // G404: synthetic data, reproducibility over security
		}
	case Float64:
		data := raw.AsFloat64()
		for i := range data {
			data[i] = rand.Float64() //nolint:gosec // G404: synthetic data, reproducibility over security
		}
	default:
		panic("Rand only supports float32 and float64 types")
	}
	return raw
}

// sliceOf reinterprets the raw buffer as []T without a dtype switch.
// The caller guarantees the tensor was created with element type T.
func sliceOf[T DType](r *RawTensor) []T {
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), r.NumElements())
}
