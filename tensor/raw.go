// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/crop-ml/cropresize/internal/tensor"
)

// RawTensor is the dense array representation used throughout the library.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Strides()
//   - Type-safe data access via AsFloat32(), AsInt32(), etc.
//   - Raw byte access via Data() for I/O paths
//   - Deep copies via Clone() and zeroing via Zero()
//
// The buffer is always host-resident; GPU backends upload and read back
// around each dispatch.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32() // Type-safe access
//	data[0] = 1.5
type RawTensor = tensor.RawTensor
