// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense array types for crop-and-resize.
//
// # Overview
//
// Every operation in this library exchanges RawTensor values: contiguous
// row-major host buffers tagged with a Shape and a DataType. Images are
// [batch, height, width, channels] (or [batch, height, width, depth,
// channels] for volumes), boxes are [num_boxes, 4] (or [num_boxes, 6])
// float32, and box indices are [num_boxes] int32.
//
// # Basic Usage
//
//	import (
//	    "github.com/crop-ml/cropresize/tensor"
//	)
//
//	func main() {
//	    // A one-image float32 batch.
//	    image := tensor.Rand[float32](tensor.Shape{1, 480, 640, 3})
//
//	    // One box covering the center of that image.
//	    boxes, _ := tensor.FromSlice([]float32{0.25, 0.25, 0.75, 0.75}, tensor.Shape{1, 4})
//	    boxIndex, _ := tensor.FromSlice([]int32{0}, tensor.Shape{1})
//
//	    _ = image
//	    _ = boxes
//	    _ = boxIndex
//	}
//
// # Element Types
//
// Images accept any supported numeric element type (float32, float64, int8,
// int16, int32, int64, uint8, uint16); sampling always computes in float32.
// Crops, boxes and box gradients are float32. Image gradients follow the
// image's floating type.
package tensor
