// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package roi crops and resizes regions of interest.
//
// # Overview
//
// A Cropper extracts patches from a batch of images at normalized box
// coordinates and resamples each patch to a fixed crop size:
//   - Crop / Crop3D: forward sampling (bilinear / trilinear)
//   - GradImage / GradImage3D: gradient with respect to the source image
//   - GradBoxes / GradBoxes3D: gradient with respect to the box coordinates
//
// Boxes are [y1, x1, y2, x2] in [0, 1] relative to the image extents; a
// coordinate outside that range samples beyond the image and yields the
// cropper's extrapolation value. y2 < y1 flips the crop vertically (same
// for the other axes).
//
// # Basic Usage
//
//	import (
//	    "github.com/crop-ml/cropresize/backend/cpu"
//	    "github.com/crop-ml/cropresize/roi"
//	    "github.com/crop-ml/cropresize/tensor"
//	)
//
//	func main() {
//	    cropper, err := roi.New(cpu.New(), roi.Bilinear, 0)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // image is [batch, H, W, C]; one box per crop.
//	    boxes, _ := tensor.FromSlice([]float32{0.1, 0.1, 0.9, 0.9}, tensor.Shape{1, 4})
//	    boxIndex, _ := tensor.FromSlice([]int32{0}, tensor.Shape{1})
//
//	    crops, err := cropper.Crop(image, boxes, boxIndex, [2]int{64, 64})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = crops // [1, 64, 64, C] float32
//	}
//
// # Gradients
//
// For training, GradImage scatters incoming crop gradients back onto the
// image grid and GradBoxes differentiates the sampling positions with
// respect to the four (or six) box coordinates:
//
//	gradImage, err := cropper.GradImage(grads, boxes, boxIndex, image.Shape(), image.DType())
//	gradBoxes, err := cropper.GradBoxes(grads, image, boxes, boxIndex)
//
// # Backends
//
// The cpu backend runs everywhere and parallelizes across boxes. The webgpu
// backend dispatches forward crops as WGSL compute shaders and falls back to
// the CPU for gradients.
package roi
