// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package roi provides the public API for extracting and resizing regions
// of interest from batched images and volumes.
//
// The semantics match the TensorFlow CropAndResize operator family: boxes
// are normalized [y1, x1, y2, x2] coordinates ([y1, x1, z1, y2, x2, z2] for
// volumes), sampling is bilinear or trilinear, and gradients are available
// with respect to both the image and the boxes.
//
// Example:
//
//	cropper, _ := roi.New(cpu.New(), roi.Bilinear, 0)
//	crops, err := cropper.Crop(image, boxes, boxIndex, [2]int{64, 64})
package roi

import (
	"github.com/crop-ml/cropresize/internal/roi"
)

// Method selects the interpolation used when resampling crops.
type Method = roi.Method

// Supported interpolation methods.
const (
	// Bilinear interpolates 2D crops from the four enclosing pixels.
	Bilinear Method = roi.Bilinear
	// Trilinear interpolates 3D crops from the eight enclosing voxels.
	Trilinear Method = roi.Trilinear
)

// Backend is the kernel contract compute devices implement. The cpu backend
// always satisfies it; the webgpu backend does on platforms it builds for.
type Backend = roi.Backend

// Cropper validates arguments, allocates outputs and dispatches the
// crop-and-resize kernels on its Backend.
//
// A Cropper is safe for concurrent use when its Backend is; both provided
// backends are.
type Cropper = roi.Cropper

// New creates a Cropper running on the given backend.
//
// method must be Bilinear (4-D images, 4-coordinate boxes) or Trilinear
// (5-D volumes, 6-coordinate boxes); the Cropper's operations are gated on
// it. extrapolationValue fills samples that fall outside the source image.
//
// Example:
//
//	backend := cpu.New()
//	cropper, err := roi.New(backend, roi.Bilinear, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	crops, err := cropper.Crop(image, boxes, boxIndex, [2]int{64, 64})
func New(backend Backend, method Method, extrapolationValue float32) (*Cropper, error) {
	return roi.New(backend, method, extrapolationValue)
}
