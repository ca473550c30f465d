// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package roi_test

import (
	"testing"

	"github.com/crop-ml/cropresize/backend/cpu"
	"github.com/crop-ml/cropresize/roi"
	"github.com/crop-ml/cropresize/tensor"
)

// TestCropEndToEnd exercises the public API surface: backend construction,
// cropper construction and a full-image identity crop.
func TestCropEndToEnd(t *testing.T) {
	cropper, err := roi.New(cpu.New(), roi.Bilinear, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	image, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	boxes, err := tensor.FromSlice([]float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	boxIndex, err := tensor.FromSlice([]int32{0}, tensor.Shape{1})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	crops, err := cropper.Crop(image, boxes, boxIndex, [2]int{2, 2})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if !crops.Shape().Equal(tensor.Shape{1, 2, 2, 1}) {
		t.Fatalf("crops shape = %v, want [1 2 2 1]", crops.Shape())
	}
	want := []float32{1, 2, 3, 4}
	for i, got := range crops.AsFloat32() {
		if got != want[i] {
			t.Errorf("crops[%d] = %v, want %v", i, got, want[i])
		}
	}
}

// TestGradientsEndToEnd runs both backward operations through the facade.
func TestGradientsEndToEnd(t *testing.T) {
	cropper, err := roi.New(cpu.New(), roi.Bilinear, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	image, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	grads, err := tensor.FromSlice([]float32{1, 1, 1, 1}, tensor.Shape{1, 2, 2, 1})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	boxes, err := tensor.FromSlice([]float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	boxIndex, err := tensor.FromSlice([]int32{0}, tensor.Shape{1})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	gradImage, err := cropper.GradImage(grads, boxes, boxIndex, image.Shape(), image.DType())
	if err != nil {
		t.Fatalf("GradImage failed: %v", err)
	}
	// An identity crop of ones routes one unit of gradient to each pixel.
	for i, got := range gradImage.AsFloat32() {
		if got != 1 {
			t.Errorf("gradImage[%d] = %v, want 1", i, got)
		}
	}

	gradBoxes, err := cropper.GradBoxes(grads, image, boxes, boxIndex)
	if err != nil {
		t.Fatalf("GradBoxes failed: %v", err)
	}
	if !gradBoxes.Shape().Equal(tensor.Shape{1, 4}) {
		t.Fatalf("gradBoxes shape = %v, want [1 4]", gradBoxes.Shape())
	}
}

// TestMethodGating verifies a bilinear cropper rejects volumetric calls.
func TestMethodGating(t *testing.T) {
	cropper, err := roi.New(cpu.New(), roi.Bilinear, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	volume := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 2, 1})
	boxes := tensor.Zeros[float32](tensor.Shape{1, 6})
	boxIndex := tensor.Zeros[int32](tensor.Shape{1})

	if _, err := cropper.Crop3D(volume, boxes, boxIndex, [3]int{2, 2, 2}); err == nil {
		t.Fatal("expected method gating error for Crop3D on a bilinear cropper")
	}
}
