// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package imageio bridges image.Image values and crop tensors.
//
// Decoded images become [batch, height, width, 3] uint8 RGB tensors ready
// for cropping; float32 crops render back to 8-bit images with overshoot
// clamped.
//
// Example:
//
//	image, err := imageio.Open("photo.jpg")       // [1, H, W, 3] uint8
//	crops, err := cropper.Crop(image, boxes, boxIndex, [2]int{64, 64})
//	imgs, err := imageio.ToImages(crops)
//	err = imageio.Save(imgs[0], "patch.png")
package imageio

import (
	"image"

	internalimageio "github.com/crop-ml/cropresize/internal/imageio"
	"github.com/crop-ml/cropresize/tensor"
)

// Open decodes the image at path into a [1, height, width, 3] uint8 tensor.
func Open(path string) (*tensor.RawTensor, error) {
	return internalimageio.Open(path)
}

// Save encodes img to path. The format follows the file extension
// (jpg, png, gif, tif or bmp).
func Save(img image.Image, path string) error {
	return internalimageio.Save(img, path)
}

// FromImage converts one image into a [1, height, width, 3] uint8 tensor.
// Alpha is dropped; grayscale replicates to three channels.
func FromImage(img image.Image) (*tensor.RawTensor, error) {
	return internalimageio.FromImage(img)
}

// FromImages stacks same-sized images into a [len(imgs), height, width, 3]
// uint8 tensor, ready for batched cropping.
func FromImages(imgs []image.Image) (*tensor.RawTensor, error) {
	return internalimageio.FromImages(imgs)
}

// ToImages renders float32 crops of shape [num, height, width, channels]
// into 8-bit images, one per crop. Channels must be 3 (RGB) or 1
// (grayscale, replicated).
func ToImages(crops *tensor.RawTensor) ([]*image.NRGBA, error) {
	return internalimageio.ToImages(crops)
}
