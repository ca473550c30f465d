//go:build windows

package webgpu

import (
	"github.com/crop-ml/cropresize/internal/tensor"
)

// The gradient kernels scatter-accumulate into shared output cells, which
// needs atomic float adds. WGSL has no f32 atomics, so these run on the CPU
// backend. The outputs are bit-identical to a pure CPU run.

// CropAndResizeGradImage computes the gradient of CropAndResize with respect
// to the input image.
func (b *Backend) CropAndResizeGradImage(grads, boxes, boxIndex *tensor.RawTensor, gradImage *tensor.RawTensor) error {
	return b.host.CropAndResizeGradImage(grads, boxes, boxIndex, gradImage)
}

// CropAndResizeGradImage3D computes the gradient of CropAndResize3D with
// respect to the input volume.
func (b *Backend) CropAndResizeGradImage3D(grads, boxes, boxIndex *tensor.RawTensor, gradImage *tensor.RawTensor) error {
	return b.host.CropAndResizeGradImage3D(grads, boxes, boxIndex, gradImage)
}

// CropAndResizeGradBoxes computes the gradient of CropAndResize with respect
// to the box coordinates.
func (b *Backend) CropAndResizeGradBoxes(grads, image, boxes, boxIndex *tensor.RawTensor, gradBoxes *tensor.RawTensor) error {
	return b.host.CropAndResizeGradBoxes(grads, image, boxes, boxIndex, gradBoxes)
}

// CropAndResizeGradBoxes3D computes the gradient of CropAndResize3D with
// respect to the box coordinates.
func (b *Backend) CropAndResizeGradBoxes3D(grads, image, boxes, boxIndex *tensor.RawTensor, gradBoxes *tensor.RawTensor) error {
	return b.host.CropAndResizeGradBoxes3D(grads, image, boxes, boxIndex, gradBoxes)
}
