// Package roi implements batched region-of-interest extraction: cropping
// boxes out of an image batch and resampling them to a fixed grid with
// bilinear (2-D) or trilinear (3-D) interpolation, together with the backward
// kernels for both the source image and the box coordinates. Semantics match
// the TensorFlow CropAndResize operator family, including its normalized box
// coordinates and extrapolation behavior.
//
// The Cropper is the validating entry point: it checks shapes, dtypes, and
// box indices, allocates outputs, and dispatches to a Backend. Backends
// receive only pre-validated tensors.
package roi

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/tensor"
)

// Method selects the interpolation mode. Only linear resampling is supported:
// Bilinear produces 2-D crops from 4-D image batches, Trilinear produces 3-D
// crops from 5-D volume batches.
type Method string

// Supported interpolation methods.
const (
	Bilinear  Method = "bilinear"
	Trilinear Method = "trilinear"
)

// Backend executes the resampling kernels on a particular device.
//
// Implementations receive pre-validated, caller-allocated tensors; the
// Cropper guarantees shape and dtype consistency before dispatch. A box
// index outside the batch is skipped defensively, never reported.
type Backend interface {
	CropAndResize(image, boxes, boxIndex *tensor.RawTensor, extrapolationValue float32, crops *tensor.RawTensor) error
	CropAndResize3D(image, boxes, boxIndex *tensor.RawTensor, extrapolationValue float32, crops *tensor.RawTensor) error
	CropAndResizeGradImage(grads, boxes, boxIndex, gradImage *tensor.RawTensor) error
	CropAndResizeGradImage3D(grads, boxes, boxIndex, gradImage *tensor.RawTensor) error
	CropAndResizeGradBoxes(grads, image, boxes, boxIndex, gradBoxes *tensor.RawTensor) error
	CropAndResizeGradBoxes3D(grads, image, boxes, boxIndex, gradBoxes *tensor.RawTensor) error
}

// Cropper validates inputs, allocates outputs, and runs the crop-and-resize
// kernels on its backend. Construct one per method/extrapolation combination;
// it is stateless across calls and safe for concurrent use.
type Cropper struct {
	backend            Backend
	method             Method
	extrapolationValue float32
}

// New builds a Cropper bound to a backend.
//
// Args:
//   - backend: kernel executor, e.g. cpu.New()
//   - method: Bilinear or Trilinear; any other value is rejected
//   - extrapolationValue: fill value for samples outside the source extent
func New(backend Backend, method Method, extrapolationValue float32) (*Cropper, error) {
	if backend == nil {
		return nil, fmt.Errorf("New: backend is required")
	}
	switch method {
	case Bilinear, Trilinear:
	default:
		return nil, fmt.Errorf("New: unknown method %q (want %q or %q)", method, Bilinear, Trilinear)
	}
	return &Cropper{
		backend:            backend,
		method:             method,
		extrapolationValue: extrapolationValue,
	}, nil
}

// Method returns the interpolation method the Cropper was built with.
func (c *Cropper) Method() Method {
	return c.method
}

// ExtrapolationValue returns the fill value used for out-of-bounds samples.
func (c *Cropper) ExtrapolationValue() float32 {
	return c.extrapolationValue
}
