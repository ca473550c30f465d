package roi

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/tensor"
)

// GradImage computes the gradient of Crop with respect to the source image:
// each incoming gradient value is scattered onto the four pixels its sample
// interpolated between, with the same bilinear weights.
//
// Args:
//   - grads: upstream gradient [numBoxes, cropH, cropW, C], float32
//   - boxes, boxIndex: as passed to Crop
//   - imageShape: shape of the original image batch [batch, H, W, C]
//   - imageType: element type of the original image; must be floating
//
// Returns the accumulated image gradient with shape imageShape and dtype
// imageType. Cells whose forward sample fell outside the image contribute
// nothing.
func (c *Cropper) GradImage(grads, boxes, boxIndex *tensor.RawTensor, imageShape tensor.Shape, imageType tensor.DataType) (*tensor.RawTensor, error) {
	if err := c.requireMethod(Bilinear); err != nil {
		return nil, fmt.Errorf("GradImage: %w", err)
	}
	if len(imageShape) != 4 {
		return nil, fmt.Errorf("GradImage: image shape must be 4-D, got %v", imageShape)
	}
	if !imageType.IsFloat() {
		return nil, fmt.Errorf("GradImage: image gradients require a floating dtype, got %v", imageType)
	}
	n, err := checkBoxes(boxes, boxIndex, 4)
	if err != nil {
		return nil, fmt.Errorf("GradImage: %w", err)
	}
	if err := checkGrads(grads, n, 4, imageShape[3]); err != nil {
		return nil, fmt.Errorf("GradImage: %w", err)
	}
	if err := checkBoxIndexRange(boxIndex, imageShape[0]); err != nil {
		return nil, fmt.Errorf("GradImage: %w", err)
	}

	gradImage, err := tensor.NewRaw(imageShape, imageType)
	if err != nil {
		return nil, fmt.Errorf("GradImage: %w", err)
	}
	if err := c.backend.CropAndResizeGradImage(grads, boxes, boxIndex, gradImage); err != nil {
		return nil, fmt.Errorf("GradImage: %w", err)
	}
	return gradImage, nil
}

// GradImage3D is the volumetric counterpart of GradImage: the upstream
// gradient scatters onto the eight voxels of each trilinear sample.
func (c *Cropper) GradImage3D(grads, boxes, boxIndex *tensor.RawTensor, imageShape tensor.Shape, imageType tensor.DataType) (*tensor.RawTensor, error) {
	if err := c.requireMethod(Trilinear); err != nil {
		return nil, fmt.Errorf("GradImage3D: %w", err)
	}
	if len(imageShape) != 5 {
		return nil, fmt.Errorf("GradImage3D: image shape must be 5-D, got %v", imageShape)
	}
	if !imageType.IsFloat() {
		return nil, fmt.Errorf("GradImage3D: image gradients require a floating dtype, got %v", imageType)
	}
	n, err := checkBoxes(boxes, boxIndex, 6)
	if err != nil {
		return nil, fmt.Errorf("GradImage3D: %w", err)
	}
	if err := checkGrads(grads, n, 5, imageShape[4]); err != nil {
		return nil, fmt.Errorf("GradImage3D: %w", err)
	}
	if err := checkBoxIndexRange(boxIndex, imageShape[0]); err != nil {
		return nil, fmt.Errorf("GradImage3D: %w", err)
	}

	gradImage, err := tensor.NewRaw(imageShape, imageType)
	if err != nil {
		return nil, fmt.Errorf("GradImage3D: %w", err)
	}
	if err := c.backend.CropAndResizeGradImage3D(grads, boxes, boxIndex, gradImage); err != nil {
		return nil, fmt.Errorf("GradImage3D: %w", err)
	}
	return gradImage, nil
}

// GradBoxes computes the gradient of Crop with respect to the box corners.
//
// Args:
//   - grads: upstream gradient [numBoxes, cropH, cropW, C], float32
//   - image: the source batch the forward pass sampled
//   - boxes, boxIndex: as passed to Crop
//
// Returns [numBoxes, 4] float32 gradients in box layout [y1, x1, y2, x2].
func (c *Cropper) GradBoxes(grads, image, boxes, boxIndex *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := c.requireMethod(Bilinear); err != nil {
		return nil, fmt.Errorf("GradBoxes: %w", err)
	}
	if err := checkImage(image, 4); err != nil {
		return nil, fmt.Errorf("GradBoxes: %w", err)
	}
	n, err := checkBoxes(boxes, boxIndex, 4)
	if err != nil {
		return nil, fmt.Errorf("GradBoxes: %w", err)
	}
	if err := checkGrads(grads, n, 4, image.Shape()[3]); err != nil {
		return nil, fmt.Errorf("GradBoxes: %w", err)
	}
	if err := checkBoxIndexRange(boxIndex, image.Shape()[0]); err != nil {
		return nil, fmt.Errorf("GradBoxes: %w", err)
	}

	gradBoxes, err := tensor.NewRaw(tensor.Shape{n, 4}, tensor.Float32)
	if err != nil {
		return nil, fmt.Errorf("GradBoxes: %w", err)
	}
	if err := c.backend.CropAndResizeGradBoxes(grads, image, boxes, boxIndex, gradBoxes); err != nil {
		return nil, fmt.Errorf("GradBoxes: %w", err)
	}
	return gradBoxes, nil
}

// GradBoxes3D computes the gradient of Crop3D with respect to the box
// corners, returned as [numBoxes, 6] float32 in layout
// [y1, x1, z1, y2, x2, z2].
func (c *Cropper) GradBoxes3D(grads, image, boxes, boxIndex *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := c.requireMethod(Trilinear); err != nil {
		return nil, fmt.Errorf("GradBoxes3D: %w", err)
	}
	if err := checkImage(image, 5); err != nil {
		return nil, fmt.Errorf("GradBoxes3D: %w", err)
	}
	n, err := checkBoxes(boxes, boxIndex, 6)
	if err != nil {
		return nil, fmt.Errorf("GradBoxes3D: %w", err)
	}
	if err := checkGrads(grads, n, 5, image.Shape()[4]); err != nil {
		return nil, fmt.Errorf("GradBoxes3D: %w", err)
	}
	if err := checkBoxIndexRange(boxIndex, image.Shape()[0]); err != nil {
		return nil, fmt.Errorf("GradBoxes3D: %w", err)
	}

	gradBoxes, err := tensor.NewRaw(tensor.Shape{n, 6}, tensor.Float32)
	if err != nil {
		return nil, fmt.Errorf("GradBoxes3D: %w", err)
	}
	if err := c.backend.CropAndResizeGradBoxes3D(grads, image, boxes, boxIndex, gradBoxes); err != nil {
		return nil, fmt.Errorf("GradBoxes3D: %w", err)
	}
	return gradBoxes, nil
}
