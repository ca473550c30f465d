package roi

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/tensor"
)

// Crop extracts each box from its source image and resamples it bilinearly to
// a fixed-size 2-D grid.
//
// Args:
//   - image: source batch [batch, H, W, C], any supported numeric dtype
//   - boxes: normalized corners [numBoxes, 4] as [y1, x1, y2, x2], float32
//   - boxIndex: source image per box [numBoxes], int32, each in [0, batch)
//   - cropSize: output extents [cropH, cropW]
//
// Returns crops [numBoxes, cropH, cropW, C], always float32. Box coordinates
// may be flipped (y1 > y2 samples top-down reversed) or fall outside [0, 1];
// samples mapping outside the image produce the extrapolation value.
func (c *Cropper) Crop(image, boxes, boxIndex *tensor.RawTensor, cropSize [2]int) (*tensor.RawTensor, error) {
	if err := c.requireMethod(Bilinear); err != nil {
		return nil, fmt.Errorf("Crop: %w", err)
	}
	if err := checkImage(image, 4); err != nil {
		return nil, fmt.Errorf("Crop: %w", err)
	}
	n, err := checkBoxes(boxes, boxIndex, 4)
	if err != nil {
		return nil, fmt.Errorf("Crop: %w", err)
	}
	if err := checkCropSize(cropSize[:]); err != nil {
		return nil, fmt.Errorf("Crop: %w", err)
	}
	if err := checkBoxIndexRange(boxIndex, image.Shape()[0]); err != nil {
		return nil, fmt.Errorf("Crop: %w", err)
	}

	depth := image.Shape()[3]
	crops, err := tensor.NewRaw(tensor.Shape{n, cropSize[0], cropSize[1], depth}, tensor.Float32)
	if err != nil {
		return nil, fmt.Errorf("Crop: %w", err)
	}
	if err := c.backend.CropAndResize(image, boxes, boxIndex, c.extrapolationValue, crops); err != nil {
		return nil, fmt.Errorf("Crop: %w", err)
	}
	return crops, nil
}

// Crop3D extracts each box from its source volume and resamples it
// trilinearly to a fixed-size 3-D grid.
//
// Args:
//   - image: source batch [batch, H, W, D, C], any supported numeric dtype
//   - boxes: normalized corners [numBoxes, 6] as [y1, x1, z1, y2, x2, z2]
//   - boxIndex: source volume per box [numBoxes], int32, each in [0, batch)
//   - cropSize: output extents [cropH, cropW, cropD]
//
// Returns crops [numBoxes, cropH, cropW, cropD, C], always float32.
func (c *Cropper) Crop3D(image, boxes, boxIndex *tensor.RawTensor, cropSize [3]int) (*tensor.RawTensor, error) {
	if err := c.requireMethod(Trilinear); err != nil {
		return nil, fmt.Errorf("Crop3D: %w", err)
	}
	if err := checkImage(image, 5); err != nil {
		return nil, fmt.Errorf("Crop3D: %w", err)
	}
	n, err := checkBoxes(boxes, boxIndex, 6)
	if err != nil {
		return nil, fmt.Errorf("Crop3D: %w", err)
	}
	if err := checkCropSize(cropSize[:]); err != nil {
		return nil, fmt.Errorf("Crop3D: %w", err)
	}
	if err := checkBoxIndexRange(boxIndex, image.Shape()[0]); err != nil {
		return nil, fmt.Errorf("Crop3D: %w", err)
	}

	depth := image.Shape()[4]
	crops, err := tensor.NewRaw(tensor.Shape{n, cropSize[0], cropSize[1], cropSize[2], depth}, tensor.Float32)
	if err != nil {
		return nil, fmt.Errorf("Crop3D: %w", err)
	}
	if err := c.backend.CropAndResize3D(image, boxes, boxIndex, c.extrapolationValue, crops); err != nil {
		return nil, fmt.Errorf("Crop3D: %w", err)
	}
	return crops, nil
}
