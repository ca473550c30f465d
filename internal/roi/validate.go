package roi

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/tensor"
)

// checkImage verifies the image batch has the expected rank. Positive
// dimensions are guaranteed by tensor construction.
func checkImage(image *tensor.RawTensor, rank int) error {
	if image == nil {
		return fmt.Errorf("image is required")
	}
	if len(image.Shape()) != rank {
		return fmt.Errorf("image must be %d-D, got shape %v", rank, image.Shape())
	}
	return nil
}

// checkBoxes verifies the box tensor pair and returns the number of boxes.
// coords is 4 for 2-D boxes [y1,x1,y2,x2] and 6 for 3-D [y1,x1,z1,y2,x2,z2].
func checkBoxes(boxes, boxIndex *tensor.RawTensor, coords int) (int, error) {
	if boxes == nil || boxIndex == nil {
		return 0, fmt.Errorf("boxes and box_index are required")
	}
	bs := boxes.Shape()
	if len(bs) != 2 || bs[1] != coords {
		return 0, fmt.Errorf("boxes must be [num_boxes, %d], got shape %v", coords, bs)
	}
	if boxes.DType() != tensor.Float32 {
		return 0, fmt.Errorf("boxes must be float32, got %v", boxes.DType())
	}
	n := bs[0]
	is := boxIndex.Shape()
	if len(is) != 1 || is[0] != n {
		return 0, fmt.Errorf("box_index has incompatible shape %v, want [%d]", is, n)
	}
	if boxIndex.DType() != tensor.Int32 {
		return 0, fmt.Errorf("box_index must be int32, got %v", boxIndex.DType())
	}
	return n, nil
}

// checkBoxIndexRange rejects any index outside [0, batch) before dispatch, so
// the kernels never fall back to their defensive skip on this path.
func checkBoxIndexRange(boxIndex *tensor.RawTensor, batch int) error {
	for _, bi := range boxIndex.AsInt32() {
		if bi < 0 || int(bi) >= batch {
			return fmt.Errorf("box index %d out of range [0, %d)", bi, batch)
		}
	}
	return nil
}

// checkCropSize verifies every crop extent is positive.
func checkCropSize(dims []int) error {
	for _, d := range dims {
		if d <= 0 {
			return fmt.Errorf("crop dimensions must be positive, got %v", dims)
		}
	}
	return nil
}

// checkGrads verifies the incoming gradient tensor against the crop layout
// [numBoxes, spatial..., depth].
func checkGrads(grads *tensor.RawTensor, numBoxes, rank, depth int) error {
	if grads == nil {
		return fmt.Errorf("grads is required")
	}
	gs := grads.Shape()
	if len(gs) != rank {
		return fmt.Errorf("grads must be %d-D, got shape %v", rank, gs)
	}
	if gs[0] != numBoxes {
		return fmt.Errorf("grads covers %d boxes, want %d", gs[0], numBoxes)
	}
	if gs[rank-1] != depth {
		return fmt.Errorf("grads has %d channels, image has %d", gs[rank-1], depth)
	}
	if grads.DType() != tensor.Float32 {
		return fmt.Errorf("grads must be float32, got %v", grads.DType())
	}
	return nil
}

// requireMethod gates an operation on the interpolation mode it implements.
func (c *Cropper) requireMethod(want Method) error {
	if c.method != want {
		return fmt.Errorf("requires method %q, cropper uses %q", want, c.method)
	}
	return nil
}
