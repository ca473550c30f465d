package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crop-ml/cropresize/internal/tensor"
)

func TestGradImage(t *testing.T) {
	c := newTestCropper(t, Bilinear)

	// A single center sample splits its unit gradient across four pixels.
	grads := float32Tensor(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	boxes := float32Tensor(t, []float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	gradImage, err := c.GradImage(grads, boxes, boxIndex, tensor.Shape{1, 2, 2, 1}, tensor.Float32)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2, 2, 1}, gradImage.Shape())
	assert.Equal(t, []float32{0.25, 0.25, 0.25, 0.25}, gradImage.AsFloat32())
}

func TestGradImage_Float64Target(t *testing.T) {
	c := newTestCropper(t, Bilinear)

	grads := float32Tensor(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	boxes := float32Tensor(t, []float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	gradImage, err := c.GradImage(grads, boxes, boxIndex, tensor.Shape{1, 2, 2, 1}, tensor.Float64)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float64, gradImage.DType())
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, gradImage.AsFloat64())
}

func TestGradImage_RejectsIntegerType(t *testing.T) {
	c := newTestCropper(t, Bilinear)

	grads := float32Tensor(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	boxes := float32Tensor(t, []float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	_, err := c.GradImage(grads, boxes, boxIndex, tensor.Shape{1, 2, 2, 1}, tensor.Uint8)
	assert.ErrorContains(t, err, "floating dtype")
}

func TestGradImage_GradsShapeMismatch(t *testing.T) {
	c := newTestCropper(t, Bilinear)

	boxes := float32Tensor(t, []float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	// Two boxes' worth of gradients for one box.
	grads := float32Tensor(t, []float32{1, 1}, tensor.Shape{2, 1, 1, 1})
	_, err := c.GradImage(grads, boxes, boxIndex, tensor.Shape{1, 2, 2, 1}, tensor.Float32)
	assert.ErrorContains(t, err, "covers 2 boxes, want 1")

	// Channel count disagrees with the image shape.
	grads = float32Tensor(t, []float32{1, 1}, tensor.Shape{1, 1, 1, 2})
	_, err = c.GradImage(grads, boxes, boxIndex, tensor.Shape{1, 2, 2, 1}, tensor.Float32)
	assert.ErrorContains(t, err, "channels")
}

func TestGradBoxes(t *testing.T) {
	c := newTestCropper(t, Bilinear)

	// Ramp v = 3y + x; cell (1,1) of a 2x2 crop of [0,0,0.75,0.75] samples at
	// (1.5, 1.5), which moves only with the far corner at twice the box rate.
	image := float32Tensor(t, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{1, 3, 3, 1})
	grads := float32Tensor(t, []float32{0, 0, 0, 1}, tensor.Shape{1, 2, 2, 1})
	boxes := float32Tensor(t, []float32{0, 0, 0.75, 0.75}, tensor.Shape{1, 4})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	gradBoxes, err := c.GradBoxes(grads, image, boxes, boxIndex)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 4}, gradBoxes.Shape())
	assert.Equal(t, []float32{0, 0, 6, 2}, gradBoxes.AsFloat32())
}

func TestGradBoxes_GradsMustBeFloat32(t *testing.T) {
	c := newTestCropper(t, Bilinear)

	image := float32Tensor(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := float32Tensor(t, []float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	intGrads, err := tensor.FromSlice([]int32{1}, tensor.Shape{1, 1, 1, 1})
	require.NoError(t, err)

	_, err = c.GradBoxes(intGrads, image, boxes, boxIndex)
	assert.ErrorContains(t, err, "grads must be float32")
}

func TestGradImage3D(t *testing.T) {
	c := newTestCropper(t, Trilinear)

	// The center sample of a 2x2x2 volume spreads evenly over eight voxels.
	grads := float32Tensor(t, []float32{1}, tensor.Shape{1, 1, 1, 1, 1})
	boxes := float32Tensor(t, []float32{0, 0, 0, 1, 1, 1}, tensor.Shape{1, 6})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	gradImage, err := c.GradImage3D(grads, boxes, boxIndex, tensor.Shape{1, 2, 2, 2, 1}, tensor.Float32)
	require.NoError(t, err)
	want := []float32{0.125, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125, 0.125}
	assert.Equal(t, want, gradImage.AsFloat32())
}

func TestGradBoxes3D(t *testing.T) {
	c := newTestCropper(t, Trilinear)

	// Volume v = 4y + 2x + z: the center sample recovers the axis slopes with
	// endpoint weight (extent-1)/2 = 0.5 on each side.
	image := float32Tensor(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, tensor.Shape{1, 2, 2, 2, 1})
	grads := float32Tensor(t, []float32{1}, tensor.Shape{1, 1, 1, 1, 1})
	boxes := float32Tensor(t, []float32{0, 0, 0, 1, 1, 1}, tensor.Shape{1, 6})
	boxIndex := int32Tensor(t, []int32{0}, tensor.Shape{1})

	gradBoxes, err := c.GradBoxes3D(grads, image, boxes, boxIndex)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 6}, gradBoxes.Shape())
	assert.Equal(t, []float32{2, 1, 0.5, 2, 1, 0.5}, gradBoxes.AsFloat32())
}

func TestGradImage_BoxIndexChecked(t *testing.T) {
	c := newTestCropper(t, Bilinear)

	grads := float32Tensor(t, []float32{1}, tensor.Shape{1, 1, 1, 1})
	boxes := float32Tensor(t, []float32{0, 0, 1, 1}, tensor.Shape{1, 4})
	boxIndex := int32Tensor(t, []int32{3}, tensor.Shape{1})

	_, err := c.GradImage(grads, boxes, boxIndex, tensor.Shape{2, 2, 2, 1}, tensor.Float32)
	assert.ErrorContains(t, err, "box index 3 out of range [0, 2)")
}
