package cpu

import (
	"math"
	"math/rand"
	"testing"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// Test helpers shared by the kernel tests in this package.

func fromFloat32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func fromFloat64(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func boxes2Tensor(t *testing.T, vals ...float32) *tensor.RawTensor {
	t.Helper()
	return fromFloat32(t, vals, tensor.Shape{len(vals) / 4, 4})
}

func boxes3Tensor(t *testing.T, vals ...float32) *tensor.RawTensor {
	t.Helper()
	return fromFloat32(t, vals, tensor.Shape{len(vals) / 6, 6})
}

func boxIndexTensor(t *testing.T, idx ...int32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(idx, tensor.Shape{len(idx)})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func sequentialBackend() *CPUBackend {
	return NewWithConfig(parallel.Config{Enabled: false})
}

func checkFloat32(t *testing.T, name string, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length %d, want %d", name, len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i])-float64(want[i])) > tol {
			t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func TestCropAndResizeIdentity(t *testing.T) {
	backend := New()

	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, 0, 0, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	want := []float32{0, 1, 2, 3}
	for i, v := range crops.AsFloat32() {
		if v != want[i] {
			t.Errorf("crops[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestCropAndResizeSinglePixel(t *testing.T) {
	backend := New()

	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, 0, 0, 0, 0)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 1, 1, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	if got := crops.AsFloat32()[0]; got != 0 {
		t.Errorf("point crop at the origin = %v, want 0", got)
	}
}

func TestCropAndResizeMidpoint(t *testing.T) {
	backend := New()

	// A single-cell crop samples the box midpoint: bilinear at (0.5, 0.5).
	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, 0, 0, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 1, 1, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	if got := crops.AsFloat32()[0]; got != 1.5 {
		t.Errorf("midpoint sample = %v, want 1.5", got)
	}
}

func TestCropAndResizeDegenerateBox(t *testing.T) {
	backend := New()

	// Zero-area box: every output cell holds the same midpoint sample.
	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, 0.5, 0.5, 0.5, 0.5)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 3, 3, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	for i, v := range crops.AsFloat32() {
		if v != 1.5 {
			t.Errorf("crops[%d] = %v, want 1.5 everywhere for a degenerate box", i, v)
		}
	}
}

func TestCropAndResizeUpsample(t *testing.T) {
	backend := New()

	// The 2x2 ramp image is exactly linear, so upsampling has no error.
	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, 0, 0, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 3, 3, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	want := []float32{0, 0.5, 1, 1, 1.5, 2, 2, 2.5, 3}
	checkFloat32(t, "crops", crops.AsFloat32(), want, 1e-6)
}

func TestCropAndResizeFullImageIdentity(t *testing.T) {
	backend := New()

	data := make([]float32, 3*4*2)
	for i := range data {
		data[i] = float32(i) * 0.25
	}
	image := fromFloat32(t, data, tensor.Shape{1, 3, 4, 2})
	boxes := boxes2Tensor(t, 0, 0, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 3, 4, 2})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	for i, v := range crops.AsFloat32() {
		if v != data[i] {
			t.Errorf("crops[%d] = %v, want %v (identity resample)", i, v, data[i])
		}
	}
}

func TestCropAndResizeFlippedBox(t *testing.T) {
	backend := New()

	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, 1, 1, 0, 0)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	want := []float32{3, 2, 1, 0}
	for i, v := range crops.AsFloat32() {
		if v != want[i] {
			t.Errorf("crops[%d] = %v, want %v (flipped sample)", i, v, want[i])
		}
	}
}

func TestCropAndResizeExtrapolation(t *testing.T) {
	backend := New()

	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, -1, -1, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 1})

	const extrapolation = -7.5
	if err := backend.CropAndResize(image, boxes, boxIndex, extrapolation, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	// Grid coordinates land at -1, -1/3, 1/3, 1 per axis: the first two rows
	// and columns fall outside the image.
	got := crops.AsFloat32()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := got[y*4+x]
			if y < 2 || x < 2 {
				if v != extrapolation {
					t.Errorf("crops[%d][%d] = %v, want extrapolation value %v", y, x, v, extrapolation)
				}
			} else if v == extrapolation {
				t.Errorf("crops[%d][%d] should be sampled from the image, got the extrapolation value", y, x)
			}
		}
	}

	// Spot-check an interior cell: bilinear at (1/3, 1/3).
	wantInterior := float32(2*(1.0/3) + 1.0/3)
	if math.Abs(float64(got[2*4+2]-wantInterior)) > 1e-5 {
		t.Errorf("crops[2][2] = %v, want %v", got[2*4+2], wantInterior)
	}
}

func TestCropAndResizeBoxIndexSelectsImage(t *testing.T) {
	backend := New()

	image := fromFloat32(t, []float32{
		0, 1, 2, 3, // image 0
		10, 11, 12, 13, // image 1
	}, tensor.Shape{2, 2, 2, 1})
	boxes := boxes2Tensor(t,
		0, 0, 1, 1,
		0, 0, 1, 1,
	)
	boxIndex := boxIndexTensor(t, 1, 0)
	crops := tensor.Zeros[float32](tensor.Shape{2, 2, 2, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	want := []float32{10, 11, 12, 13, 0, 1, 2, 3}
	for i, v := range crops.AsFloat32() {
		if v != want[i] {
			t.Errorf("crops[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestCropAndResizeInvalidBoxIndexSkipped(t *testing.T) {
	backend := New()

	image := fromFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t,
		0, 0, 1, 1,
		0, 0, 1, 1,
	)
	boxIndex := boxIndexTensor(t, 5, 0)
	crops := tensor.Zeros[float32](tensor.Shape{2, 2, 2, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	got := crops.AsFloat32()
	for i := 0; i < 4; i++ {
		if got[i] != 0 {
			t.Errorf("skipped box wrote crops[%d] = %v, want untouched 0", i, got[i])
		}
	}
	want := []float32{0, 1, 2, 3}
	for i, w := range want {
		if got[4+i] != w {
			t.Errorf("valid box crops[%d] = %v, want %v", i, got[4+i], w)
		}
	}
}

func TestCropAndResizeUint8Image(t *testing.T) {
	backend := New()

	data := []uint8{0, 100, 200, 250}
	image, err := tensor.FromSlice(data, tensor.Shape{1, 2, 2, 1})
	if err != nil {
		t.Fatal(err)
	}
	boxes := boxes2Tensor(t, 0, 0, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 1, 1, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	// Midpoint of the four integer samples, blended in float.
	if got := crops.AsFloat32()[0]; got != 137.5 {
		t.Errorf("uint8 midpoint sample = %v, want 137.5", got)
	}
}

func TestCropAndResizeFloat64Image(t *testing.T) {
	backend := New()

	image := fromFloat64(t, []float64{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1})
	boxes := boxes2Tensor(t, 0, 0, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 1})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	want := []float32{0, 1, 2, 3}
	for i, v := range crops.AsFloat32() {
		if v != want[i] {
			t.Errorf("crops[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestCropAndResizeMultiChannel(t *testing.T) {
	backend := New()

	// Two channels with different ramps; channels must not mix.
	image := fromFloat32(t, []float32{
		0, 100, 1, 101,
		2, 102, 3, 103,
	}, tensor.Shape{1, 2, 2, 2})
	boxes := boxes2Tensor(t, 0, 0, 1, 1)
	boxIndex := boxIndexTensor(t, 0)
	crops := tensor.Zeros[float32](tensor.Shape{1, 1, 1, 2})

	if err := backend.CropAndResize(image, boxes, boxIndex, 0, crops); err != nil {
		t.Fatalf("CropAndResize failed: %v", err)
	}

	got := crops.AsFloat32()
	if got[0] != 1.5 {
		t.Errorf("channel 0 midpoint = %v, want 1.5", got[0])
	}
	if got[1] != 101.5 {
		t.Errorf("channel 1 midpoint = %v, want 101.5", got[1])
	}
}

func TestCropAndResizeParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	const (
		batch    = 3
		imageH   = 9
		imageW   = 7
		depth    = 2
		numBoxes = 64
		cropH    = 5
		cropW    = 4
	)

	imgData := make([]float32, batch*imageH*imageW*depth)
	for i := range imgData {
		imgData[i] = rng.Float32()
	}
	image := fromFloat32(t, imgData, tensor.Shape{batch, imageH, imageW, depth})

	boxData := make([]float32, numBoxes*4)
	idxData := make([]int32, numBoxes)
	for b := 0; b < numBoxes; b++ {
		boxData[b*4+0] = rng.Float32()*1.4 - 0.2
		boxData[b*4+1] = rng.Float32()*1.4 - 0.2
		boxData[b*4+2] = rng.Float32()*1.4 - 0.2
		boxData[b*4+3] = rng.Float32()*1.4 - 0.2
		idxData[b] = int32(rng.Intn(batch))
	}
	boxes := fromFloat32(t, boxData, tensor.Shape{numBoxes, 4})
	boxIndex, err := tensor.FromSlice(idxData, tensor.Shape{numBoxes})
	if err != nil {
		t.Fatal(err)
	}

	seq := sequentialBackend()
	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 8, MinChunkCost: 1})

	cropsSeq := tensor.Zeros[float32](tensor.Shape{numBoxes, cropH, cropW, depth})
	cropsPar := tensor.Zeros[float32](tensor.Shape{numBoxes, cropH, cropW, depth})

	if err := seq.CropAndResize(image, boxes, boxIndex, 0.5, cropsSeq); err != nil {
		t.Fatalf("sequential CropAndResize failed: %v", err)
	}
	if err := par.CropAndResize(image, boxes, boxIndex, 0.5, cropsPar); err != nil {
		t.Fatalf("parallel CropAndResize failed: %v", err)
	}

	seqData := cropsSeq.AsFloat32()
	for i, v := range cropsPar.AsFloat32() {
		if v != seqData[i] {
			t.Fatalf("parallel crops[%d] = %v, sequential = %v; per-box outputs must be identical", i, v, seqData[i])
		}
	}
}
