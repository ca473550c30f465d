package cpu

import (
	"math/rand"
	"testing"

	"github.com/crop-ml/cropresize/internal/tensor"
)

func randomFloat32(n int, seed int64) []float32 {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float32, n)
	for i := range data {
		data[i] = rng.Float32()
	}
	return data
}

func randomBoxes(n, coords int, seed int64) *tensor.RawTensor {
	data := randomFloat32(n*coords, seed)
	boxes, _ := tensor.FromSlice(data, tensor.Shape{n, coords})
	return boxes
}

func zeroBoxIndex(n int) *tensor.RawTensor {
	idx, _ := tensor.FromSlice(make([]int32, n), tensor.Shape{n})
	return idx
}

func BenchmarkCropAndResize(b *testing.B) {
	const (
		imageH, imageW = 256, 256
		depth          = 3
		numBoxes       = 64
		cropH, cropW   = 32, 32
	)
	image, _ := tensor.FromSlice(
		randomFloat32(imageH*imageW*depth, 1),
		tensor.Shape{1, imageH, imageW, depth},
	)
	boxes := randomBoxes(numBoxes, 4, 2)
	boxIndex := zeroBoxIndex(numBoxes)
	crops := tensor.Zeros[float32](tensor.Shape{numBoxes, cropH, cropW, depth})

	b.Run("sequential", func(b *testing.B) {
		backend := sequentialBackend()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResize(image, boxes, boxIndex, 0, crops)
		}
	})

	b.Run("parallel", func(b *testing.B) {
		backend := New()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResize(image, boxes, boxIndex, 0, crops)
		}
	})
}

func BenchmarkCropAndResize3D(b *testing.B) {
	const (
		imageH, imageW, imageD = 64, 64, 32
		depth                  = 2
		numBoxes               = 32
		cropH, cropW, cropD    = 16, 16, 8
	)
	image, _ := tensor.FromSlice(
		randomFloat32(imageH*imageW*imageD*depth, 3),
		tensor.Shape{1, imageH, imageW, imageD, depth},
	)
	boxes := randomBoxes(numBoxes, 6, 4)
	boxIndex := zeroBoxIndex(numBoxes)
	crops := tensor.Zeros[float32](tensor.Shape{numBoxes, cropH, cropW, cropD, depth})

	b.Run("sequential", func(b *testing.B) {
		backend := sequentialBackend()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResize3D(image, boxes, boxIndex, 0, crops)
		}
	})

	b.Run("parallel", func(b *testing.B) {
		backend := New()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResize3D(image, boxes, boxIndex, 0, crops)
		}
	})
}

func BenchmarkCropAndResizeGradImage(b *testing.B) {
	const (
		imageH, imageW = 256, 256
		depth          = 3
		numBoxes       = 64
		cropH, cropW   = 32, 32
	)
	grads, _ := tensor.FromSlice(
		randomFloat32(numBoxes*cropH*cropW*depth, 5),
		tensor.Shape{numBoxes, cropH, cropW, depth},
	)
	boxes := randomBoxes(numBoxes, 4, 6)
	boxIndex := zeroBoxIndex(numBoxes)
	gradImage := tensor.Zeros[float32](tensor.Shape{1, imageH, imageW, depth})

	b.Run("sequential", func(b *testing.B) {
		backend := sequentialBackend()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResizeGradImage(grads, boxes, boxIndex, gradImage)
		}
	})

	b.Run("parallel", func(b *testing.B) {
		backend := New()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResizeGradImage(grads, boxes, boxIndex, gradImage)
		}
	})
}

func BenchmarkCropAndResizeGradBoxes(b *testing.B) {
	const (
		imageH, imageW = 256, 256
		depth          = 3
		numBoxes       = 64
		cropH, cropW   = 32, 32
	)
	image, _ := tensor.FromSlice(
		randomFloat32(imageH*imageW*depth, 7),
		tensor.Shape{1, imageH, imageW, depth},
	)
	grads, _ := tensor.FromSlice(
		randomFloat32(numBoxes*cropH*cropW*depth, 8),
		tensor.Shape{numBoxes, cropH, cropW, depth},
	)
	boxes := randomBoxes(numBoxes, 4, 9)
	boxIndex := zeroBoxIndex(numBoxes)
	gradBoxes := tensor.Zeros[float32](tensor.Shape{numBoxes, 4})

	b.Run("sequential", func(b *testing.B) {
		backend := sequentialBackend()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResizeGradBoxes(grads, image, boxes, boxIndex, gradBoxes)
		}
	})

	b.Run("parallel", func(b *testing.B) {
		backend := New()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			backend.CropAndResizeGradBoxes(grads, image, boxes, boxIndex, gradBoxes)
		}
	})
}
