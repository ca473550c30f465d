// Package imageio converts between image.Image values and the dense uint8
// tensors the crop kernels consume, and reads/writes them from disk.
//
// Tensors are always [batch, height, width, 3] RGB: alpha is dropped and
// grayscale sources replicate their single channel.
package imageio

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// Open decodes the image at path into a [1, height, width, 3] uint8 tensor.
func Open(path string) (*tensor.RawTensor, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	t, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	return t, nil
}

// Save encodes img to path. The format follows the file extension; imaging
// supports jpg, png, gif, tif and bmp.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// FromImage converts one image into a [1, height, width, 3] uint8 tensor.
func FromImage(img image.Image) (*tensor.RawTensor, error) {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	t, err := tensor.NewRaw(tensor.Shape{1, h, w, 3}, tensor.Uint8)
	if err != nil {
		return nil, fmt.Errorf("FromImage: %w", err)
	}

	out := t.AsUint8()
	parallel.Shard(h, float64(w), func(start, end int) {
		copyRows(out, nrgba, w, start, end)
	}, parallel.DefaultConfig())

	return t, nil
}

// FromImages stacks same-sized images into a [len(imgs), height, width, 3]
// uint8 tensor, ready for batched cropping.
func FromImages(imgs []image.Image) (*tensor.RawTensor, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("FromImages: no images given")
	}

	first := imgs[0].Bounds()
	w, h := first.Dx(), first.Dy()
	for i, img := range imgs[1:] {
		b := img.Bounds()
		if b.Dx() != w || b.Dy() != h {
			return nil, fmt.Errorf("FromImages: image %d is %dx%d, want %dx%d like image 0",
				i+1, b.Dx(), b.Dy(), w, h)
		}
	}

	t, err := tensor.NewRaw(tensor.Shape{len(imgs), h, w, 3}, tensor.Uint8)
	if err != nil {
		return nil, fmt.Errorf("FromImages: %w", err)
	}

	out := t.AsUint8()
	parallel.Shard(len(imgs), float64(h*w), func(start, end int) {
		for i := start; i < end; i++ {
			copyRows(out[i*h*w*3:], imaging.Clone(imgs[i]), w, 0, h)
		}
	}, parallel.DefaultConfig())

	return t, nil
}

// ToImages renders float32 crops of shape [num, height, width, channels]
// back into 8-bit images, one per crop. Channels must be 3 (RGB) or 1
// (grayscale, replicated). Interpolation overshoot is clamped to [0, 255].
func ToImages(crops *tensor.RawTensor) ([]*image.NRGBA, error) {
	shape := crops.Shape()
	if len(shape) != 4 {
		return nil, fmt.Errorf("ToImages: crops must be 4-D [num,H,W,C], got shape %v", shape)
	}
	if crops.DType() != tensor.Float32 {
		return nil, fmt.Errorf("ToImages: crops must be float32, got %v", crops.DType())
	}
	n, h, w, c := shape[0], shape[1], shape[2], shape[3]
	if c != 1 && c != 3 {
		return nil, fmt.Errorf("ToImages: crops must have 1 or 3 channels, got %d", c)
	}

	data := crops.AsFloat32()
	imgs := make([]*image.NRGBA, n)
	for i := range imgs {
		imgs[i] = image.NewNRGBA(image.Rect(0, 0, w, h))
	}

	parallel.Shard(n, float64(h*w*c), func(start, end int) {
		for i := start; i < end; i++ {
			src := data[i*h*w*c:]
			img := imgs[i]
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					cell := src[(y*w+x)*c:]
					px := img.Pix[y*img.Stride+x*4:]
					if c == 3 {
						px[0] = clamp8(cell[0])
						px[1] = clamp8(cell[1])
						px[2] = clamp8(cell[2])
					} else {
						g := clamp8(cell[0])
						px[0], px[1], px[2] = g, g, g
					}
					px[3] = 0xff
				}
			}
		}
	}, parallel.DefaultConfig())

	return imgs, nil
}

// copyRows writes RGB rows [start, end) of nrgba into dst, dropping alpha.
func copyRows(dst []uint8, nrgba *image.NRGBA, w, start, end int) {
	for y := start; y < end; y++ {
		src := nrgba.Pix[y*nrgba.Stride:]
		row := dst[y*w*3:]
		for x := 0; x < w; x++ {
			row[x*3+0] = src[x*4+0]
			row[x*3+1] = src[x*4+1]
			row[x*3+2] = src[x*4+2]
		}
	}
}

// clamp8 returns the uint8 value of v clamped to the range [0, 255].
func clamp8(v float32) uint8 {
	if v > 255 { // overshoot
		return 255
	} else if v < 0 { // undershoot
		return 0
	}
	return uint8(math.Round(float64(v)))
}
