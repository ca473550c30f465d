package cpu

import (
	"fmt"
	"sync"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// CropAndResizeGradImage computes the gradient of CropAndResize with respect
// to the source images.
//
// Grads shape: [numBoxes, cropH, cropW, depth] float32.
// Boxes shape: [numBoxes, 4] float32; BoxIndex shape: [numBoxes] int32.
// GradImage shape: [batch, imageH, imageW, depth], Float32 or Float64;
// zeroed and then accumulated by this call.
//
// Each output-cell gradient is scattered onto the four source corners it was
// interpolated from, with the same bilinear weights as the forward pass.
// Out-of-bounds cells contribute nothing: the extrapolation value has zero
// derivative with respect to the image.
func (cpu *CPUBackend) CropAndResizeGradImage(grads, boxes, boxIndex *tensor.RawTensor, gradImage *tensor.RawTensor) error {
	gradsShape := grads.Shape()
	imageShape := gradImage.Shape()
	if len(gradsShape) != 4 {
		panic(fmt.Sprintf("crop_and_resize_grad_image: grads must be 4D [numBoxes,cropH,cropW,C], got %dD", len(gradsShape)))
	}
	if len(imageShape) != 4 {
		panic(fmt.Sprintf("crop_and_resize_grad_image: grad_image must be 4D [batch,H,W,C], got %dD", len(imageShape)))
	}
	if gradsShape[3] != imageShape[3] {
		panic(fmt.Sprintf("crop_and_resize_grad_image: grads channels %d != grad_image channels %d", gradsShape[3], imageShape[3]))
	}

	batch, imageH, imageW, depth := imageShape[0], imageShape[1], imageShape[2], imageShape[3]
	cropH, cropW := gradsShape[1], gradsShape[2]

	gradsData := grads.AsFloat32()
	boxesData := boxes.AsFloat32()
	boxInd := boxIndex.AsInt32()

	gradImage.Zero()

	switch gradImage.DType() {
	case tensor.Float32:
		gradImage2D(gradImage.AsFloat32(), gradsData, boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Float64:
		gradImage2D(gradImage.AsFloat64(), gradsData, boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	default:
		panic(fmt.Sprintf("crop_and_resize_grad_image: grad_image dtype must be float32 or float64, got %s", gradImage.DType()))
	}
	return nil
}

// gradImage2D accumulates box ranges into the shared output. Boxes sampling
// the same image overlap in the output, so concurrent chunks each scatter
// into a private buffer and the buffers are reduced sequentially afterward.
func gradImage2D[T tensor.DType](out []T, grads, boxes []float32, boxInd []int32,
	batch, imageH, imageW, depth, cropH, cropW int, cfg parallel.Config) {
	numBoxes := len(boxInd)

	chunks := parallel.Chunks(numBoxes, boxCost(cropH*cropW, depth), cfg)
	if len(chunks) <= 1 {
		gradImage2DRange(out, grads, boxes, boxInd, batch, imageH, imageW, depth, cropH, cropW, 0, numBoxes)
		return
	}

	partials := make([][]T, len(chunks))
	var wg sync.WaitGroup
	for ci, c := range chunks {
		wg.Add(1)
		go func(ci int, c parallel.Range) {
			defer wg.Done()
			buf := make([]T, len(out))
			gradImage2DRange(buf, grads, boxes, boxInd, batch, imageH, imageW, depth, cropH, cropW, c.Start, c.End)
			partials[ci] = buf
		}(ci, c)
	}
	wg.Wait()

	for _, buf := range partials {
		for i, v := range buf {
			out[i] += v
		}
	}
}

// gradImage2DRange scatters the gradients of boxes [start, end) into out.
func gradImage2DRange[T tensor.DType](out []T, grads, boxes []float32, boxInd []int32,
	batch, imageH, imageW, depth, cropH, cropW, start, end int) {
	for b := start; b < end; b++ {
		bx := boxAt2(boxes, b)
		bInd := int(boxInd[b])
		if bInd < 0 || bInd >= batch {
			continue
		}

		heightScale := axisScale(bx.y1, bx.y2, imageH, cropH)
		widthScale := axisScale(bx.x1, bx.x2, imageW, cropW)

		imgBase := bInd * imageH * imageW * depth
		gradsBase := b * cropH * cropW * depth

		for y := 0; y < cropH; y++ {
			inY := mapCoord(y, bx.y1, bx.y2, heightScale, imageH, cropH)
			if !inBounds(inY, imageH) {
				continue
			}
			topY, bottomY, yLerp := span(inY)
			topBase := imgBase + topY*imageW*depth
			bottomBase := imgBase + bottomY*imageW*depth

			for x := 0; x < cropW; x++ {
				inX := mapCoord(x, bx.x1, bx.x2, widthScale, imageW, cropW)
				if !inBounds(inX, imageW) {
					continue
				}
				leftX, rightX, xLerp := span(inX)
				cellBase := gradsBase + (y*cropW+x)*depth

				for d := 0; d < depth; d++ {
					g := grads[cellBase+d]
					dTop := (1 - yLerp) * g
					dBottom := yLerp * g
					out[topBase+leftX*depth+d] += T((1 - xLerp) * dTop)
					out[topBase+rightX*depth+d] += T(xLerp * dTop)
					out[bottomBase+leftX*depth+d] += T((1 - xLerp) * dBottom)
					out[bottomBase+rightX*depth+d] += T(xLerp * dBottom)
				}
			}
		}
	}
}
