package cpu

import (
	"fmt"
	"sync"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// CropAndResizeGradImage3D computes the gradient of CropAndResize3D with
// respect to the source volumes.
//
// Grads shape: [numBoxes, cropH, cropW, cropD, depth] float32.
// Boxes shape: [numBoxes, 6] float32; BoxIndex shape: [numBoxes] int32.
// GradImage shape: [batch, imageH, imageW, imageD, depth], Float32 or
// Float64; zeroed and then accumulated by this call.
//
// Each output-cell gradient is scattered onto the eight enclosing source
// corners with the trilinear weights of the forward pass.
func (cpu *CPUBackend) CropAndResizeGradImage3D(grads, boxes, boxIndex *tensor.RawTensor, gradImage *tensor.RawTensor) error {
	gradsShape := grads.Shape()
	imageShape := gradImage.Shape()
	if len(gradsShape) != 5 {
		panic(fmt.Sprintf("crop_and_resize_grad_image_3d: grads must be 5D [numBoxes,cropH,cropW,cropD,C], got %dD", len(gradsShape)))
	}
	if len(imageShape) != 5 {
		panic(fmt.Sprintf("crop_and_resize_grad_image_3d: grad_image must be 5D [batch,H,W,D,C], got %dD", len(imageShape)))
	}
	if gradsShape[4] != imageShape[4] {
		panic(fmt.Sprintf("crop_and_resize_grad_image_3d: grads channels %d != grad_image channels %d", gradsShape[4], imageShape[4]))
	}

	batch, imageH, imageW, imageD, depth := imageShape[0], imageShape[1], imageShape[2], imageShape[3], imageShape[4]
	cropH, cropW, cropD := gradsShape[1], gradsShape[2], gradsShape[3]

	gradsData := grads.AsFloat32()
	boxesData := boxes.AsFloat32()
	boxInd := boxIndex.AsInt32()

	gradImage.Zero()

	switch gradImage.DType() {
	case tensor.Float32:
		gradImage3D(gradImage.AsFloat32(), gradsData, boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Float64:
		gradImage3D(gradImage.AsFloat64(), gradsData, boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	default:
		panic(fmt.Sprintf("crop_and_resize_grad_image_3d: grad_image dtype must be float32 or float64, got %s", gradImage.DType()))
	}
	return nil
}

// gradImage3D mirrors gradImage2D's partial-sum-then-reduce execution for
// the volumetric kernel.
func gradImage3D[T tensor.DType](out []T, grads, boxes []float32, boxInd []int32,
	batch, imageH, imageW, imageD, depth, cropH, cropW, cropD int, cfg parallel.Config) {
	numBoxes := len(boxInd)

	chunks := parallel.Chunks(numBoxes, boxCost(cropH*cropW*cropD, depth), cfg)
	if len(chunks) <= 1 {
		gradImage3DRange(out, grads, boxes, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, 0, numBoxes)
		return
	}

	partials := make([][]T, len(chunks))
	var wg sync.WaitGroup
	for ci, c := range chunks {
		wg.Add(1)
		go func(ci int, c parallel.Range) {
			defer wg.Done()
			buf := make([]T, len(out))
			gradImage3DRange(buf, grads, boxes, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, c.Start, c.End)
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

// gradImage3DRange scatters the gradients of boxes [start, end) into out.
func gradImage3DRange[T tensor.DType](out []T, grads, boxes []float32, boxInd []int32,
	batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, start, end int) {
	for b := start; b < end; b++ {
		bx := boxAt3(boxes, b)
		bInd := int(boxInd[b])
		if bInd < 0 || bInd >= batch {
			continue
		}

		heightScale := axisScale(bx.y1, bx.y2, imageH, cropH)
		widthScale := axisScale(bx.x1, bx.x2, imageW, cropW)
		depthScale := axisScale(bx.z1, bx.z2, imageD, cropD)

		imgBase := bInd * imageH * imageW * imageD * depth
		gradsBase := b * cropH * cropW * cropD * depth

		for y := 0; y < cropH; y++ {
			inY := mapCoord(y, bx.y1, bx.y2, heightScale, imageH, cropH)
			if !inBounds(inY, imageH) {
				continue
			}
			topY, bottomY, yLerp := span(inY)

			for x := 0; x < cropW; x++ {
				inX := mapCoord(x, bx.x1, bx.x2, widthScale, imageW, cropW)
				if !inBounds(inX, imageW) {
					continue
				}
				leftX, rightX, xLerp := span(inX)

				topLeftBase := imgBase + (topY*imageW+leftX)*imageD*depth
				topRightBase := imgBase + (topY*imageW+rightX)*imageD*depth
				bottomLeftBase := imgBase + (bottomY*imageW+leftX)*imageD*depth
				bottomRightBase := imgBase + (bottomY*imageW+rightX)*imageD*depth

				for z := 0; z < cropD; z++ {
					inZ := mapCoord(z, bx.z1, bx.z2, depthScale, imageD, cropD)
					if !inBounds(inZ, imageD) {
						continue
					}
					frontZ, backZ, zLerp := span(inZ)
					cellBase := gradsBase + ((y*cropW+x)*cropD+z)*depth

					for d := 0; d < depth; d++ {
						g := grads[cellBase+d]
						dFront := (1 - zLerp) * g
						dBack := zLerp * g
						dTopFront := (1 - yLerp) * dFront
						dBottomFront := yLerp * dFront
						dTopBack := (1 - yLerp) * dBack
						dBottomBack := yLerp * dBack

						out[topLeftBase+frontZ*depth+d] += T((1 - xLerp) * dTopFront)
						out[topRightBase+frontZ*depth+d] += T(xLerp * dTopFront)
						out[bottomLeftBase+frontZ*depth+d] += T((1 - xLerp) * dBottomFront)
						out[bottomRightBase+frontZ*depth+d] += T(xLerp * dBottomFront)
						out[topLeftBase+backZ*depth+d] += T((1 - xLerp) * dTopBack)
						out[topRightBase+backZ*depth+d] += T(xLerp * dTopBack)
						out[bottomLeftBase+backZ*depth+d] += T((1 - xLerp) * dBottomBack)
						out[bottomRightBase+backZ*depth+d] += T(xLerp * dBottomBack)
					}
				}
			}
		}
	}
}
