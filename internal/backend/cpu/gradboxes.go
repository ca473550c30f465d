package cpu

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// CropAndResizeGradBoxes computes the gradient of CropAndResize with respect
// to the box coordinates.
//
// Grads shape: [numBoxes, cropH, cropW, depth] float32.
// Image shape: [batch, imageH, imageW, depth], any real element type.
// Boxes shape: [numBoxes, 4] float32; BoxIndex shape: [numBoxes] int32.
// GradBoxes shape: [numBoxes, 4] float32 (dy1, dx1, dy2, dx2 per box),
// zeroed and then accumulated by this call.
//
// The derivative of each sampled value with respect to the fractional source
// coordinate comes from differencing the corner samples along that axis; the
// chain rule then maps it onto the two box endpoints. Out-of-bounds cells
// contribute nothing. Boxes write disjoint gradient rows, so the kernel is
// parallel across boxes without coordination.
func (cpu *CPUBackend) CropAndResizeGradBoxes(grads, image, boxes, boxIndex *tensor.RawTensor, gradBoxes *tensor.RawTensor) error {
	gradsShape := grads.Shape()
	imageShape := image.Shape()
	if len(gradsShape) != 4 {
		panic(fmt.Sprintf("crop_and_resize_grad_boxes: grads must be 4D [numBoxes,cropH,cropW,C], got %dD", len(gradsShape)))
	}
	if len(imageShape) != 4 {
		panic(fmt.Sprintf("crop_and_resize_grad_boxes: image must be 4D [batch,H,W,C], got %dD", len(imageShape)))
	}
	if gradsShape[3] != imageShape[3] {
		panic(fmt.Sprintf("crop_and_resize_grad_boxes: grads channels %d != image channels %d", gradsShape[3], imageShape[3]))
	}

	batch, imageH, imageW, depth := imageShape[0], imageShape[1], imageShape[2], imageShape[3]
	cropH, cropW := gradsShape[1], gradsShape[2]

	out := gradBoxes.AsFloat32()
	gradsData := grads.AsFloat32()
	boxesData := boxes.AsFloat32()
	boxInd := boxIndex.AsInt32()

	gradBoxes.Zero()

	switch image.DType() {
	case tensor.Float32:
		gradBoxes2D(out, gradsData, image.AsFloat32(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Float64:
		gradBoxes2D(out, gradsData, image.AsFloat64(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Int8:
		gradBoxes2D(out, gradsData, image.AsInt8(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Int16:
		gradBoxes2D(out, gradsData, image.AsInt16(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Int32:
		gradBoxes2D(out, gradsData, image.AsInt32(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Int64:
		gradBoxes2D(out, gradsData, image.AsInt64(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Uint8:
		gradBoxes2D(out, gradsData, image.AsUint8(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	case tensor.Uint16:
		gradBoxes2D(out, gradsData, image.AsUint16(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, cpu.par)
	default:
		panic(fmt.Sprintf("crop_and_resize_grad_boxes: unsupported image dtype %s", image.DType()))
	}
	return nil
}

func gradBoxes2D[T tensor.DType](out, grads []float32, src []T, boxes []float32, boxInd []int32,
	batch, imageH, imageW, depth, cropH, cropW int, cfg parallel.Config) {
	numBoxes := len(boxInd)

	parallel.Shard(numBoxes, boxCost(cropH*cropW, depth), func(start, end int) {
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
				topRow := src[imgBase+topY*imageW*depth:]
				bottomRow := src[imgBase+bottomY*imageW*depth:]
				w1y, w2y := endpointWeights(y, imageH, cropH)

				for x := 0; x < cropW; x++ {
					inX := mapCoord(x, bx.x1, bx.x2, widthScale, imageW, cropW)
					if !inBounds(inX, imageW) {
						continue
					}
					leftX, rightX, xLerp := span(inX)
					w1x, w2x := endpointWeights(x, imageW, cropW)
					cellBase := gradsBase + (y*cropW+x)*depth

					// Accumulate the coordinate derivatives over channels,
					// then map onto the box endpoints once per cell.
					var dy, dx float32
					for d := 0; d < depth; d++ {
						topLeft := float32(topRow[leftX*depth+d])
						topRight := float32(topRow[rightX*depth+d])
						bottomLeft := float32(bottomRow[leftX*depth+d])
						bottomRight := float32(bottomRow[rightX*depth+d])

						imageGradY := (1-xLerp)*(bottomLeft-topLeft) + xLerp*(bottomRight-topRight)
						imageGradX := (1-yLerp)*(topRight-topLeft) + yLerp*(bottomRight-bottomLeft)

						g := grads[cellBase+d]
						dy += imageGradY * g
						dx += imageGradX * g
					}

					out[b*4+0] += dy * w1y
					out[b*4+2] += dy * w2y
					out[b*4+1] += dx * w1x
					out[b*4+3] += dx * w2x
				}
			}
		}
	}, cfg)
}
