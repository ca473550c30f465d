package cpu

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// CropAndResizeGradBoxes3D computes the gradient of CropAndResize3D with
// respect to the box coordinates.
//
// Grads shape: [numBoxes, cropH, cropW, cropD, depth] float32.
// Image shape: [batch, imageH, imageW, imageD, depth], any real element type.
// Boxes shape: [numBoxes, 6] float32; BoxIndex shape: [numBoxes] int32.
// GradBoxes shape: [numBoxes, 6] float32 (dy1, dx1, dz1, dy2, dx2, dz2 per
// box), zeroed and then accumulated by this call.
func (cpu *CPUBackend) CropAndResizeGradBoxes3D(grads, image, boxes, boxIndex *tensor.RawTensor, gradBoxes *tensor.RawTensor) error {
	gradsShape := grads.Shape()
	imageShape := image.Shape()
	if len(gradsShape) != 5 {
		panic(fmt.Sprintf("crop_and_resize_grad_boxes_3d: grads must be 5D [numBoxes,cropH,cropW,cropD,C], got %dD", len(gradsShape)))
	}
	if len(imageShape) != 5 {
		panic(fmt.Sprintf("crop_and_resize_grad_boxes_3d: image must be 5D [batch,H,W,D,C], got %dD", len(imageShape)))
	}
	if gradsShape[4] != imageShape[4] {
		panic(fmt.Sprintf("crop_and_resize_grad_boxes_3d: grads channels %d != image channels %d", gradsShape[4], imageShape[4]))
	}

	batch, imageH, imageW, imageD, depth := imageShape[0], imageShape[1], imageShape[2], imageShape[3], imageShape[4]
	cropH, cropW, cropD := gradsShape[1], gradsShape[2], gradsShape[3]

	out := gradBoxes.AsFloat32()
	gradsData := grads.AsFloat32()
	boxesData := boxes.AsFloat32()
	boxInd := boxIndex.AsInt32()

	gradBoxes.Zero()

	switch image.DType() {
	case tensor.Float32:
		gradBoxes3D(out, gradsData, image.AsFloat32(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Float64:
		gradBoxes3D(out, gradsData, image.AsFloat64(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Int8:
		gradBoxes3D(out, gradsData, image.AsInt8(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Int16:
		gradBoxes3D(out, gradsData, image.AsInt16(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Int32:
		gradBoxes3D(out, gradsData, image.AsInt32(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Int64:
		gradBoxes3D(out, gradsData, image.AsInt64(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Uint8:
		gradBoxes3D(out, gradsData, image.AsUint8(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	case tensor.Uint16:
		gradBoxes3D(out, gradsData, image.AsUint16(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, cpu.par)
	default:
		panic(fmt.Sprintf("crop_and_resize_grad_boxes_3d: unsupported image dtype %s", image.DType()))
	}
	return nil
}

// gradBoxes3D differences the eight corner samples along each axis, weighted
// by the other two axes' lerps, and maps the result onto the six endpoints.
func gradBoxes3D[T tensor.DType](out, grads []float32, src []T, boxes []float32, boxInd []int32,
	batch, imageH, imageW, imageD, depth, cropH, cropW, cropD int, cfg parallel.Config) {
	numBoxes := len(boxInd)

	parallel.Shard(numBoxes, boxCost(cropH*cropW*cropD, depth), func(start, end int) {
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
				w1y, w2y := endpointWeights(y, imageH, cropH)

				for x := 0; x < cropW; x++ {
					inX := mapCoord(x, bx.x1, bx.x2, widthScale, imageW, cropW)
					if !inBounds(inX, imageW) {
						continue
					}
					leftX, rightX, xLerp := span(inX)
					w1x, w2x := endpointWeights(x, imageW, cropW)

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
						w1z, w2z := endpointWeights(z, imageD, cropD)
						cellBase := gradsBase + ((y*cropW+x)*cropD+z)*depth

						var dy, dx, dz float32
						for d := 0; d < depth; d++ {
							tlf := float32(src[topLeftBase+frontZ*depth+d])
							tlb := float32(src[topLeftBase+backZ*depth+d])
							trf := float32(src[topRightBase+frontZ*depth+d])
							trb := float32(src[topRightBase+backZ*depth+d])
							blf := float32(src[bottomLeftBase+frontZ*depth+d])
							blb := float32(src[bottomLeftBase+backZ*depth+d])
							brf := float32(src[bottomRightBase+frontZ*depth+d])
							brb := float32(src[bottomRightBase+backZ*depth+d])

							imageGradY := (1-zLerp)*((1-xLerp)*(blf-tlf)+xLerp*(brf-trf)) +
								zLerp*((1-xLerp)*(blb-tlb)+xLerp*(brb-trb))
							imageGradX := (1-zLerp)*((1-yLerp)*(trf-tlf)+yLerp*(brf-blf)) +
								zLerp*((1-yLerp)*(trb-tlb)+yLerp*(brb-blb))
							imageGradZ := (1-yLerp)*((1-xLerp)*(tlb-tlf)+xLerp*(trb-trf)) +
								yLerp*((1-xLerp)*(blb-blf)+xLerp*(brb-brf))

							g := grads[cellBase+d]
							dy += imageGradY * g
							dx += imageGradX * g
							dz += imageGradZ * g
						}

						out[b*6+0] += dy * w1y
						out[b*6+3] += dy * w2y
						out[b*6+1] += dx * w1x
						out[b*6+4] += dx * w2x
						out[b*6+2] += dz * w1z
						out[b*6+5] += dz * w2z
					}
				}
			}
		}
	}, cfg)
}
