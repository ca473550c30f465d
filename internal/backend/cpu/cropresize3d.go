package cpu

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// CropAndResize3D extracts patches from a batch of volumes and resizes them
// with trilinear interpolation.
//
// Image shape: [batch, imageH, imageW, imageD, depth], any real element type.
// Boxes shape: [numBoxes, 6] float32, normalized (y1, x1, z1, y2, x2, z2).
// BoxIndex shape: [numBoxes] int32.
// Crops shape: [numBoxes, cropH, cropW, cropD, depth] float32, filled by
// this call.
//
// Semantics match CropAndResize with a third spatial axis: out-of-bounds
// samples take extrapolationValue, boxes with an invalid image index are
// skipped.
func (cpu *CPUBackend) CropAndResize3D(image, boxes, boxIndex *tensor.RawTensor, extrapolationValue float32, crops *tensor.RawTensor) error {
	imageShape := image.Shape()
	cropsShape := crops.Shape()
	if len(imageShape) != 5 {
		panic(fmt.Sprintf("crop_and_resize_3d: image must be 5D [batch,H,W,D,C], got %dD", len(imageShape)))
	}
	if len(cropsShape) != 5 {
		panic(fmt.Sprintf("crop_and_resize_3d: crops must be 5D [numBoxes,cropH,cropW,cropD,C], got %dD", len(cropsShape)))
	}
	if imageShape[4] != cropsShape[4] {
		panic(fmt.Sprintf("crop_and_resize_3d: image channels %d != crops channels %d", imageShape[4], cropsShape[4]))
	}

	batch, imageH, imageW, imageD, depth := imageShape[0], imageShape[1], imageShape[2], imageShape[3], imageShape[4]
	cropH, cropW, cropD := cropsShape[1], cropsShape[2], cropsShape[3]

	out := crops.AsFloat32()
	boxesData := boxes.AsFloat32()
	boxInd := boxIndex.AsInt32()

	switch image.DType() {
	case tensor.Float32:
		cropAndResize3D(out, image.AsFloat32(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	case tensor.Float64:
		cropAndResize3D(out, image.AsFloat64(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	case tensor.Int8:
		cropAndResize3D(out, image.AsInt8(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	case tensor.Int16:
		cropAndResize3D(out, image.AsInt16(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	case tensor.Int32:
		cropAndResize3D(out, image.AsInt32(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	case tensor.Int64:
		cropAndResize3D(out, image.AsInt64(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	case tensor.Uint8:
		cropAndResize3D(out, image.AsUint8(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	case tensor.Uint16:
		cropAndResize3D(out, image.AsUint16(), boxesData, boxInd, batch, imageH, imageW, imageD, depth, cropH, cropW, cropD, extrapolationValue, cpu.par)
	default:
		panic(fmt.Sprintf("crop_and_resize_3d: unsupported image dtype %s", image.DType()))
	}
	return nil
}

// cropAndResize3D blends the eight corners enclosing each mapped coordinate,
// along x first, then y, then z.
func cropAndResize3D[T tensor.DType](out []float32, src []T, boxes []float32, boxInd []int32,
	batch, imageH, imageW, imageD, depth, cropH, cropW, cropD int, extrapolationValue float32, cfg parallel.Config) {
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
			outBase := b * cropH * cropW * cropD * depth

			for y := 0; y < cropH; y++ {
				slabBase := outBase + y*cropW*cropD*depth
				inY := mapCoord(y, bx.y1, bx.y2, heightScale, imageH, cropH)
				if !inBounds(inY, imageH) {
					fill(out[slabBase:slabBase+cropW*cropD*depth], extrapolationValue)
					continue
				}
				topY, bottomY, yLerp := span(inY)

				for x := 0; x < cropW; x++ {
					colBase := slabBase + x*cropD*depth
					inX := mapCoord(x, bx.x1, bx.x2, widthScale, imageW, cropW)
					if !inBounds(inX, imageW) {
						fill(out[colBase:colBase+cropD*depth], extrapolationValue)
						continue
					}
					leftX, rightX, xLerp := span(inX)

					for z := 0; z < cropD; z++ {
						cellBase := colBase + z*depth
						inZ := mapCoord(z, bx.z1, bx.z2, depthScale, imageD, cropD)
						if !inBounds(inZ, imageD) {
							fill(out[cellBase:cellBase+depth], extrapolationValue)
							continue
						}
						frontZ, backZ, zLerp := span(inZ)

						topLeftBase := imgBase + (topY*imageW+leftX)*imageD*depth
						topRightBase := imgBase + (topY*imageW+rightX)*imageD*depth
						bottomLeftBase := imgBase + (bottomY*imageW+leftX)*imageD*depth
						bottomRightBase := imgBase + (bottomY*imageW+rightX)*imageD*depth

						for d := 0; d < depth; d++ {
							topLeftFront := float32(src[topLeftBase+frontZ*depth+d])
							topLeftBack := float32(src[topLeftBase+backZ*depth+d])
							topRightFront := float32(src[topRightBase+frontZ*depth+d])
							topRightBack := float32(src[topRightBase+backZ*depth+d])
							bottomLeftFront := float32(src[bottomLeftBase+frontZ*depth+d])
							bottomLeftBack := float32(src[bottomLeftBase+backZ*depth+d])
							bottomRightFront := float32(src[bottomRightBase+frontZ*depth+d])
							bottomRightBack := float32(src[bottomRightBase+backZ*depth+d])

							topFront := topLeftFront + (topRightFront-topLeftFront)*xLerp
							bottomFront := bottomLeftFront + (bottomRightFront-bottomLeftFront)*xLerp
							front := topFront + (bottomFront-topFront)*yLerp

							topBack := topLeftBack + (topRightBack-topLeftBack)*xLerp
							bottomBack := bottomLeftBack + (bottomRightBack-bottomLeftBack)*xLerp
							back := topBack + (bottomBack-topBack)*yLerp

							out[cellBase+d] = front + (back-front)*zLerp
						}
					}
				}
			}
		}
	}, cfg)
}
