package cpu

import (
	"fmt"

	"github.com/crop-ml/cropresize/internal/parallel"
	"github.com/crop-ml/cropresize/internal/tensor"
)

// CropAndResize extracts patches from a batch of images and resizes them
// with bilinear interpolation.
//
// Image shape: [batch, imageH, imageW, depth], any real element type.
// Boxes shape: [numBoxes, 4] float32, normalized (y1, x1, y2, x2) per box.
// BoxIndex shape: [numBoxes] int32, each value selecting an image in the batch.
// Crops shape: [numBoxes, cropH, cropW, depth] float32, filled by this call.
//
// Sampled locations outside the image take extrapolationValue. Boxes whose
// image index falls outside [0, batch) are skipped; the caller is expected
// to have rejected them already.
func (cpu *CPUBackend) CropAndResize(image, boxes, boxIndex *tensor.RawTensor, extrapolationValue float32, crops *tensor.RawTensor) error {
	imageShape := image.Shape()
	cropsShape := crops.Shape()
	if len(imageShape) != 4 {
		panic(fmt.Sprintf("crop_and_resize: image must be 4D [batch,H,W,C], got %dD", len(imageShape)))
	}
	if len(cropsShape) != 4 {
		panic(fmt.Sprintf("crop_and_resize: crops must be 4D [numBoxes,cropH,cropW,C], got %dD", len(cropsShape)))
	}
	if imageShape[3] != cropsShape[3] {
		panic(fmt.Sprintf("crop_and_resize: image channels %d != crops channels %d", imageShape[3], cropsShape[3]))
	}

	batch, imageH, imageW, depth := imageShape[0], imageShape[1], imageShape[2], imageShape[3]
	cropH, cropW := cropsShape[1], cropsShape[2]

	out := crops.AsFloat32()
	boxesData := boxes.AsFloat32()
	boxInd := boxIndex.AsInt32()

	switch image.DType() {
	case tensor.Float32:
		cropAndResize2D(out, image.AsFloat32(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	case tensor.Float64:
		cropAndResize2D(out, image.AsFloat64(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	case tensor.Int8:
		cropAndResize2D(out, image.AsInt8(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	case tensor.Int16:
		cropAndResize2D(out, image.AsInt16(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	case tensor.Int32:
		cropAndResize2D(out, image.AsInt32(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	case tensor.Int64:
		cropAndResize2D(out, image.AsInt64(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	case tensor.Uint8:
		cropAndResize2D(out, image.AsUint8(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	case tensor.Uint16:
		cropAndResize2D(out, image.AsUint16(), boxesData, boxInd, batch, imageH, imageW, depth, cropH, cropW, extrapolationValue, cpu.par)
	default:
		panic(fmt.Sprintf("crop_and_resize: unsupported image dtype %s", image.DType()))
	}
	return nil
}

// cropAndResize2D samples one output cell per (box, y, x) grid position.
// Source samples are cast to float32 before blending, so the math is the
// same for every element type.
func cropAndResize2D[T tensor.DType](out []float32, src []T, boxes []float32, boxInd []int32,
	batch, imageH, imageW, depth, cropH, cropW int, extrapolationValue float32, cfg parallel.Config) {
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
			outBase := b * cropH * cropW * depth

			for y := 0; y < cropH; y++ {
				rowBase := outBase + y*cropW*depth
				inY := mapCoord(y, bx.y1, bx.y2, heightScale, imageH, cropH)
				if !inBounds(inY, imageH) {
					fill(out[rowBase:rowBase+cropW*depth], extrapolationValue)
					continue
				}
				topY, bottomY, yLerp := span(inY)
				topRow := src[imgBase+topY*imageW*depth:]
				bottomRow := src[imgBase+bottomY*imageW*depth:]

				for x := 0; x < cropW; x++ {
					cellBase := rowBase + x*depth
					inX := mapCoord(x, bx.x1, bx.x2, widthScale, imageW, cropW)
					if !inBounds(inX, imageW) {
						fill(out[cellBase:cellBase+depth], extrapolationValue)
						continue
					}
					leftX, rightX, xLerp := span(inX)

					for d := 0; d < depth; d++ {
						topLeft := float32(topRow[leftX*depth+d])
						topRight := float32(topRow[rightX*depth+d])
						bottomLeft := float32(bottomRow[leftX*depth+d])
						bottomRight := float32(bottomRow[rightX*depth+d])
						top := topLeft + (topRight-topLeft)*xLerp
						bottom := bottomLeft + (bottomRight-bottomLeft)*xLerp
						out[cellBase+d] = top + (bottom-top)*yLerp
					}
				}
			}
		}
	}, cfg)
}
