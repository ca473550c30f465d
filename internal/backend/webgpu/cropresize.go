//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/crop-ml/cropresize/internal/tensor"
)

// CropAndResize extracts patches from a batch of images and resizes them
// with bilinear interpolation on the GPU.
//
// Images that are not float32 fall back to the CPU backend, which converts
// every supported element type. The crops tensor is overwritten in full;
// boxes with an invalid image index produce zeros.
func (b *Backend) CropAndResize(image, boxes, boxIndex *tensor.RawTensor, extrapolationValue float32, crops *tensor.RawTensor) error {
	if image.DType() != tensor.Float32 {
		return b.host.CropAndResize(image, boxes, boxIndex, extrapolationValue, crops)
	}

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
	checkKernelTypes("crop_and_resize", boxes, boxIndex, crops)

	params := packParams(extrapolationValue,
		crops.NumElements(),
		imageShape[0], imageShape[1], imageShape[2], imageShape[3],
		cropsShape[1], cropsShape[2])

	return b.runCropKernel("crop_and_resize", cropResizeShader, image, boxes, boxIndex, crops, params)
}

// CropAndResize3D extracts patches from a batch of volumes and resizes them
// with trilinear interpolation on the GPU.
//
// Images that are not float32 fall back to the CPU backend. The crops tensor
// is overwritten in full; boxes with an invalid image index produce zeros.
func (b *Backend) CropAndResize3D(image, boxes, boxIndex *tensor.RawTensor, extrapolationValue float32, crops *tensor.RawTensor) error {
	if image.DType() != tensor.Float32 {
		return b.host.CropAndResize3D(image, boxes, boxIndex, extrapolationValue, crops)
	}

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
	checkKernelTypes("crop_and_resize_3d", boxes, boxIndex, crops)

	params := packParams(extrapolationValue,
		crops.NumElements(),
		imageShape[0], imageShape[1], imageShape[2], imageShape[3], imageShape[4],
		cropsShape[1], cropsShape[2], cropsShape[3])

	return b.runCropKernel("crop_and_resize_3d", cropResize3DShader, image, boxes, boxIndex, crops, params)
}

// checkKernelTypes panics when the auxiliary tensors do not match the kernel
// contract. The CPU backend enforces the same via its typed accessors; the
// GPU path reinterprets raw bytes and must check up front.
func checkKernelTypes(op string, boxes, boxIndex, crops *tensor.RawTensor) {
	if boxes.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: boxes must be float32, got %s", op, boxes.DType()))
	}
	if boxIndex.DType() != tensor.Int32 {
		panic(fmt.Sprintf("%s: box_index must be int32, got %s", op, boxIndex.DType()))
	}
	if crops.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: crops must be float32, got %s", op, crops.DType()))
	}
}

// packParams encodes kernel dimensions as little-endian u32 words with the
// extrapolation value appended last, matching the shader Params structs.
func packParams(extrapolationValue float32, dims ...int) []byte {
	buf := make([]byte, (len(dims)+1)*4)
	for i, dim := range dims {
		//nolint:gosec // G115: Safe conversion, dimensions are non-negative
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(dim))
	}
	binary.LittleEndian.PutUint32(buf[len(dims)*4:], math.Float32bits(extrapolationValue))
	return buf
}

// runCropKernel uploads the inputs, dispatches one invocation per output
// element and reads the result back into crops.
func (b *Backend) runCropKernel(name, code string, image, boxes, boxIndex, crops *tensor.RawTensor, params []byte) error {
	shader := b.compileShader(name, code)
	pipeline := b.getOrCreatePipeline(name, shader)

	bufferImage := b.createBuffer(image.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferImage.Release()

	bufferBoxes := b.createBuffer(boxes.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferBoxes.Release()

	bufferBoxInd := b.createBuffer(boxIndex.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferBoxInd.Release()

	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(crops.ByteSize())
	bufferCrops := b.createOutputBuffer(resultSize)
	defer bufferCrops.Release()

	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	//nolint:gosec // G115: Safe conversions, ByteSize() returns non-negative int
	entries := []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferImage, 0, uint64(image.ByteSize())),
		wgpu.BufferBindingEntry(1, bufferBoxes, 0, uint64(boxes.ByteSize())),
		wgpu.BufferBindingEntry(2, bufferBoxInd, 0, uint64(boxIndex.ByteSize())),
		wgpu.BufferBindingEntry(3, bufferCrops, 0, resultSize),
		wgpu.BufferBindingEntry(4, bufferParams, 0, uint64(len(params))),
	}

	//nolint:gosec // G115: Safe conversion, workgroup count is non-negative
	workgroups := uint32((crops.NumElements() + workgroupSize - 1) / workgroupSize)
	b.dispatch(pipeline, entries, workgroups)

	if err := b.readBuffer(bufferCrops, crops.Data()); err != nil {
		return fmt.Errorf("webgpu: %s readback: %w", name, err)
	}
	return nil
}
