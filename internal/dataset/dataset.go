// Package dataset exports crops as TFRecord files of tensorflow.Example
// records, the interchange format TensorFlow input pipelines read.
//
// Each crop becomes one Example carrying the raw float32 pixels, the crop
// dimensions, the normalized box and the source image index.
package dataset

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow

	"github.com/crop-ml/cropresize/internal/tensor"
)

// WriteCrops writes one tensorflow.Example per crop to TFRecord shards at
// basePath. Crops of shape [num, H, W, C] record a 4-coordinate box per
// Example, [num, H, W, D, C] crops a 6-coordinate one. With numShards > 1
// the Examples spread evenly over files named by ShardPath.
func WriteCrops(basePath string, crops, boxes, boxIndex *tensor.RawTensor, numShards int) (err error) {
	// example.New panics on values it cannot convert to a Feature.
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("WriteCrops: conversion to TensorFlow Example failed: %v", e)
		}
	}()

	shape := crops.Shape()
	rank := len(shape)
	if rank != 4 && rank != 5 {
		return fmt.Errorf("WriteCrops: crops must be 4-D or 5-D, got shape %v", shape)
	}
	if crops.DType() != tensor.Float32 {
		return fmt.Errorf("WriteCrops: crops must be float32, got %v", crops.DType())
	}

	coords := 4
	if rank == 5 {
		coords = 6
	}
	n := shape[0]

	boxesShape := boxes.Shape()
	if len(boxesShape) != 2 || boxesShape[0] != n || boxesShape[1] != coords {
		return fmt.Errorf("WriteCrops: boxes must be [%d, %d], got shape %v", n, coords, boxesShape)
	}
	if boxes.DType() != tensor.Float32 {
		return fmt.Errorf("WriteCrops: boxes must be float32, got %v", boxes.DType())
	}
	if len(boxIndex.Shape()) != 1 || boxIndex.Shape()[0] != n {
		return fmt.Errorf("WriteCrops: box_index must be [%d], got shape %v", n, boxIndex.Shape())
	}
	if boxIndex.DType() != tensor.Int32 {
		return fmt.Errorf("WriteCrops: box_index must be int32, got %v", boxIndex.DType())
	}

	if numShards <= 0 {
		numShards = 1
	}
	shardSize := int(math.Ceil(float64(n) / float64(numShards)))

	cropData := crops.AsFloat32()
	boxData := boxes.AsFloat32()
	boxInd := boxIndex.AsInt32()
	cropElems := crops.NumElements() / n

	var shardFile *os.File
	closeShard := func() error {
		if shardFile == nil {
			return nil
		}
		closeErr := shardFile.Close()
		shardFile = nil
		return closeErr
	}
	defer func() {
		_ = closeShard()
	}()

	for i := 0; i < n; i++ {
		if i%shardSize == 0 {
			if err := closeShard(); err != nil {
				return fmt.Errorf("WriteCrops: %w", err)
			}
			path := ShardPath(basePath, i/shardSize, numShards)
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("WriteCrops: failed to create shard: %w", err)
			}
			shardFile = f
		}

		f := map[string]interface{}{
			"crop/height":      shape[1],
			"crop/width":       shape[2],
			"crop/channels":    shape[rank-1],
			"crop/data":        cropData[i*cropElems : (i+1)*cropElems],
			"crop/bbox":        boxData[i*coords : (i+1)*coords],
			"crop/image_index": int(boxInd[i]),
		}
		if rank == 5 {
			f["crop/depth"] = shape[3]
		}

		enc, err := proto.Marshal(example.New(f))
		if err != nil {
			return fmt.Errorf("WriteCrops: %w", err)
		}
		if err := tfrecord.Write(shardFile, enc); err != nil {
			return fmt.Errorf("WriteCrops: failed to write example: %w", err)
		}
	}

	return closeShard()
}

// ShardPath returns the file path of shard idx out of numShards, using the
// conventional "-00000-of-00003" suffix. A single shard uses basePath as is.
func ShardPath(basePath string, idx, numShards int) string {
	if numShards <= 1 {
		return basePath
	}
	return fmt.Sprintf("%s-%05d-of-%05d", basePath, idx, numShards)
}

// ReadExamples parses every tensorflow.Example from the TFRecord file at
// path. Intended for verification and small files; it holds all records in
// memory.
func ReadExamples(path string) ([]*tensorflow.Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadExamples: %w", err)
	}
	defer file.Close()

	var examples []*tensorflow.Example
	for {
		rec, err := tfrecord.Read(file)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadExamples: %w", err)
		}

		ex := &tensorflow.Example{}
		if err := proto.Unmarshal(rec, ex); err != nil {
			return nil, fmt.Errorf("ReadExamples: %w", err)
		}
		examples = append(examples, ex)
	}

	return examples, nil
}
