// Copyright 2025 The cropresize Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset exports crops as TFRecord files for TensorFlow input
// pipelines.
//
// Each crop is serialized as one tensorflow.Example holding the raw float32
// pixels ("crop/data"), the crop dimensions, the normalized box
// ("crop/bbox") and the source image index ("crop/image_index").
//
// Example:
//
//	crops, _ := cropper.Crop(image, boxes, boxIndex, [2]int{64, 64})
//	err := dataset.WriteCrops("out/train.tfrecord", crops, boxes, boxIndex, 4)
package dataset

import (
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow

	internaldataset "github.com/crop-ml/cropresize/internal/dataset"
	"github.com/crop-ml/cropresize/tensor"
)

// WriteCrops writes one tensorflow.Example per crop to TFRecord shards at
// basePath. Crops must be float32 and 4-D ([num, H, W, C], 4-coordinate
// boxes) or 5-D ([num, H, W, D, C], 6-coordinate boxes). With numShards > 1
// the Examples spread evenly over files named by ShardPath.
func WriteCrops(basePath string, crops, boxes, boxIndex *tensor.RawTensor, numShards int) error {
	return internaldataset.WriteCrops(basePath, crops, boxes, boxIndex, numShards)
}

// ShardPath returns the file path of shard idx out of numShards, using the
// conventional "-00000-of-00003" suffix. A single shard uses basePath as is.
func ShardPath(basePath string, idx, numShards int) string {
	return internaldataset.ShardPath(basePath, idx, numShards)
}

// ReadExamples parses every tensorflow.Example from the TFRecord file at
// path. Intended for verification and small files; it holds all records in
// memory.
func ReadExamples(path string) ([]*tensorflow.Example, error) {
	return internaldataset.ReadExamples(path)
}
