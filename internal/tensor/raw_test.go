package tensor

import (
	"testing"
)

func TestNewRawAllTypes(t *testing.T) {
	types := []struct {
		dtype       DataType
		elementSize int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int8, 1},
		{Int16, 2},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Uint16, 2},
	}

	shape := Shape{2, 3}
	for _, tt := range types {
		raw, err := NewRaw(shape, tt.dtype)
		if err != nil {
			t.Fatalf("NewRaw(%v, %v) failed: %v", shape, tt.dtype, err)
		}

		if raw.DType() != tt.dtype {
			t.Errorf("DType = %v, want %v", raw.DType(), tt.dtype)
		}

		expectedByteSize := 6 * tt.elementSize // 2*3 elements
		if raw.ByteSize() != expectedByteSize {
			t.Errorf("ByteSize = %d, want %d for type %v", raw.ByteSize(), expectedByteSize, tt.dtype)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0, 3}, Float32); err == nil {
		t.Error("NewRaw with zero dimension should return an error")
	}
	if _, err := NewRaw(Shape{-1, 3}, Float32); err == nil {
		t.Error("NewRaw with negative dimension should return an error")
	}
}

func TestRawTensorAsFloat32(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Float32)
	data := raw.AsFloat32()

	if len(data) != 6 {
		t.Errorf("AsFloat32 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsFloat32()[0] != 42 {
		t.Error("AsFloat32 should return zero-copy slice")
	}
}

func TestRawTensorAsUint16(t *testing.T) {
	raw, _ := NewRaw(Shape{4, 4}, Uint16)
	data := raw.AsUint16()

	if len(data) != 16 {
		t.Errorf("AsUint16 length = %d, want 16", len(data))
	}

	data[3] = 65535
	if raw.AsUint16()[3] != 65535 {
		t.Error("AsUint16 should return zero-copy slice")
	}
}

func TestRawTensorAsWrongTypePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("AsFloat64 on a Float32 tensor should panic")
		}
	}()
	raw, _ := NewRaw(Shape{2, 2}, Float32)
	raw.AsFloat64()
}

func TestRawTensorZero(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Float64)
	data := raw.AsFloat64()
	for i := range data {
		data[i] = float64(i) + 1
	}

	raw.Zero()

	for i, v := range raw.AsFloat64() {
		if v != 0 {
			t.Errorf("after Zero(), element %d = %v, want 0", i, v)
		}
	}
}

func TestRawTensorCloneIsDeep(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Float32)
	raw.AsFloat32()[0] = 1.0

	clone := raw.Clone()
	if clone.AsFloat32()[0] != 1.0 {
		t.Error("Clone should copy data")
	}

	clone.AsFloat32()[0] = 2.0
	if raw.AsFloat32()[0] != 1.0 {
		t.Error("writing to a clone must not modify the original")
	}
	if !clone.Shape().Equal(raw.Shape()) {
		t.Errorf("clone shape = %v, want %v", clone.Shape(), raw.Shape())
	}
}

func TestRawTensorStrides(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 3, 4, 5}, Float32)
	want := []int{60, 20, 5, 1}
	got := raw.Strides()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stride[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDataTypeString(t *testing.T) {
	cases := map[DataType]string{
		Float32: "float32",
		Float64: "float64",
		Int8:    "int8",
		Int16:   "int16",
		Int32:   "int32",
		Int64:   "int64",
		Uint8:   "uint8",
		Uint16:  "uint16",
	}
	for dt, want := range cases {
		if dt.String() != want {
			t.Errorf("%d.String() = %q, want %q", dt, dt.String(), want)
		}
	}
}

func TestDataTypeIsFloat(t *testing.T) {
	if !Float32.IsFloat() || !Float64.IsFloat() {
		t.Error("Float32 and Float64 should report IsFloat")
	}
	for _, dt := range []DataType{Int8, Int16, Int32, Int64, Uint8, Uint16} {
		if dt.IsFloat() {
			t.Errorf("%v should not report IsFloat", dt)
		}
	}
}

func TestTypeOf(t *testing.T) {
	if TypeOf[float32]() != Float32 {
		t.Error("TypeOf[float32] should be Float32")
	}
	if TypeOf[uint16]() != Uint16 {
		t.Error("TypeOf[uint16] should be Uint16")
	}
}
