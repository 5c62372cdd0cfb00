package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/pladis/internal/tensor"
)

// MulScalar multiplies each element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("mulscalar", opMul, x, scalar)
}

// AddScalar adds a scalar to each element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("addscalar", opAdd, x, scalar)
}

// SubScalar subtracts a scalar from each element.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("subscalar", opSub, x, scalar)
}

// DivScalar divides each element by a scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("divscalar", opDiv, x, scalar)
}

// ClampMin returns max(x, minValue) element-wise. NaN stays NaN.
func (cpu *CPUBackend) ClampMin(x *tensor.RawTensor, minValue any) *tensor.RawTensor {
	const op = "clampmin"
	result := cpu.alloc(op, x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		clampMin(result.AsFloat32(), x.AsFloat32(), scalarAs[float32](op, minValue))
	case tensor.Float64:
		clampMin(result.AsFloat64(), x.AsFloat64(), scalarAs[float64](op, minValue))
	case tensor.Int32:
		clampMin(result.AsInt32(), x.AsInt32(), scalarAs[int32](op, minValue))
	case tensor.Int64:
		clampMin(result.AsInt64(), x.AsInt64(), scalarAs[int64](op, minValue))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

// Sqrt computes the element-wise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.alloc("sqrt", x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		mapUnary(result.AsFloat32(), x.AsFloat32(), func(v float32) float32 {
			return float32(math.Sqrt(float64(v)))
		})
	case tensor.Float64:
		mapUnary(result.AsFloat64(), x.AsFloat64(), math.Sqrt)
	default:
		panic(fmt.Sprintf("sqrt: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

func (cpu *CPUBackend) scalarOp(op string, kind binaryKind, x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := cpu.alloc(op, x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		applyScalar(result.AsFloat32(), x.AsFloat32(), scalarAs[float32](op, scalar), kind)
	case tensor.Float64:
		applyScalar(result.AsFloat64(), x.AsFloat64(), scalarAs[float64](op, scalar), kind)
	case tensor.Int32:
		applyScalar(result.AsInt32(), x.AsInt32(), scalarAs[int32](op, scalar), kind)
	case tensor.Int64:
		applyScalar(result.AsInt64(), x.AsInt64(), scalarAs[int64](op, scalar), kind)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

func applyScalar[T number](dst, src []T, s T, kind binaryKind) {
	f := arithFunc[T](kind)
	for i, v := range src {
		dst[i] = f(v, s)
	}
}

func clampMin[T number](dst, src []T, m T) {
	for i, v := range src {
		if v < m {
			v = m
		}
		dst[i] = v
	}
}
