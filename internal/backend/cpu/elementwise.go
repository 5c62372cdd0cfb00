package cpu

import (
	"fmt"

	"github.com/born-ml/pladis/internal/tensor"
)

type binaryKind int

const (
	opAdd binaryKind = iota
	opSub
	opMul
	opDiv
)

type compareKind int

const (
	opGreater compareKind = iota
	opLowerEqual
)

func arithFunc[T number](kind binaryKind) func(x, y T) T {
	switch kind {
	case opAdd:
		return func(x, y T) T { return x + y }
	case opSub:
		return func(x, y T) T { return x - y }
	case opMul:
		return func(x, y T) T { return x * y }
	default:
		return func(x, y T) T { return x / y }
	}
}

func compareFunc[T number](kind compareKind) func(x, y T) bool {
	if kind == opGreater {
		return func(x, y T) bool { return x > y }
	}
	return func(x, y T) bool { return x <= y }
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("add", opAdd, a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("sub", opSub, a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("mul", opMul, a, b)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("div", opDiv, a, b)
}

// Greater returns a bool tensor with a > b, broadcasting.
func (cpu *CPUBackend) Greater(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("greater", opGreater, a, b)
}

// LowerEqual returns a bool tensor with a <= b, broadcasting.
func (cpu *CPUBackend) LowerEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare("lower_equal", opLowerEqual, a, b)
}

func (cpu *CPUBackend) binaryShape(op string, a, b *tensor.RawTensor) tensor.Shape {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", op, a.DType(), b.DType()))
	}
	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	return outShape
}

func (cpu *CPUBackend) arith(op string, kind binaryKind, a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape := cpu.binaryShape(op, a, b)
	result := cpu.alloc(op, outShape, a.DType())
	as, bs := a.Shape(), b.Shape()

	switch a.DType() {
	case tensor.Float32:
		broadcastBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), as, bs, outShape, arithFunc[float32](kind))
	case tensor.Float64:
		broadcastBinary(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), as, bs, outShape, arithFunc[float64](kind))
	case tensor.Int32:
		broadcastBinary(result.AsInt32(), a.AsInt32(), b.AsInt32(), as, bs, outShape, arithFunc[int32](kind))
	case tensor.Int64:
		broadcastBinary(result.AsInt64(), a.AsInt64(), b.AsInt64(), as, bs, outShape, arithFunc[int64](kind))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}

	return result
}

func (cpu *CPUBackend) compare(op string, kind compareKind, a, b *tensor.RawTensor) *tensor.RawTensor {
	outShape := cpu.binaryShape(op, a, b)
	result := cpu.alloc(op, outShape, tensor.Bool)
	dst := result.AsBool()
	as, bs := a.Shape(), b.Shape()

	switch a.DType() {
	case tensor.Float32:
		broadcastBinary(dst, a.AsFloat32(), b.AsFloat32(), as, bs, outShape, compareFunc[float32](kind))
	case tensor.Float64:
		broadcastBinary(dst, a.AsFloat64(), b.AsFloat64(), as, bs, outShape, compareFunc[float64](kind))
	case tensor.Int32:
		broadcastBinary(dst, a.AsInt32(), b.AsInt32(), as, bs, outShape, compareFunc[int32](kind))
	case tensor.Int64:
		broadcastBinary(dst, a.AsInt64(), b.AsInt64(), as, bs, outShape, compareFunc[int64](kind))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}

	return result
}
