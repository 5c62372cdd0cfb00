package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/pladis/internal/tensor"
)

// SumDim sums tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
//
// Example:
//
//	x := tensor.Randn[float32]([]int{2, 3, 4}, backend)
//	y := backend.SumDim(x, -1, true)   // shape: [2, 3, 1]
//	z := backend.SumDim(x, -1, false)  // shape: [2, 3]
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("sumdim", x, dim, keepDim, false)
}

// MaxDim takes the maximum along the specified dimension.
// Same dimension and keepDim semantics as SumDim.
func (cpu *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("maxdim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduce(op string, x *tensor.RawTensor, dim int, keepDim, takeMax bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = checkDim(op, dim, len(shape))
	v := newAxisView(shape, dim)
	result := cpu.alloc(op, reducedShape(shape, dim, keepDim), x.DType())

	switch x.DType() {
	case tensor.Float32:
		reduceLanes(cpu, result.AsFloat32(), x.AsFloat32(), v, takeMax)
	case tensor.Float64:
		if v.contiguous() {
			reduceRowsFloat64(cpu, result.AsFloat64(), x.AsFloat64(), v, takeMax)
		} else {
			reduceLanes(cpu, result.AsFloat64(), x.AsFloat64(), v, takeMax)
		}
	case tensor.Int32:
		reduceLanes(cpu, result.AsInt32(), x.AsInt32(), v, takeMax)
	case tensor.Int64:
		reduceLanes(cpu, result.AsInt64(), x.AsInt64(), v, takeMax)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

// reduceLanes folds every lane of src into one value of dst.
func reduceLanes[T number](cpu *CPUBackend, dst, src []T, v axisView, takeMax bool) {
	cpu.forLanes(v, func(lane, base int) {
		acc := src[base]
		for i := 1; i < v.n; i++ {
			val := src[base+i*v.inner]
			if takeMax {
				if val > acc {
					acc = val
				}
			} else {
				acc += val
			}
		}
		dst[lane] = acc
	})
}

// reduceRowsFloat64 handles contiguous float64 lanes with gonum.
func reduceRowsFloat64(cpu *CPUBackend, dst, src []float64, v axisView, takeMax bool) {
	cpu.forLanes(v, func(lane, base int) {
		row := src[base : base+v.n]
		if takeMax {
			dst[lane] = floats.Max(row)
		} else {
			dst[lane] = floats.Sum(row)
		}
	})
}
