package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/pladis/internal/tensor"
)

// Cumsum computes the inclusive running sum along dim.
//
// Example:
//
//	x: [[1, 2, 3], [4, 5, 6]]
//	Cumsum(x, -1): [[1, 3, 6], [4, 9, 15]]
func (cpu *CPUBackend) Cumsum(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = checkDim("cumsum", dim, len(shape))
	v := newAxisView(shape, dim)
	result := cpu.alloc("cumsum", shape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		cumsumLanes(cpu, result.AsFloat32(), x.AsFloat32(), v)
	case tensor.Float64:
		if v.contiguous() {
			dst, src := result.AsFloat64(), x.AsFloat64()
			cpu.forLanes(v, func(_, base int) {
				floats.CumSum(dst[base:base+v.n], src[base:base+v.n])
			})
		} else {
			cumsumLanes(cpu, result.AsFloat64(), x.AsFloat64(), v)
		}
	case tensor.Int32:
		cumsumLanes(cpu, result.AsInt32(), x.AsInt32(), v)
	case tensor.Int64:
		cumsumLanes(cpu, result.AsInt64(), x.AsInt64(), v)
	default:
		panic(fmt.Sprintf("cumsum: unsupported dtype %s", x.DType()))
	}

	return result
}

func cumsumLanes[T number](cpu *CPUBackend, dst, src []T, v axisView) {
	cpu.forLanes(v, func(_, base int) {
		var acc T
		for i := 0; i < v.n; i++ {
			idx := base + i*v.inner
			acc += src[idx]
			dst[idx] = acc
		}
	})
}
