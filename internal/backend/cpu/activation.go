package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/pladis/internal/tensor"
)

// Softmax computes softmax along the specified dimension.
// Softmax(x_i) = exp(x_i - max) / sum(exp(x_j - max)) for all j in dimension.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = checkDim("softmax", dim, len(shape))
	v := newAxisView(shape, dim)
	result := cpu.alloc("softmax", shape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		softmaxLanes(cpu, result.AsFloat32(), x.AsFloat32(), v)
	case tensor.Float64:
		softmaxLanes(cpu, result.AsFloat64(), x.AsFloat64(), v)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

func softmaxLanes[T float](cpu *CPUBackend, dst, src []T, v axisView) {
	cpu.forLanes(v, func(_, base int) {
		maxVal := math.Inf(-1)
		for i := 0; i < v.n; i++ {
			maxVal = math.Max(maxVal, float64(src[base+i*v.inner]))
		}

		var sum float64
		for i := 0; i < v.n; i++ {
			idx := base + i*v.inner
			e := math.Exp(float64(src[idx]) - maxVal)
			dst[idx] = T(e)
			sum += e
		}

		for i := 0; i < v.n; i++ {
			idx := base + i*v.inner
			dst[idx] = T(float64(dst[idx]) / sum)
		}
	})
}
