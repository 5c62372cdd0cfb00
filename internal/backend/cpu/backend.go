// Package cpu implements the CPU backend: pure Go kernels, fanned out over
// rows with internal/parallel.
package cpu

import (
	"fmt"

	"github.com/born-ml/pladis/internal/parallel"
	"github.com/born-ml/pladis/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend using all available cores.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// alloc creates a zeroed result tensor, panicking with the operation name on failure.
func (cpu *CPUBackend) alloc(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

// forLanes runs f for every lane of v, in parallel when the backend allows it.
func (cpu *CPUBackend) forLanes(v axisView, f func(lane, base int)) {
	parallel.For(v.lanes(), func(lane int) {
		f(lane, v.base(lane))
	}, cpu.parallel)
}

// Reshape returns a tensor with the same data but different shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}

	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}

	result := cpu.alloc("reshape", newShape, t.DType())
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the tensor's dimensions.
// With no axes, all dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	srcStrides := make([]int, ndim)
	inStrides := shape.ComputeStrides()
	for i, ax := range axes {
		newShape[i] = shape[ax]
		srcStrides[i] = inStrides[ax]
	}

	result := cpu.alloc("transpose", newShape, t.DType())
	permuteBytes(result.Data(), t.Data(), newShape, srcStrides, t.DType().Size())
	return result
}

// permuteBytes writes dst in row-major order of outShape, reading each
// element from src at the offset given by srcStrides (in elements).
func permuteBytes(dst, src []byte, outShape tensor.Shape, srcStrides []int, elemSize int) {
	ndim := len(outShape)
	coords := make([]int, ndim)
	srcIdx := 0
	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		copy(dst[i*elemSize:(i+1)*elemSize], src[srcIdx*elemSize:(srcIdx+1)*elemSize])
		for d := ndim - 1; d >= 0; d-- {
			coords[d]++
			srcIdx += srcStrides[d]
			if coords[d] < outShape[d] {
				break
			}
			srcIdx -= srcStrides[d] * outShape[d]
			coords[d] = 0
		}
	}
}
