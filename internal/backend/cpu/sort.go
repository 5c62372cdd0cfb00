package cpu

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/born-ml/pladis/internal/tensor"
)

// Sort returns the values of x sorted along dim.
// Equal values keep no particular identity; only values are returned.
func (cpu *CPUBackend) Sort(x *tensor.RawTensor, dim int, descending bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = checkDim("sort", dim, len(shape))
	v := newAxisView(shape, dim)
	result := cpu.alloc("sort", shape, x.DType())

	switch x.DType() {
	case tensor.Float32:
		sortLanes(cpu, result.AsFloat32(), x.AsFloat32(), v, descending)
	case tensor.Float64:
		sortLanes(cpu, result.AsFloat64(), x.AsFloat64(), v, descending)
	case tensor.Int32:
		sortLanes(cpu, result.AsInt32(), x.AsInt32(), v, descending)
	case tensor.Int64:
		sortLanes(cpu, result.AsInt64(), x.AsInt64(), v, descending)
	default:
		panic(fmt.Sprintf("sort: unsupported dtype %s", x.DType()))
	}

	return result
}

// TopK returns the k largest values along dim in descending order.
// The result has size k along dim. For k >= the axis length this is a full
// descending sort.
func (cpu *CPUBackend) TopK(x *tensor.RawTensor, k, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = checkDim("topk", dim, len(shape))
	if k <= 0 {
		panic(fmt.Sprintf("topk: k must be positive, got %d", k))
	}
	if k >= shape[dim] {
		return cpu.Sort(x, dim, true)
	}

	in := newAxisView(shape, dim)
	out := axisView{outer: in.outer, n: k, inner: in.inner}
	result := cpu.alloc("topk", shape.WithDim(dim, k), x.DType())

	switch x.DType() {
	case tensor.Float32:
		topKLanes(cpu, result.AsFloat32(), x.AsFloat32(), in, out)
	case tensor.Float64:
		topKLanes(cpu, result.AsFloat64(), x.AsFloat64(), in, out)
	case tensor.Int32:
		topKLanes(cpu, result.AsInt32(), x.AsInt32(), in, out)
	case tensor.Int64:
		topKLanes(cpu, result.AsInt64(), x.AsInt64(), in, out)
	default:
		panic(fmt.Sprintf("topk: unsupported dtype %s", x.DType()))
	}

	return result
}

func sortLanes[T number](cpu *CPUBackend, dst, src []T, v axisView, descending bool) {
	cpu.forLanes(v, func(_, base int) {
		row := make([]T, v.n)
		for i := range row {
			row[i] = src[base+i*v.inner]
		}
		slices.Sort(row)
		if descending {
			slices.Reverse(row)
		}
		for i, val := range row {
			dst[base+i*v.inner] = val
		}
	})
}

// topKLanes keeps a size-k min-heap per lane: the root is the smallest of the
// current candidates and is evicted when a larger value arrives.
func topKLanes[T number](cpu *CPUBackend, dst, src []T, in, out axisView) {
	cpu.forLanes(in, func(lane, base int) {
		heap := binaryheap.New[T]()
		for i := 0; i < in.n; i++ {
			val := src[base+i*in.inner]
			if heap.Size() < out.n {
				heap.Push(val)
				continue
			}
			if smallest, _ := heap.Peek(); val > smallest {
				heap.Pop()
				heap.Push(val)
			}
		}

		outBase := out.base(lane)
		for i := out.n - 1; i >= 0; i-- {
			val, _ := heap.Pop()
			dst[outBase+i*out.inner] = val
		}
	})
}
