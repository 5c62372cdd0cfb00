package cpu

import (
	"fmt"

	"github.com/born-ml/pladis/internal/tensor"
)

// Gather selects elements along dim using index tensor.
// Similar to torch.gather(input, dim, index).
//
// The index tensor must have dtype int32 and its shape must match input shape
// except at the gather dimension, where it can differ.
//
// Example:
//
//	input: [3, 4, 5] with values
//	index: [3, 4, 1] (int32 indices)
//	dim: 2
//	output: [3, 4, 1] where output[i,j,0] = input[i,j,index[i,j,0]]
func (cpu *CPUBackend) Gather(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("gather: index tensor must have dtype int32, got %s", index.DType()))
	}

	shape := x.Shape()
	ndim := len(shape)
	dim = checkDim("gather", dim, ndim)

	indexShape := index.Shape()
	if len(indexShape) != ndim {
		panic(fmt.Sprintf("gather: index rank %d != input rank %d", len(indexShape), ndim))
	}
	for i := 0; i < ndim; i++ {
		if i != dim && indexShape[i] != shape[i] {
			panic(fmt.Sprintf("gather: index shape mismatch at dim %d: %d != %d", i, indexShape[i], shape[i]))
		}
	}

	src := newAxisView(shape, dim)
	dst := newAxisView(indexShape, dim)
	result := cpu.alloc("gather", indexShape, x.DType())
	indices := index.AsInt32()

	switch x.DType() {
	case tensor.Float32:
		gatherLanes(result.AsFloat32(), x.AsFloat32(), indices, src, dst)
	case tensor.Float64:
		gatherLanes(result.AsFloat64(), x.AsFloat64(), indices, src, dst)
	case tensor.Int32:
		gatherLanes(result.AsInt32(), x.AsInt32(), indices, src, dst)
	case tensor.Int64:
		gatherLanes(result.AsInt64(), x.AsInt64(), indices, src, dst)
	default:
		panic(fmt.Sprintf("gather: unsupported dtype %s", x.DType()))
	}

	return result
}

func gatherLanes[T number](out, in []T, indices []int32, src, dst axisView) {
	for lane := 0; lane < dst.lanes(); lane++ {
		srcBase, dstBase := src.base(lane), dst.base(lane)
		for i := 0; i < dst.n; i++ {
			pos := dstBase + i*dst.inner
			idx := int(indices[pos])
			if idx < 0 || idx >= src.n {
				panic(fmt.Sprintf("gather: index %d out of range [0, %d)", idx, src.n))
			}
			out[pos] = in[srcBase+idx*src.inner]
		}
	}
}

// IndexSelect keeps the slices of x at indices along dim, in the given order.
// Works for every dtype.
//
// Example:
//
//	x: [5, 3]
//	IndexSelect(x, 0, []int{4, 1}) -> [2, 3] holding rows 4 and 1
func (cpu *CPUBackend) IndexSelect(x *tensor.RawTensor, dim int, indices []int) *tensor.RawTensor {
	shape := x.Shape()
	dim = checkDim("index_select", dim, len(shape))
	if len(indices) == 0 {
		panic("index_select: at least one index required")
	}

	v := newAxisView(shape, dim)
	result := cpu.alloc("index_select", shape.WithDim(dim, len(indices)), x.DType())
	block := v.inner * x.DType().Size()
	src, dst := x.Data(), result.Data()

	for o := 0; o < v.outer; o++ {
		for t, idx := range indices {
			checkIndex("index_select", idx, v.n)
			from := (o*v.n + idx) * block
			to := (o*len(indices) + t) * block
			copy(dst[to:to+block], src[from:from+block])
		}
	}

	return result
}

// IndexPut returns a copy of dst whose slices at indices along dim are
// replaced, in order, by the slices of src. src must match dst's shape
// except along dim, where its size is len(indices).
func (cpu *CPUBackend) IndexPut(dst *tensor.RawTensor, dim int, indices []int, src *tensor.RawTensor) *tensor.RawTensor {
	shape := dst.Shape()
	dim = checkDim("index_put", dim, len(shape))

	if src.DType() != dst.DType() {
		panic(fmt.Sprintf("index_put: dtype mismatch: %s vs %s", dst.DType(), src.DType()))
	}
	if want := shape.WithDim(dim, len(indices)); !src.Shape().Equal(want) {
		panic(fmt.Sprintf("index_put: source shape %v, expected %v", src.Shape(), want))
	}

	v := newAxisView(shape, dim)
	result := dst.Clone()
	block := v.inner * dst.DType().Size()
	from, to := src.Data(), result.Data()

	for o := 0; o < v.outer; o++ {
		for t, idx := range indices {
			checkIndex("index_put", idx, v.n)
			s := (o*len(indices) + t) * block
			d := (o*v.n + idx) * block
			copy(to[d:d+block], from[s:s+block])
		}
	}

	return result
}

func checkIndex(op string, idx, n int) {
	if idx < 0 || idx >= n {
		panic(fmt.Sprintf("%s: index %d out of range [0, %d)", op, idx, n))
	}
}
