package cpu

import (
	"fmt"

	"github.com/born-ml/pladis/internal/tensor"
)

type float interface {
	~float32 | ~float64
}

type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// axisView splits a tensor into lanes along one dimension.
// A lane is the n elements sharing every coordinate except dim; consecutive
// lane elements are inner apart in the flat buffer.
type axisView struct {
	outer, n, inner int
}

func newAxisView(shape tensor.Shape, dim int) axisView {
	outer, n, inner := shape.SplitAt(dim)
	return axisView{outer: outer, n: n, inner: inner}
}

func (v axisView) lanes() int {
	return v.outer * v.inner
}

// base returns the flat index of the first element of lane.
func (v axisView) base(lane int) int {
	o, j := lane/v.inner, lane%v.inner
	return o*v.n*v.inner + j
}

// contiguous reports whether lane elements are adjacent in memory.
func (v axisView) contiguous() bool {
	return v.inner == 1
}

// checkDim normalizes dim against ndim, panicking with the operation name.
func checkDim(op string, dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", op, dim, ndim))
	}
	return dim
}

// reducedShape returns shape with dim collapsed to 1 (keepDim) or removed.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		return shape.WithDim(dim, 1)
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, d := range shape {
		if i != dim {
			out = append(out, d)
		}
	}
	return out
}

// scalarAs converts a Go scalar to the element type T.
func scalarAs[T number](op string, scalar any) T {
	switch v := scalar.(type) {
	case float32:
		return T(v)
	case float64:
		return T(v)
	case int:
		return T(v)
	case int32:
		return T(v)
	case int64:
		return T(v)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, scalar))
	}
}

// broadcastStrides returns strides of in laid against out; broadcast and
// padded dimensions get stride 0.
func broadcastStrides(in, out tensor.Shape) []int {
	strides := make([]int, len(out))
	offset := len(out) - len(in)
	orig := in.ComputeStrides()
	for i := range out {
		j := i - offset
		if j >= 0 && in[j] != 1 {
			strides[i] = orig[j]
		}
	}
	return strides
}

// broadcastBinary applies f element-wise over a and b broadcast to outShape.
func broadcastBinary[T, R any](dst []R, a, b []T, aShape, bShape, outShape tensor.Shape, f func(x, y T) R) {
	if aShape.Equal(bShape) {
		for i := range dst {
			dst[i] = f(a[i], b[i])
		}
		return
	}

	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	ndim := len(outShape)
	coords := make([]int, ndim)
	ai, bi := 0, 0
	for i := range dst {
		dst[i] = f(a[ai], b[bi])
		for d := ndim - 1; d >= 0; d-- {
			coords[d]++
			ai += aStrides[d]
			bi += bStrides[d]
			if coords[d] < outShape[d] {
				break
			}
			ai -= aStrides[d] * outShape[d]
			bi -= bStrides[d] * outShape[d]
			coords[d] = 0
		}
	}
}

// mapUnary applies f to every element of src.
func mapUnary[T any](dst, src []T, f func(x T) T) {
	for i, v := range src {
		dst[i] = f(v)
	}
}
