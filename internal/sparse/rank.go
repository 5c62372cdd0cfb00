// Package sparse implements the sparse normalizing transforms used by PLADIS
// attention: entmax with alpha=1.5 and sparsemax.
//
// Both transforms map a row of scores to a probability-like vector that is
// exactly zero outside a per-row support. The support and the threshold
// separating it from the rest of the row are found by sorting the row (or
// taking its top-k candidates), accumulating running statistics and locating
// the rank where a monotone condition flips.
package sparse

import (
	"fmt"

	"github.com/born-ml/pladis/internal/tensor"
)

// RowRank returns the 1-based positions along dim of x, laid out to broadcast
// against x: the result has size d along dim and size 1 on every other axis,
// and holds 1, 2, ..., d.
//
// Example:
//
//	x: [2, 3, 4]
//	RowRank(x, 1) -> [1, 3, 1] holding 1, 2, 3
func RowRank[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
	shape := x.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))

	view := make(tensor.Shape, len(shape))
	for i := range view {
		view[i] = 1
	}
	view[dim] = shape[dim]

	ranks := make([]T, shape[dim])
	for i := range ranks {
		ranks[i] = T(i + 1)
	}

	rho, err := tensor.FromSlice(ranks, view, x.Backend())
	if err != nil {
		panic(fmt.Sprintf("rowrank: %v", err))
	}
	return rho
}

// SupportSize counts the strictly positive entries of w along dim, keeping
// dim with size 1. Applied to the output of a transform it gives the per-row
// support size.
func SupportSize[T tensor.Float, B tensor.Backend](w *tensor.Tensor[T, B], dim int) *tensor.Tensor[int32, B] {
	zero := tensor.Zeros[T](tensor.Shape{1}, w.Backend())
	return tensor.Cast[int32](w.Greater(zero)).SumDim(dim, true)
}
