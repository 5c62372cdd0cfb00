package sparse

import (
	"github.com/born-ml/pladis/internal/tensor"
)

// Sparsemax applies sparsemax along dim: the Euclidean projection of every
// row onto the probability simplex. Output rows are nonnegative and sum to 1.
func Sparsemax[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
	return SparsemaxTopK(x, dim, 0)
}

// SparsemaxTopK is Sparsemax with a top-k candidate window; see
// Entmax15TopK.
func SparsemaxTopK[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) *tensor.Tensor[T, B] {
	dim = tensor.NormalizeDim(dim, len(x.Shape()))

	z := x.Sub(x.MaxDim(dim, true))
	tau, _ := solve(z, dim, k, sparsemaxRows[T, B])

	return z.Sub(tau).ClampMin(0)
}

// SparsemaxThresholdAndSupport returns the sparsemax threshold and support
// size of x along dim, without shifting x first.
func SparsemaxThresholdAndSupport[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	return solve(x, dim, k, sparsemaxRows[T, B])
}

// sparsemaxRows solves rows of [N, d]: the support is the number of ranks r
// with r*srt_r > cumsum_r - 1, and the threshold is (cumsum - 1) at the last
// such rank divided by the support size.
func sparsemaxRows[T tensor.Float, B tensor.Backend](rows *tensor.Tensor[T, B], k int) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	srt := candidates(rows, k)
	rho := RowRank(srt, -1)

	cumsum := srt.Cumsum(-1).SubScalar(1)
	support := tensor.Cast[int32](rho.Mul(srt).Greater(cumsum)).SumDim(-1, true)

	tau := cumsum.Gather(-1, support.SubScalar(1)).Div(tensor.Cast[T](support))
	return tau, support
}
