package sparse

import (
	"github.com/born-ml/pladis/internal/tensor"
)

// Entmax15 applies 1.5-entmax along dim.
//
// Every row is shifted by its maximum and halved, then mapped to
// max(z - tau*, 0)^2 where tau* is the row threshold. Entries at or below the
// threshold are exactly zero.
func Entmax15[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
	return Entmax15TopK(x, dim, 0)
}

// Entmax15TopK is Entmax15 that searches the threshold among the k largest
// entries of each row first, widening the window for rows whose support
// does not fit. The result equals Entmax15 for every k; k <= 0 sorts the
// full rows.
func Entmax15TopK[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) *tensor.Tensor[T, B] {
	dim = tensor.NormalizeDim(dim, len(x.Shape()))

	z := x.Sub(x.MaxDim(dim, true)).DivScalar(2)
	tau, _ := solve(z, dim, k, entmaxRows[T, B])

	p := z.Sub(tau).ClampMin(0)
	return p.Mul(p)
}

// EntmaxThresholdAndSupport returns the 1.5-entmax threshold and support
// size of x along dim. x is used as given: Entmax15 shifts and halves its
// input before solving. Both results have the shape of x with dim collapsed
// to 1.
func EntmaxThresholdAndSupport[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	return solve(x, dim, k, entmaxRows[T, B])
}

// entmaxRows solves rows of [N, d].
//
// With srt the sorted candidates and rho their ranks, the threshold candidate
// at rank r is mean_r - sqrt(max((1 - ss_r) / r, 0)), where mean_r and ss_r
// are the mean and the sum of squared deviations of the r largest entries.
// The support is the number of ranks whose candidate does not exceed the
// entry at that rank.
func entmaxRows[T tensor.Float, B tensor.Backend](rows *tensor.Tensor[T, B], k int) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	srt := candidates(rows, k)
	rho := RowRank(srt, -1)

	mean := srt.Cumsum(-1).Div(rho)
	meanSq := srt.Mul(srt).Cumsum(-1).Div(rho)
	ss := rho.Mul(meanSq.Sub(mean.Mul(mean)))
	delta := ss.MulScalar(-1).AddScalar(1).Div(rho).ClampMin(0)
	tau := mean.Sub(delta.Sqrt())

	support := tensor.Cast[int32](tau.LowerEqual(srt)).SumDim(-1, true)
	return tau.Gather(-1, support.SubScalar(1)), support
}
