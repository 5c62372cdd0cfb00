package sparse

import (
	"github.com/born-ml/pladis/internal/tensor"
)

// Func is a sparse transform applied along one dimension of its input.
type Func[T tensor.Float, B tensor.Backend] func(x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B]

// rowSolver computes the threshold and support size of every row of a
// [N, d] tensor, considering only the k largest entries per row when
// 0 < k < d. Both results have shape [N, 1].
type rowSolver[T tensor.Float, B tensor.Backend] func(rows *tensor.Tensor[T, B], k int) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B])

// candidates returns the entries of every row in descending order, or only
// the k largest when 0 < k < d.
func candidates[T tensor.Float, B tensor.Backend](rows *tensor.Tensor[T, B], k int) *tensor.Tensor[T, B] {
	if k <= 0 || k >= rows.Shape()[1] {
		return rows.Sort(-1, true)
	}
	return rows.TopK(k, -1)
}

// solve runs solveRow along dim of x. dim is moved to the last position and
// the leading axes are flattened into rows; results are restored to the shape
// of x with dim collapsed to 1.
func solve[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int, solveRow rowSolver[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	ndim := len(x.Shape())
	perm := tensor.MoveAxisLast(ndim, dim)
	moved := x
	if !tensor.IsIdentity(perm) {
		moved = x.Transpose(perm...)
	}

	movedShape := moved.Shape()
	d := movedShape[ndim-1]
	rows := moved.Reshape(moved.NumElements()/d, d)

	tau, support := solveRows(rows, k, solveRow)

	outShape := movedShape.WithDim(ndim-1, 1)
	tau = tau.Reshape(outShape...)
	support = support.Reshape(outShape...)
	if !tensor.IsIdentity(perm) {
		inv := tensor.InversePermutation(perm)
		tau = tau.Transpose(inv...)
		support = support.Transpose(inv...)
	}
	return tau, support
}

// solveRows solves every row with at most k candidates, then re-solves the
// rows whose support filled the whole window (support == k) with k doubled.
// The loop ends once no row is pending or k reaches the row length, where the
// solver sorts the full row.
func solveRows[T tensor.Float, B tensor.Backend](rows *tensor.Tensor[T, B], k int, solveRow rowSolver[T, B]) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	n, d := rows.Shape()[0], rows.Shape()[1]
	if k <= 0 || k >= d {
		return solveRow(rows, 0)
	}

	tau, support := solveRow(rows, k)

	// pending[i] is the row of rows whose result is at position i of lastSupport.
	pending := make([]int, n)
	for i := range pending {
		pending[i] = i
	}
	lastSupport := support

	for k < d {
		var unsolved []int
		for i, s := range lastSupport.Data() {
			if int(s) == k {
				unsolved = append(unsolved, pending[i])
			}
		}
		if len(unsolved) == 0 {
			break
		}

		k *= 2
		subTau, subSupport := solveRow(rows.IndexSelect(0, unsolved), k)
		tau = tau.IndexPut(0, unsolved, subTau)
		support = support.IndexPut(0, unsolved, subSupport)

		pending, lastSupport = unsolved, subSupport
	}

	return tau, support
}
