// Package nn provides the attention primitives PLADIS composes: multi-head
// layout helpers, dense softmax attention and sparse attention.
package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/pladis/internal/sparse"
	"github.com/born-ml/pladis/internal/tensor"
)

// DenseFunc is a dense attention primitive: Q, K and V in
// [batch, seq, heads*head_dim] layout to an output of the same layout as Q.
type DenseFunc[T tensor.Float, B tensor.Backend] func(q, k, v *tensor.Tensor[T, B], heads int, precision Precision) *tensor.Tensor[T, B]

// DenseAttention computes multi-head softmax attention:
//
//	Attention(Q, K, V) = softmax(QK^T / sqrt(head_dim)) * V
//
// per head, on inputs in [batch, seq, heads*head_dim] layout. K and V share
// their sequence length, which may differ from the query length.
//
// The precision hint selects the compute dtype: PrecisionFloat32 and
// PrecisionFloat64 cast the inputs and cast the result back to T,
// PrecisionFloat16 rounds the inputs to half precision first. The hint is
// parsed with ParsePrecision, so unknown hints compute in T.
//
// Example:
//
//	q := tensor.Randn[float32](tensor.Shape{2, 16, 64}, backend)
//	out := nn.DenseAttention(q, q, q, 8, nn.PrecisionDefault) // [2, 16, 64]
func DenseAttention[T tensor.Float, B tensor.Backend](
	q, k, v *tensor.Tensor[T, B],
	heads int,
	precision Precision,
) *tensor.Tensor[T, B] {
	validateAttentionInputs("DenseAttention", q, k, v, heads)

	switch ParsePrecision(string(precision)) {
	case PrecisionFloat64:
		if q.DType() != tensor.Float64 {
			out := softmaxAttention(tensor.Cast[float64](q), tensor.Cast[float64](k), tensor.Cast[float64](v), heads)
			return tensor.Cast[T](out)
		}
	case PrecisionFloat32:
		if q.DType() != tensor.Float32 {
			out := softmaxAttention(tensor.Cast[float32](q), tensor.Cast[float32](k), tensor.Cast[float32](v), heads)
			return tensor.Cast[T](out)
		}
	case PrecisionFloat16:
		q, k, v = roundHalf(q), roundHalf(k), roundHalf(v)
	}

	return softmaxAttention(q, k, v, heads)
}

// SparseAttention is DenseAttention with fn in place of softmax: the
// scaled similarities of every head are normalized by fn over the keys and
// the resulting weights multiply V.
//
// Example:
//
//	out := nn.SparseAttention(q, k, v, 8, sparse.Entmax15[float32, *cpu.CPUBackend])
func SparseAttention[T tensor.Float, B tensor.Backend](
	q, k, v *tensor.Tensor[T, B],
	heads int,
	fn sparse.Func[T, B],
) *tensor.Tensor[T, B] {
	validateAttentionInputs("SparseAttention", q, k, v, heads)

	weights := SparseWeights(q, k, heads, fn)
	return MergeHeads(weights.BatchMatMul(SplitHeads(v, heads)), heads)
}

// SparseWeights returns the attention weights SparseAttention applies to V,
// shaped [batch*heads, seq_q, seq_k].
func SparseWeights[T tensor.Float, B tensor.Backend](
	q, k *tensor.Tensor[T, B],
	heads int,
	fn sparse.Func[T, B],
) *tensor.Tensor[T, B] {
	return fn(scores(q, k, heads), -1)
}

func softmaxAttention[T tensor.Float, B tensor.Backend](q, k, v *tensor.Tensor[T, B], heads int) *tensor.Tensor[T, B] {
	weights := scores(q, k, heads).Softmax(-1)
	return MergeHeads(weights.BatchMatMul(SplitHeads(v, heads)), heads)
}

// scores computes QK^T / sqrt(head_dim) per head: [batch*heads, seq_q, seq_k].
func scores[T tensor.Float, B tensor.Backend](q, k *tensor.Tensor[T, B], heads int) *tensor.Tensor[T, B] {
	qh := SplitHeads(q, heads)
	kh := SplitHeads(k, heads)

	headDim := qh.Shape()[2]
	scale := T(math.Pow(float64(headDim), -0.5))

	return qh.BatchMatMul(kh.Transpose(0, 2, 1)).MulScalar(scale)
}

// validateAttentionInputs validates the input tensors for attention.
func validateAttentionInputs[T tensor.Float, B tensor.Backend](
	op string,
	q, k, v *tensor.Tensor[T, B],
	heads int,
) {
	qs, ks, vs := q.Shape(), k.Shape(), v.Shape()
	if len(qs) != 3 || len(ks) != 3 || len(vs) != 3 {
		panic(fmt.Sprintf("%s: query, key and value must be 3D [batch, seq, channels], got %v, %v, %v", op, qs, ks, vs))
	}
	if qs[0] != ks[0] || ks[0] != vs[0] {
		panic(fmt.Sprintf("%s: batch size mismatch: %d, %d, %d", op, qs[0], ks[0], vs[0]))
	}

	// Q and K must have same channels
	if qs[2] != ks[2] {
		panic(fmt.Sprintf("%s: query and key channels differ: %d vs %d", op, qs[2], ks[2]))
	}

	// K and V must have same seq length
	if ks[1] != vs[1] {
		panic(fmt.Sprintf("%s: key and value must have same seq length: %d vs %d", op, ks[1], vs[1]))
	}

	if heads <= 0 || qs[2]%heads != 0 || vs[2]%heads != 0 {
		panic(fmt.Sprintf("%s: %d heads must divide query channels %d and value channels %d", op, heads, qs[2], vs[2]))
	}
}
