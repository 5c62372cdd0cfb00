package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pladis/internal/backend/cpu"
	"github.com/born-ml/pladis/internal/sparse"
	"github.com/born-ml/pladis/internal/tensor"
)

type f64 = tensor.Tensor[float64, *cpu.CPUBackend]

func randn(seed int64, shape ...int) *f64 {
	rng := rand.New(rand.NewSource(seed))
	return tensor.RandnFrom[float64](tensor.Shape(shape), rng, cpu.New())
}

// referenceAttention computes softmax attention with plain loops over
// [batch, seq, heads*head_dim] buffers.
func referenceAttention(q, k, v []float64, batch, seqQ, seqK, heads, headDim int) []float64 {
	channels := heads * headDim
	out := make([]float64, batch*seqQ*channels)
	scale := 1 / math.Sqrt(float64(headDim))

	for b := 0; b < batch; b++ {
		for h := 0; h < heads; h++ {
			for i := 0; i < seqQ; i++ {
				scores := make([]float64, seqK)
				maxScore := math.Inf(-1)
				for j := 0; j < seqK; j++ {
					for d := 0; d < headDim; d++ {
						qIdx := (b*seqQ+i)*channels + h*headDim + d
						kIdx := (b*seqK+j)*channels + h*headDim + d
						scores[j] += q[qIdx] * k[kIdx]
					}
					scores[j] *= scale
					maxScore = math.Max(maxScore, scores[j])
				}

				var sum float64
				for j := range scores {
					scores[j] = math.Exp(scores[j] - maxScore)
					sum += scores[j]
				}

				for j := range scores {
					w := scores[j] / sum
					for d := 0; d < headDim; d++ {
						oIdx := (b*seqQ+i)*channels + h*headDim + d
						vIdx := (b*seqK+j)*channels + h*headDim + d
						out[oIdx] += w * v[vIdx]
					}
				}
			}
		}
	}

	return out
}

func TestSplitMergeHeads(t *testing.T) {
	x := randn(1, 2, 5, 12)

	h := SplitHeads(x, 3)
	assert.Equal(t, tensor.Shape{6, 5, 4}, h.Shape())

	// Head 1 of batch 0 holds channels 4..7 of every position.
	assert.Equal(t, x.At(0, 2, 5), h.At(1, 2, 1))
	assert.Equal(t, x.At(1, 4, 11), h.At(5, 4, 3))

	assert.Equal(t, x.Data(), MergeHeads(h, 3).Data())
}

func TestSplitHeads_Invalid(t *testing.T) {
	x := randn(1, 2, 5, 12)
	assert.Panics(t, func() { SplitHeads(x, 5) })
	assert.Panics(t, func() { SplitHeads(x, 0) })
	assert.Panics(t, func() { SplitHeads(x.Reshape(10, 12), 3) })
}

func TestDenseAttention_MatchesReference(t *testing.T) {
	const batch, seqQ, seqK, heads, headDim = 2, 4, 6, 3, 5
	q := randn(2, batch, seqQ, heads*headDim)
	k := randn(3, batch, seqK, heads*headDim)
	v := randn(4, batch, seqK, heads*headDim)

	out := DenseAttention(q, k, v, heads, PrecisionDefault)
	assert.Equal(t, tensor.Shape{batch, seqQ, heads * headDim}, out.Shape())

	want := referenceAttention(q.Data(), k.Data(), v.Data(), batch, seqQ, seqK, heads, headDim)
	assert.InDeltaSlice(t, want, out.Data(), 1e-12)
}

func TestDenseAttention_Precision(t *testing.T) {
	q64 := randn(5, 1, 3, 8)
	k64 := randn(6, 1, 4, 8)
	v64 := randn(7, 1, 4, 8)
	q, k, v := tensor.Cast[float32](q64), tensor.Cast[float32](k64), tensor.Cast[float32](v64)

	base := DenseAttention(q, k, v, 2, PrecisionDefault)

	t.Run("Unknown", func(t *testing.T) {
		got := DenseAttention(q, k, v, 2, Precision("bfloat7"))
		assert.Equal(t, base.Data(), got.Data())
	})

	t.Run("Float32", func(t *testing.T) {
		got := DenseAttention(q, k, v, 2, PrecisionFloat32)
		assert.Equal(t, base.Data(), got.Data())
	})

	t.Run("Float64", func(t *testing.T) {
		got := DenseAttention(q, k, v, 2, Precision("float64"))
		require.Equal(t, tensor.Float32, got.DType())
		assert.InDeltaSlice(t, base.Data(), got.Data(), 1e-5)
	})

	t.Run("Float64FromFloat64Inputs", func(t *testing.T) {
		got := DenseAttention(q64, k64, v64, 2, PrecisionFloat64)
		assert.Equal(t, DenseAttention(q64, k64, v64, 2, PrecisionDefault).Data(), got.Data())
	})

	t.Run("Float16", func(t *testing.T) {
		got := DenseAttention(q, k, v, 2, PrecisionFloat16)
		require.Equal(t, tensor.Float32, got.DType())
		assert.InDeltaSlice(t, base.Data(), got.Data(), 5e-2)
		assert.NotEqual(t, base.Data(), got.Data())
	})
}

func TestParsePrecision(t *testing.T) {
	tests := []struct {
		in   string
		want Precision
	}{
		{"", PrecisionDefault},
		{"fp32", PrecisionFloat32},
		{"Float32", PrecisionFloat32},
		{" fp16 ", PrecisionFloat16},
		{"half", PrecisionFloat16},
		{"float64", PrecisionFloat64},
		{"int8", PrecisionDefault},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePrecision(tt.in), "input %q", tt.in)
	}
	assert.Equal(t, "default", PrecisionDefault.String())
	assert.Equal(t, "fp16", PrecisionFloat16.String())
}

func TestSparseAttention_Shape(t *testing.T) {
	tests := []struct {
		name                              string
		batch, seqQ, seqK, heads, headDim int
	}{
		{"single", 1, 1, 1, 1, 1},
		{"self", 2, 5, 5, 3, 4},
		{"cross", 3, 4, 7, 2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.heads * tt.headDim
			q := randn(8, tt.batch, tt.seqQ, c)
			k := randn(9, tt.batch, tt.seqK, c)
			v := randn(10, tt.batch, tt.seqK, c)

			for _, fn := range []sparse.Func[float64, *cpu.CPUBackend]{
				sparse.Entmax15[float64, *cpu.CPUBackend],
				sparse.Sparsemax[float64, *cpu.CPUBackend],
			} {
				out := SparseAttention(q, k, v, tt.heads, fn)
				assert.Equal(t, q.Shape(), out.Shape())
			}
		})
	}
}

func TestSparseWeights_Sparsemax(t *testing.T) {
	q := randn(11, 2, 6, 8).MulScalar(4)
	k := randn(12, 2, 9, 8).MulScalar(4)

	w := SparseWeights(q, k, 2, sparse.Sparsemax[float64, *cpu.CPUBackend])
	require.Equal(t, tensor.Shape{4, 6, 9}, w.Shape())

	data := w.Data()
	for row := 0; row < 4*6; row++ {
		var sum float64
		for _, x := range data[row*9 : (row+1)*9] {
			assert.GreaterOrEqual(t, x, 0.0)
			sum += x
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}

	// Peaked scores leave some keys with exactly zero weight.
	assert.Contains(t, data, 0.0)
}

func TestSparseAttention_OneHotWeightsSelectValues(t *testing.T) {
	// One head, head_dim 1: scores q*k/1. The largest key dominates enough
	// for sparsemax to put all weight on it.
	q, err := tensor.FromSlice([]float64{10}, tensor.Shape{1, 1, 1}, cpu.New())
	require.NoError(t, err)
	k, err := tensor.FromSlice([]float64{0, 1, 0.2}, tensor.Shape{1, 3, 1}, cpu.New())
	require.NoError(t, err)
	v, err := tensor.FromSlice([]float64{7, 8, 9}, tensor.Shape{1, 3, 1}, cpu.New())
	require.NoError(t, err)

	out := SparseAttention(q, k, v, 1, sparse.Sparsemax[float64, *cpu.CPUBackend])
	assert.Equal(t, []float64{8}, out.Data())
}

func TestSparseAttention_InvalidInputs(t *testing.T) {
	q := randn(1, 2, 4, 6)
	fn := sparse.Entmax15[float64, *cpu.CPUBackend]

	assert.Panics(t, func() { SparseAttention(q, q, q, 4, fn) }, "heads must divide channels")
	assert.Panics(t, func() { SparseAttention(q, randn(2, 2, 4, 8), q, 2, fn) }, "key channels")
	assert.Panics(t, func() { SparseAttention(q, q, randn(3, 2, 5, 6), 2, fn) }, "value seq length")
	assert.Panics(t, func() { SparseAttention(q, q, randn(3, 1, 4, 6), 2, fn) }, "batch")
	assert.Panics(t, func() { DenseAttention(q.Reshape(8, 6), q, q, 2, PrecisionDefault) }, "rank")
}
