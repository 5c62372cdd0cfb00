package pladis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pladis/internal/backend/cpu"
	"github.com/born-ml/pladis/internal/nn"
	"github.com/born-ml/pladis/internal/sparse"
	"github.com/born-ml/pladis/internal/tensor"
)

type (
	backend = *cpu.CPUBackend
	f32     = tensor.Tensor[float32, backend]
)

// qkv returns random query, key and value tensors of shape [batch, seq, channels].
func qkv(seed int64, batch, seq, channels int) (q, k, v *f32) {
	rng := rand.New(rand.NewSource(seed))
	b := cpu.New()
	shape := tensor.Shape{batch, seq, channels}
	return tensor.RandnFrom[float32](shape, rng, b).MulScalar(2),
		tensor.RandnFrom[float32](shape, rng, b).MulScalar(2),
		tensor.RandnFrom[float32](shape, rng, b)
}

func TestWrapper_BlendIdentity(t *testing.T) {
	q, k, v := qkv(1, 2, 6, 12)
	extra := ExtraOptions{HeadsKey: 3}
	dense := nn.DenseAttention(q, k, v, 3, nn.PrecisionDefault)

	for _, name := range []string{Entmax15Name, SparsemaxName} {
		t.Run(name, func(t *testing.T) {
			sparseOut := nn.SparseAttention(q, k, v, 3, transform[float32, backend](ParseSparseFunc(name), 0))

			w0 := NewWrapper[float32, backend](0, name)
			assert.Equal(t, dense.Data(), w0.Attention(q, k, v, extra).Data())

			w1 := NewWrapper[float32, backend](1, name)
			assert.Equal(t, sparseOut.Data(), w1.Attention(q, k, v, extra).Data())
		})
	}
}

func TestWrapper_BlendFormula(t *testing.T) {
	q, k, v := qkv(2, 1, 5, 8)
	extra := ExtraOptions{HeadsKey: 2}
	dense := nn.DenseAttention(q, k, v, 2, nn.PrecisionDefault).Data()
	sparseOut := nn.SparseAttention(q, k, v, 2, sparse.Sparsemax[float32, backend]).Data()

	for _, scale := range []float64{-1, 0.25, 2, 5} {
		got := NewWrapper[float32, backend](scale, SparsemaxName).Attention(q, k, v, extra).Data()
		require.Len(t, got, len(dense))
		for i := range got {
			want := float64(dense[i]) + scale*(float64(sparseOut[i])-float64(dense[i]))
			assert.InDelta(t, want, float64(got[i]), 1e-4, "scale %v index %d", scale, i)
		}
	}
}

func TestWrapper_UnknownSelectorFallsBack(t *testing.T) {
	q, k, v := qkv(3, 2, 4, 6)
	extra := ExtraOptions{HeadsKey: 2}

	want := NewWrapper[float32, backend](2, Entmax15Name).Attention(q, k, v, extra)

	for _, name := range []string{"", "entmax", "softmax", "SPARSEMAX"} {
		w := NewWrapper[float32, backend](2, name)
		assert.Equal(t, Entmax15, w.SparseFunc(), "selector %q", name)
		assert.Equal(t, want.Data(), w.Attention(q, k, v, extra).Data(), "selector %q", name)
	}
}

func TestWrapper_SparsemaxDiffersFromEntmax(t *testing.T) {
	q, k, v := qkv(4, 1, 4, 4)
	extra := ExtraOptions{HeadsKey: 1}

	entmax := NewWrapper[float32, backend](1, Entmax15Name).Attention(q, k, v, extra)
	smax := NewWrapper[float32, backend](1, SparsemaxName)
	assert.Equal(t, Sparsemax, smax.SparseFunc())
	assert.NotEqual(t, entmax.Data(), smax.Attention(q, k, v, extra).Data())
}

func TestWrapper_TopKMatchesFullSort(t *testing.T) {
	q, k, v := qkv(5, 2, 7, 8)
	extra := ExtraOptions{HeadsKey: 2}

	for _, name := range []string{Entmax15Name, SparsemaxName} {
		want := NewWrapper[float32, backend](1.5, name).Attention(q, k, v, extra).Data()
		for _, topK := range []int{1, 2, 3, 7, 20} {
			w := NewWrapper(1.5, name, WithTopK[float32, backend](topK))
			assert.InDeltaSlice(t, want, w.Attention(q, k, v, extra).Data(), 1e-6, "%s k=%d", name, topK)
		}
	}
}

func TestWrapper_WithDense(t *testing.T) {
	q, k, v := qkv(6, 1, 3, 4)

	var gotHeads int
	var gotPrecision nn.Precision
	zeros := func(q, _, _ *f32, heads int, precision nn.Precision) *f32 {
		gotHeads, gotPrecision = heads, precision
		return tensor.Zeros[float32](q.Shape(), q.Backend())
	}

	w := NewWrapper(0.5, SparsemaxName, WithDense[float32, backend](zeros))
	out := w.Func()(q, k, v, ExtraOptions{HeadsKey: int64(2), PrecisionKey: "float16"})

	assert.Equal(t, 2, gotHeads)
	assert.Equal(t, nn.PrecisionFloat16, gotPrecision)

	half := nn.SparseAttention(q, k, v, 2, sparse.Sparsemax[float32, backend]).MulScalar(0.5)
	assert.Equal(t, half.Data(), out.Data())
	assert.Equal(t, 0.5, w.Scale())
}

func TestWrapper_MissingHeadsPanics(t *testing.T) {
	q, k, v := qkv(7, 1, 2, 4)
	w := NewWrapper[float32, backend](1, Entmax15Name)

	assert.PanicsWithValue(t, `pladis: extra options missing "n_heads"`, func() {
		w.Attention(q, k, v, ExtraOptions{})
	})
	assert.Panics(t, func() { w.Attention(q, k, v, ExtraOptions{HeadsKey: 3}) })
}

func TestParseSparseFunc(t *testing.T) {
	assert.Equal(t, Entmax15, ParseSparseFunc("entmax1.5"))
	assert.Equal(t, Sparsemax, ParseSparseFunc("sparsemax"))
	assert.Equal(t, Entmax15, ParseSparseFunc("entmax2"))
	assert.Equal(t, "entmax1.5", Entmax15.String())
	assert.Equal(t, "sparsemax", Sparsemax.String())
}

func TestExtraOptions(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 8, 8},
		{"int32", int32(4), 4},
		{"int64", int64(2), 2},
		{"uint", uint(3), 3},
		{"json number", float64(16), 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtraOptions{HeadsKey: tt.value}.Heads())
		})
	}

	assert.Panics(t, func() { ExtraOptions{HeadsKey: 2.5}.Heads() })
	assert.Panics(t, func() { ExtraOptions{HeadsKey: "8"}.Heads() })
	assert.Panics(t, func() { ExtraOptions{HeadsKey: 0}.Heads() })

	assert.Equal(t, nn.PrecisionDefault, ExtraOptions{}.Precision())
	assert.Equal(t, nn.PrecisionFloat32, ExtraOptions{PrecisionKey: "fp32"}.Precision())
	assert.Equal(t, nn.PrecisionFloat64, ExtraOptions{PrecisionKey: nn.PrecisionFloat64}.Precision())
	assert.Equal(t, nn.PrecisionDefault, ExtraOptions{PrecisionKey: 32}.Precision())
}
