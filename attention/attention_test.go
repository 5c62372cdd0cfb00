// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package attention_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pladis/attention"
	"github.com/born-ml/pladis/backend/cpu"
	"github.com/born-ml/pladis/tensor"
)

type backend = *cpu.Backend

func randomQKV(seed int64) (q, k, v *tensor.Tensor[float64, backend]) {
	b := cpu.New()
	rng := rand.New(rand.NewSource(seed))
	q = tensor.RandnFrom[float64](tensor.Shape{2, 5, 8}, rng, b)
	k = tensor.RandnFrom[float64](tensor.Shape{2, 7, 8}, rng, b)
	v = tensor.RandnFrom[float64](tensor.Shape{2, 7, 8}, rng, b)
	return q, k, v
}

func TestTransforms(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3, 0.5, 0.3, -1}, tensor.Shape{2, 3}, cpu.New())
	require.NoError(t, err)

	got := attention.Sparsemax(x, -1).Data()
	want := []float64{0, 0, 1, 0.6, 0.4, 0}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}

	y, err := tensor.FromSlice([]float64{1, 2, 3, 3, 0, -1}, tensor.Shape{2, 3}, cpu.New())
	require.NoError(t, err)

	entmax := attention.Entmax15(y, -1)
	assert.Equal(t, []int32{2, 1}, attention.SupportSize(entmax, -1).Data())
	assert.InDeltaSlice(t, entmax.Data(), attention.Entmax15TopK(y, -1, 1).Data(), 1e-12)

	rank := attention.RowRank(x, -1)
	assert.Equal(t, tensor.Shape{1, 3}, rank.Shape())
	assert.Equal(t, []float64{1, 2, 3}, rank.Data())
}

func TestWrapperMatchesPrimitives(t *testing.T) {
	q, k, v := randomQKV(3)
	extra := attention.ExtraOptions{attention.HeadsKey: 2}

	sparseOut := attention.Sparse(q, k, v, 2, attention.Sparsemax[float64, backend])
	dense := attention.Dense(q, k, v, 2, attention.PrecisionDefault)

	pure := attention.NewWrapper[float64, backend](1, attention.SparsemaxName)
	assert.Equal(t, sparseOut.Data(), pure.Attention(q, k, v, extra).Data())

	mixed := attention.NewWrapper[float64, backend](2, attention.SparsemaxName, attention.WithTopK[float64, backend](2))
	assert.Equal(t, attention.SelectSparsemax, mixed.SparseFunc())

	got := mixed.Func()(q, k, v, extra).Data()
	want := attention.Blend(dense, sparseOut, 2).Data()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := attention.DefaultConfig()
	cfg.SparseFunc = "unknown"

	w := attention.FromConfig[float64, backend](cfg)
	assert.Equal(t, attention.SelectEntmax15, w.SparseFunc())
	assert.Equal(t, 1.0, w.Scale())
	assert.Equal(t, attention.SelectEntmax15, attention.ParseSparseFunc("unknown"))
	assert.Equal(t, attention.PrecisionFloat16, attention.ParsePrecision("half"))
}
