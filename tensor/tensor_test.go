// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pladis/backend/cpu"
	"github.com/born-ml/pladis/tensor"
)

// TestBackendInterface verifies that cpu.Backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
}

// TestRawTensorAPI verifies RawTensor type alias exposes expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 3}, raw.Shape())
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 6*4, raw.ByteSize())

	clone := raw.Clone()
	clone.AsFloat32()[0] = 1
	assert.Equal(t, float32(0), raw.AsFloat32()[0])

	_, err = tensor.NewRaw(tensor.Shape{2, 0}, tensor.Float32, tensor.CPU)
	assert.Error(t, err)
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, float32(6), x.At(1, 2))

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{2, 3}, backend)
	assert.Error(t, err)

	full := tensor.Full[float64](tensor.Shape{4}, 2.5, backend)
	assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, full.Data())

	a := tensor.RandnFrom[float64](tensor.Shape{3, 5}, rand.New(rand.NewSource(7)), backend)
	b := tensor.RandnFrom[float64](tensor.Shape{3, 5}, rand.New(rand.NewSource(7)), backend)
	assert.Equal(t, a.Data(), b.Data())
}

func TestTensorOps(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{3, 1, 2, 6, 4, 5}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{3, 2, 1, 6, 5, 4}, x.Sort(-1, true).Data())
	assert.Equal(t, []float32{3, 2, 6, 5}, x.TopK(2, -1).Data())
	assert.Equal(t, []float32{3, 4, 6, 6, 10, 15}, x.Cumsum(-1).Data())
	assert.Equal(t, []float32{3, 6}, x.MaxDim(-1, true).Data())
	assert.Equal(t, []float32{0, 0, 0, 3, 1, 2}, x.SubScalar(3).ClampMin(0).Data())

	mask := x.Greater(tensor.Full[float32](tensor.Shape{1}, 2.5, backend))
	counts := tensor.Cast[int32](mask).SumDim(-1, true)
	assert.Equal(t, []int32{1, 3}, counts.Data())

	idx, err := tensor.FromSlice([]int32{1, 0}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 6}, x.Gather(-1, idx).Data())

	rows := x.IndexSelect(0, []int{1})
	assert.Equal(t, []float32{6, 4, 5}, rows.Data())
	assert.Equal(t, []float32{6, 4, 5, 6, 4, 5}, x.IndexPut(0, []int{0}, rows).Data())
}

func TestAxisPermutation(t *testing.T) {
	for ndim := 1; ndim <= 4; ndim++ {
		for dim := -ndim; dim < ndim; dim++ {
			perm := tensor.MoveAxisLast(ndim, dim)
			want := dim
			if want < 0 {
				want += ndim
			}
			assert.Equal(t, want, perm[ndim-1])

			inv := tensor.InversePermutation(perm)
			for i := range perm {
				assert.Equal(t, i, perm[inv[i]])
			}
		}
	}

	backend := cpu.New()
	x := tensor.RandnFrom[float64](tensor.Shape{2, 3, 4, 5}, rand.New(rand.NewSource(1)), backend)
	perm := tensor.MoveAxisLast(4, 1)
	assert.Equal(t, []int{0, 2, 3, 1}, perm)

	moved := x.Transpose(perm...)
	assert.Equal(t, tensor.Shape{2, 4, 5, 3}, moved.Shape())
	assert.Equal(t, x.Data(), moved.Transpose(tensor.InversePermutation(perm)...).Data())
}
