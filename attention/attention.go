// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package attention

import (
	"github.com/born-ml/pladis/internal/nn"
	"github.com/born-ml/pladis/internal/pladis"
	"github.com/born-ml/pladis/internal/sparse"
	"github.com/born-ml/pladis/tensor"
)

// Sparse transforms

// Func is a sparse transform applied along one dimension of its input.
type Func[T tensor.Float, B tensor.Backend] = sparse.Func[T, B]

// Entmax15 applies 1.5-entmax along dim.
//
// Example:
//
//	w := attention.Entmax15(scores, -1)
func Entmax15[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
	return sparse.Entmax15(x, dim)
}

// Entmax15TopK is Entmax15 searching each row's threshold among its k
// largest entries first. The result does not depend on k.
func Entmax15TopK[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) *tensor.Tensor[T, B] {
	return sparse.Entmax15TopK(x, dim, k)
}

// Sparsemax applies sparsemax along dim. Output rows sum to 1.
//
// Example:
//
//	w := attention.Sparsemax(scores, -1)
func Sparsemax[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
	return sparse.Sparsemax(x, dim)
}

// SparsemaxTopK is Sparsemax with a top-k candidate window.
func SparsemaxTopK[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) *tensor.Tensor[T, B] {
	return sparse.SparsemaxTopK(x, dim, k)
}

// EntmaxThresholdAndSupport returns the 1.5-entmax threshold and support size
// of x along dim, with dim collapsed to 1.
func EntmaxThresholdAndSupport[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	return sparse.EntmaxThresholdAndSupport(x, dim, k)
}

// SparsemaxThresholdAndSupport returns the sparsemax threshold and support
// size of x along dim, with dim collapsed to 1.
func SparsemaxThresholdAndSupport[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim, k int) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B]) {
	return sparse.SparsemaxThresholdAndSupport(x, dim, k)
}

// RowRank returns 1..d along dim of x, broadcastable against x.
func RowRank[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
	return sparse.RowRank(x, dim)
}

// SupportSize counts the positive entries of w along dim.
func SupportSize[T tensor.Float, B tensor.Backend](w *tensor.Tensor[T, B], dim int) *tensor.Tensor[int32, B] {
	return sparse.SupportSize(w, dim)
}

// Attention primitives

// Precision is a hint for the numeric precision of dense attention.
type Precision = nn.Precision

// Precision hints.
const (
	PrecisionDefault = nn.PrecisionDefault
	PrecisionFloat16 = nn.PrecisionFloat16
	PrecisionFloat32 = nn.PrecisionFloat32
	PrecisionFloat64 = nn.PrecisionFloat64
)

// ParsePrecision maps a precision name to a hint; unknown names are PrecisionDefault.
func ParsePrecision(s string) Precision {
	return nn.ParsePrecision(s)
}

// DenseFunc is a dense attention primitive.
type DenseFunc[T tensor.Float, B tensor.Backend] = nn.DenseFunc[T, B]

// Dense computes multi-head softmax attention on [batch, seq, heads*head_dim] inputs.
//
// Example:
//
//	out := attention.Dense(q, k, v, 8, attention.PrecisionDefault)
func Dense[T tensor.Float, B tensor.Backend](q, k, v *tensor.Tensor[T, B], heads int, precision Precision) *tensor.Tensor[T, B] {
	return nn.DenseAttention(q, k, v, heads, precision)
}

// Sparse computes multi-head attention with fn in place of softmax.
//
// Example:
//
//	out := attention.Sparse(q, k, v, 8, attention.Sparsemax[float32, *cpu.Backend])
func Sparse[T tensor.Float, B tensor.Backend](q, k, v *tensor.Tensor[T, B], heads int, fn Func[T, B]) *tensor.Tensor[T, B] {
	return nn.SparseAttention(q, k, v, heads, fn)
}

// SparseWeights returns the [batch*heads, seq_q, seq_k] weights Sparse applies to V.
func SparseWeights[T tensor.Float, B tensor.Backend](q, k *tensor.Tensor[T, B], heads int, fn Func[T, B]) *tensor.Tensor[T, B] {
	return nn.SparseWeights(q, k, heads, fn)
}

// PLADIS wrapper

// SparseFunc selects the sparse transform of a Wrapper.
type SparseFunc = pladis.SparseFunc

// Sparse function selectors and their configuration names.
const (
	SelectEntmax15  = pladis.Entmax15
	SelectSparsemax = pladis.Sparsemax

	Entmax15Name  = pladis.Entmax15Name
	SparsemaxName = pladis.SparsemaxName
)

// ParseSparseFunc resolves a sparse function name; unknown names select entmax1.5.
func ParseSparseFunc(name string) SparseFunc {
	return pladis.ParseSparseFunc(name)
}

// ExtraOptions carries per-call settings ("n_heads", "attn_precision").
type ExtraOptions = pladis.ExtraOptions

// Extra option keys.
const (
	HeadsKey     = pladis.HeadsKey
	PrecisionKey = pladis.PrecisionKey
)

// AttentionFunc is the call signature host attention dispatchers invoke.
type AttentionFunc[T tensor.Float, B tensor.Backend] = pladis.AttentionFunc[T, B]

// Wrapper blends dense and sparse attention: dense + scale*(sparse - dense).
type Wrapper[T tensor.Float, B tensor.Backend] = pladis.Wrapper[T, B]

// Option configures a Wrapper.
type Option[T tensor.Float, B tensor.Backend] = pladis.Option[T, B]

// NewWrapper creates a Wrapper with a fixed blend scale and sparse function name.
//
// Example:
//
//	w := attention.NewWrapper[float32, *cpu.Backend](2.0, attention.SparsemaxName)
//	out := w.Attention(q, k, v, attention.ExtraOptions{attention.HeadsKey: 8})
func NewWrapper[T tensor.Float, B tensor.Backend](scale float64, selector string, opts ...Option[T, B]) *Wrapper[T, B] {
	return pladis.NewWrapper(scale, selector, opts...)
}

// WithDense replaces the dense attention primitive of a Wrapper.
func WithDense[T tensor.Float, B tensor.Backend](dense DenseFunc[T, B]) Option[T, B] {
	return pladis.WithDense(dense)
}

// WithTopK sets the top-k candidate window of a Wrapper's sparse transform.
func WithTopK[T tensor.Float, B tensor.Backend](k int) Option[T, B] {
	return pladis.WithTopK[T, B](k)
}

// Blend returns dense + scale*(sparseOut - dense).
func Blend[T tensor.Float, B tensor.Backend](dense, sparseOut *tensor.Tensor[T, B], scale float64) *tensor.Tensor[T, B] {
	return pladis.Blend(dense, sparseOut, scale)
}

// Config is the YAML form of a wrapper configuration.
type Config = pladis.Config

// DefaultConfig returns pure entmax1.5 sparse attention.
func DefaultConfig() Config {
	return pladis.DefaultConfig()
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	return pladis.LoadConfig(path)
}

// FromConfig creates a Wrapper from cfg.
func FromConfig[T tensor.Float, B tensor.Backend](cfg Config, opts ...Option[T, B]) *Wrapper[T, B] {
	return pladis.FromConfig(cfg, opts...)
}
