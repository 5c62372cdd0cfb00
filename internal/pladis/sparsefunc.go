// Package pladis blends dense attention with sparse attention
// (PLADIS): out = dense + scale * (sparse - dense).
package pladis

import (
	"github.com/rs/zerolog/log"

	"github.com/born-ml/pladis/internal/sparse"
	"github.com/born-ml/pladis/internal/tensor"
)

// Names accepted by ParseSparseFunc.
const (
	Entmax15Name  = "entmax1.5"
	SparsemaxName = "sparsemax"
)

// SparseFunc selects the sparse transform applied to attention scores.
type SparseFunc int

const (
	// Entmax15 is 1.5-entmax, the default.
	Entmax15 SparseFunc = iota
	// Sparsemax is sparsemax.
	Sparsemax
)

// ParseSparseFunc resolves a sparse function name. Unknown names select
// Entmax15 and never fail.
func ParseSparseFunc(name string) SparseFunc {
	switch name {
	case Entmax15Name:
		return Entmax15
	case SparsemaxName:
		return Sparsemax
	default:
		log.Debug().Str("sparse_func", name).Msgf("unknown sparse function, using %s", Entmax15Name)
		return Entmax15
	}
}

// String returns the configuration name of f.
func (f SparseFunc) String() string {
	if f == Sparsemax {
		return SparsemaxName
	}
	return Entmax15Name
}

// transform returns the tensor function for f. With k > 0 the threshold
// search starts from the top-k scores of each row.
func transform[T tensor.Float, B tensor.Backend](f SparseFunc, k int) sparse.Func[T, B] {
	if f == Sparsemax {
		if k > 0 {
			return func(x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
				return sparse.SparsemaxTopK(x, dim, k)
			}
		}
		return sparse.Sparsemax[T, B]
	}

	if k > 0 {
		return func(x *tensor.Tensor[T, B], dim int) *tensor.Tensor[T, B] {
			return sparse.Entmax15TopK(x, dim, k)
		}
	}
	return sparse.Entmax15[T, B]
}
