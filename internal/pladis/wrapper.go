package pladis

import (
	"github.com/born-ml/pladis/internal/nn"
	"github.com/born-ml/pladis/internal/sparse"
	"github.com/born-ml/pladis/internal/tensor"
)

// AttentionFunc is the call signature host attention dispatchers invoke.
type AttentionFunc[T tensor.Float, B tensor.Backend] func(q, k, v *tensor.Tensor[T, B], extra ExtraOptions) *tensor.Tensor[T, B]

// Wrapper computes PLADIS attention with a fixed scale and sparse function.
// It holds no per-call state and is safe for concurrent use.
type Wrapper[T tensor.Float, B tensor.Backend] struct {
	scale      float64
	sparseFunc SparseFunc
	topK       int
	dense      nn.DenseFunc[T, B]
	transform  sparse.Func[T, B]
}

// Option configures a Wrapper.
type Option[T tensor.Float, B tensor.Backend] func(*Wrapper[T, B])

// WithDense replaces the dense attention primitive (nn.DenseAttention by default).
func WithDense[T tensor.Float, B tensor.Backend](dense nn.DenseFunc[T, B]) Option[T, B] {
	return func(w *Wrapper[T, B]) {
		w.dense = dense
	}
}

// WithTopK makes the sparse transform search each row's threshold among its
// k largest scores first. The output is the same for every k; k <= 0
// disables the window.
func WithTopK[T tensor.Float, B tensor.Backend](k int) Option[T, B] {
	return func(w *Wrapper[T, B]) {
		w.topK = k
	}
}

// NewWrapper creates a Wrapper blending with the given scale. selector is a
// sparse function name (Entmax15Name or SparsemaxName); unknown names
// select entmax1.5.
//
// Example:
//
//	w := pladis.NewWrapper[float32, *cpu.CPUBackend](2.0, pladis.SparsemaxName)
//	out := w.Attention(q, k, v, pladis.ExtraOptions{pladis.HeadsKey: 8})
func NewWrapper[T tensor.Float, B tensor.Backend](scale float64, selector string, opts ...Option[T, B]) *Wrapper[T, B] {
	w := &Wrapper[T, B]{
		scale:      scale,
		sparseFunc: ParseSparseFunc(selector),
		dense:      nn.DenseAttention[T, B],
	}
	for _, opt := range opts {
		opt(w)
	}
	w.transform = transform[T, B](w.sparseFunc, w.topK)
	return w
}

// Scale returns the blend scale.
func (w *Wrapper[T, B]) Scale() float64 {
	return w.scale
}

// SparseFunc returns the resolved sparse function.
func (w *Wrapper[T, B]) SparseFunc() SparseFunc {
	return w.sparseFunc
}

// Transform returns the sparse transform applied to attention scores.
func (w *Wrapper[T, B]) Transform() sparse.Func[T, B] {
	return w.transform
}

// Attention runs dense and sparse attention on the same inputs and blends
// them. q, k and v are [batch, seq, heads*head_dim]; the head count and the
// optional precision hint come from extra. The precision hint only reaches
// the dense primitive.
func (w *Wrapper[T, B]) Attention(q, k, v *tensor.Tensor[T, B], extra ExtraOptions) *tensor.Tensor[T, B] {
	heads := extra.Heads()

	denseOut := w.dense(q, k, v, heads, extra.Precision())
	sparseOut := nn.SparseAttention(q, k, v, heads, w.transform)

	return Blend(denseOut, sparseOut, w.scale)
}

// Func returns Attention as an AttentionFunc.
func (w *Wrapper[T, B]) Func() AttentionFunc[T, B] {
	return w.Attention
}

// Blend returns dense + scale*(sparseOut - dense), evaluated as
// dense*(1-scale) + sparseOut*scale so that scale 0 returns dense and
// scale 1 returns sparseOut exactly.
func Blend[T tensor.Float, B tensor.Backend](dense, sparseOut *tensor.Tensor[T, B], scale float64) *tensor.Tensor[T, B] {
	return dense.MulScalar(T(1 - scale)).Add(sparseOut.MulScalar(T(scale)))
}
