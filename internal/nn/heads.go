package nn

import (
	"fmt"

	"github.com/born-ml/pladis/internal/tensor"
)

// SplitHeads reshapes [batch, seq, heads*head_dim] to
// [batch*heads, seq, head_dim], grouping each head's channels into its own
// batch entry.
//
// Example:
//
//	x := tensor.Randn[float32](tensor.Shape{2, 10, 64}, backend)
//	h := nn.SplitHeads(x, 8) // [16, 10, 8]
func SplitHeads[T tensor.DType, B tensor.Backend](x *tensor.Tensor[T, B], heads int) *tensor.Tensor[T, B] {
	shape := x.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("SplitHeads: input must be 3D [batch, seq, channels], got %v", shape))
	}
	if heads <= 0 || shape[2]%heads != 0 {
		panic(fmt.Sprintf("SplitHeads: %d channels not divisible into %d heads", shape[2], heads))
	}

	batch, seq, headDim := shape[0], shape[1], shape[2]/heads
	return x.Reshape(batch, seq, heads, headDim).
		Transpose(0, 2, 1, 3).
		Reshape(batch*heads, seq, headDim)
}

// MergeHeads is the inverse of SplitHeads: [batch*heads, seq, head_dim] to
// [batch, seq, heads*head_dim].
func MergeHeads[T tensor.DType, B tensor.Backend](x *tensor.Tensor[T, B], heads int) *tensor.Tensor[T, B] {
	shape := x.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("MergeHeads: input must be 3D [batch*heads, seq, head_dim], got %v", shape))
	}
	if heads <= 0 || shape[0]%heads != 0 {
		panic(fmt.Sprintf("MergeHeads: leading dimension %d not divisible by %d heads", shape[0], heads))
	}

	batch, seq, headDim := shape[0]/heads, shape[1], shape[2]
	return x.Reshape(batch, heads, seq, headDim).
		Transpose(0, 2, 1, 3).
		Reshape(batch, seq, heads*headDim)
}
