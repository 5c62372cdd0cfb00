package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Full[float32](Shape{3, 1}, 1, backend)
//	b := tensor.Full[float32](Shape{3, 5}, 1, backend)
//	c := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// BatchMatMul performs batched matrix multiplication.
//
// Example:
//
//	a := tensor.Randn[float32](Shape{8, 10, 64}, backend)
//	b := tensor.Randn[float32](Shape{8, 64, 12}, backend)
//	c := a.BatchMatMul(b) // Shape: [8, 10, 12]
func (t *Tensor[T, B]) BatchMatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.BatchMatMul(t.raw, other.raw), t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Reshape(t.raw, Shape(newShape)), t.backend)
}

// Transpose permutes the tensor's dimensions.
//
// If axes is empty, reverses all dimensions.
//
// Example:
//
//	t := tensor.Randn[float32](Shape{2, 3, 4}, backend)
//	transposed := t.Transpose(2, 0, 1) // Shape: [4, 2, 3]
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw, axes...), t.backend)
}

// MulScalar multiplies each element by a scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, scalar), t.backend)
}

// AddScalar adds a scalar to each element.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, scalar), t.backend)
}

// SubScalar subtracts a scalar from each element.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.SubScalar(t.raw, scalar), t.backend)
}

// DivScalar divides each element by a scalar.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.DivScalar(t.raw, scalar), t.backend)
}

// Sqrt computes the element-wise square root.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	return New[T, B](t.backend.Sqrt(t.raw), t.backend)
}

// ClampMin replaces every element below minValue with minValue.
func (t *Tensor[T, B]) ClampMin(minValue T) *Tensor[T, B] {
	return New[T, B](t.backend.ClampMin(t.raw, minValue), t.backend)
}

// Softmax applies softmax along the specified dimension.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	return New[T, B](t.backend.Softmax(t.raw, dim), t.backend)
}

// Greater returns a bool tensor holding t > other (broadcasting).
func (t *Tensor[T, B]) Greater(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.Greater(t.raw, other.raw), t.backend)
}

// LowerEqual returns a bool tensor holding t <= other (broadcasting).
func (t *Tensor[T, B]) LowerEqual(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool, B](t.backend.LowerEqual(t.raw, other.raw), t.backend)
}

// SumDim sums along dim. Bool tensors are not summable; cast them first.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.SumDim(t.raw, dim, keepDim), t.backend)
}

// MaxDim takes the maximum along dim.
func (t *Tensor[T, B]) MaxDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.MaxDim(t.raw, dim, keepDim), t.backend)
}

// Cumsum computes the inclusive running sum along dim.
func (t *Tensor[T, B]) Cumsum(dim int) *Tensor[T, B] {
	return New[T, B](t.backend.Cumsum(t.raw, dim), t.backend)
}

// Sort returns the values sorted along dim.
func (t *Tensor[T, B]) Sort(dim int, descending bool) *Tensor[T, B] {
	return New[T, B](t.backend.Sort(t.raw, dim, descending), t.backend)
}

// TopK returns the k largest values along dim, in descending order.
func (t *Tensor[T, B]) TopK(k, dim int) *Tensor[T, B] {
	return New[T, B](t.backend.TopK(t.raw, k, dim), t.backend)
}

// Gather selects values along dim at the positions held by index.
// The result has the shape of index.
func (t *Tensor[T, B]) Gather(dim int, index *Tensor[int32, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Gather(t.raw, dim, index.raw), t.backend)
}

// IndexSelect keeps the slices at indices along dim.
func (t *Tensor[T, B]) IndexSelect(dim int, indices []int) *Tensor[T, B] {
	return New[T, B](t.backend.IndexSelect(t.raw, dim, indices), t.backend)
}

// IndexPut returns a copy of t with the slices at indices along dim replaced by src.
func (t *Tensor[T, B]) IndexPut(dim int, indices []int, src *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.IndexPut(t.raw, dim, indices, src.raw), t.backend)
}

// Cast converts t to element type U.
//
// Example:
//
//	mask := scores.Greater(threshold)          // *Tensor[bool, B]
//	count := tensor.Cast[int32](mask).SumDim(-1, true)
func Cast[U, T DType, B Backend](t *Tensor[T, B]) *Tensor[U, B] {
	return New[U, B](t.backend.Cast(t.raw, DataTypeOf[U]()), t.backend)
}
