package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Operations never modify their inputs. Malformed inputs (incompatible
// shapes, unsupported dtypes, invalid dimensions) cause a panic naming the
// operation, e.g. "sumdim: dimension 3 out of range for 2D tensor".
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication for 3D/4D tensors.
	// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise)
	Sqrt(x *RawTensor) *RawTensor
	ClampMin(x *RawTensor, minValue any) *RawTensor // max(x, minValue)

	// Activation functions
	Softmax(x *RawTensor, dim int) *RawTensor

	// Comparison operations (element-wise, return bool tensor)
	Greater(a, b *RawTensor) *RawTensor    // a > b
	LowerEqual(a, b *RawTensor) *RawTensor // a <= b

	// Reductions and scans along a dimension
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	Cumsum(x *RawTensor, dim int) *RawTensor

	// Ordering
	Sort(x *RawTensor, dim int, descending bool) *RawTensor // sorted values along dim
	TopK(x *RawTensor, k, dim int) *RawTensor               // k largest values along dim, descending

	// Gather selects elements along dim using an int32 index tensor.
	Gather(x *RawTensor, dim int, index *RawTensor) *RawTensor

	// IndexSelect keeps only the given slices along dim, in order.
	IndexSelect(x *RawTensor, dim int, indices []int) *RawTensor

	// IndexPut returns a copy of dst whose slices at indices along dim are
	// replaced by the consecutive slices of src.
	IndexPut(dst *RawTensor, dim int, indices []int, src *RawTensor) *RawTensor

	// Type conversion
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
