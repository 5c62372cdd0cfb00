// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/pladis/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go, rows fanned out across goroutines
//
// Example:
//
//	import (
//	    "github.com/born-ml/pladis/tensor"
//	    "github.com/born-ml/pladis/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Full[float32](tensor.Shape{2, 3}, 1, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Matrix operations.
	BatchMatMul(a, b *RawTensor) *RawTensor // Batched matrix multiplication for 3D/4D tensors.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.

	// Scalar operations (element-wise with scalar).
	MulScalar(x *RawTensor, scalar any) *RawTensor // Multiply by scalar.
	AddScalar(x *RawTensor, scalar any) *RawTensor // Add scalar.
	SubScalar(x *RawTensor, scalar any) *RawTensor // Subtract scalar.
	DivScalar(x *RawTensor, scalar any) *RawTensor // Divide by scalar.

	// Math operations (element-wise).
	Sqrt(x *RawTensor) *RawTensor                   // Square root.
	ClampMin(x *RawTensor, minValue any) *RawTensor // max(x, minValue).

	// Activation functions.
	Softmax(x *RawTensor, dim int) *RawTensor // Softmax along dimension.

	// Comparison operations (element-wise, return bool tensor).
	Greater(a, b *RawTensor) *RawTensor    // a > b.
	LowerEqual(a, b *RawTensor) *RawTensor // a <= b.

	// Reduction and scan operations.
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Sum along dimension.
	MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Maximum along dimension.
	Cumsum(x *RawTensor, dim int) *RawTensor               // Inclusive running sum along dimension.

	// Ordering operations.
	Sort(x *RawTensor, dim int, descending bool) *RawTensor // Sorted values along dimension.
	TopK(x *RawTensor, k, dim int) *RawTensor               // k largest values along dimension, descending.

	// Indexing operations.
	Gather(x *RawTensor, dim int, index *RawTensor) *RawTensor                   // Select elements along dim using index tensor.
	IndexSelect(x *RawTensor, dim int, indices []int) *RawTensor                 // Keep slices along dim.
	IndexPut(dst *RawTensor, dim int, indices []int, src *RawTensor) *RawTensor // Copy of dst with slices replaced.

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor // Cast to different data type.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
