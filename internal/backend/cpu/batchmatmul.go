package cpu

import (
	"fmt"

	"github.com/born-ml/pladis/internal/parallel"
	"github.com/born-ml/pladis/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication.
// Supports 3D and 4D tensors with batch dimensions.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The last two dimensions are treated as matrix dimensions.
// All leading dimensions must match (batch dimensions).
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("BatchMatMul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("BatchMatMul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("BatchMatMul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("BatchMatMul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	m := aShape[ndim-2]
	k1 := aShape[ndim-1]
	k2 := bShape[ndim-2]
	n := bShape[ndim-1]

	if k1 != k2 {
		panic(fmt.Sprintf("BatchMatMul: inner dimension mismatch: %d vs %d", k1, k2))
	}

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result := cpu.alloc("BatchMatMul", outShape, a.DType())

	switch a.DType() {
	case tensor.Float32:
		batchMatmul(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batchSize, m, k1, n, cpu.parallel)
	case tensor.Float64:
		batchMatmul(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batchSize, m, k1, n, cpu.parallel)
	default:
		panic(fmt.Sprintf("BatchMatMul: unsupported dtype %s", a.DType()))
	}

	return result
}

// batchMatmul computes one output row per task, accumulating in i-k-j order
// so the inner loop walks b and c contiguously.
func batchMatmul[T float](c, a, b []T, batchSize, m, k, n int, cfg parallel.Config) {
	parallel.For(batchSize*m, func(row int) {
		batch, i := row/m, row%m
		aRow := a[batch*m*k+i*k : batch*m*k+(i+1)*k]
		bMat := b[batch*k*n : (batch+1)*k*n]
		cRow := c[batch*m*n+i*n : batch*m*n+(i+1)*n]

		for kIdx, aVal := range aRow {
			bRow := bMat[kIdx*n : (kIdx+1)*n]
			for j, bVal := range bRow {
				cRow[j] += aVal * bVal
			}
		}
	}, cfg)
}
