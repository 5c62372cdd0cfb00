// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 compute, Float16 storage casts
//   - NumPy-compatible broadcasting
//   - Row kernels along any dimension: sort, top-k, cumsum, softmax, gather
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/pladis/attention"
//	    "github.com/born-ml/pladis/backend/cpu"
//	    "github.com/born-ml/pladis/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    q := tensor.Randn[float32](tensor.Shape{1, 16, 64}, backend)
//	    w := attention.Sparsemax(q.BatchMatMul(q.Transpose(0, 2, 1)), -1)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
