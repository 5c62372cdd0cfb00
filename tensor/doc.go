// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the type-safe tensors PLADIS attention runs on.
//
// # Overview
//
// This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Row operations along any dimension (sort, top-k, cumsum, gather)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/pladis/tensor"
//	    "github.com/born-ml/pladis/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Randn[float32](tensor.Shape{2, 3}, backend)
//	    srt := x.Sort(-1, true)   // rows in descending order
//	    run := srt.Cumsum(-1)     // running sums
//	}
//
// # Supported Data Types
//
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers, e.g. support sizes and gather indices)
//   - bool (comparison masks)
//
// Float16 exists as a storage dtype reachable through Backend.Cast.
//
// # Broadcasting
//
// Tensor operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend)     // (3, 1)
//	b := tensor.Full[float32](tensor.Shape{3, 4}, 1, backend)   // (3, 4)
//	c := a.Add(b)                                                // (3, 4)
//
// Every operation returns a new tensor; inputs are never modified.
package tensor
