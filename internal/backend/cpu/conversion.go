package cpu

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/born-ml/pladis/internal/tensor"
)

// Cast converts tensor to a different data type.
// Casting to the same dtype returns a copy.
//
// Bool converts to 1/0 and back via "!= 0". Float16 is stored as IEEE 754
// half precision, so a Float32 -> Float16 -> Float32 round trip rounds every
// value to the nearest representable half.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result := cpu.alloc("cast", x.Shape(), dtype)

	switch x.DType() {
	case tensor.Float32:
		castFrom(result, x.AsFloat32())
	case tensor.Float64:
		castFrom(result, x.AsFloat64())
	case tensor.Int32:
		castFrom(result, x.AsInt32())
	case tensor.Int64:
		castFrom(result, x.AsInt64())
	case tensor.Bool:
		src := x.AsBool()
		ints := make([]int32, len(src))
		for i, b := range src {
			if b {
				ints[i] = 1
			}
		}
		castFrom(result, ints)
	case tensor.Float16:
		src := x.AsFloat16()
		vals := make([]float32, len(src))
		for i, h := range src {
			vals[i] = h.Float32()
		}
		castFrom(result, vals)
	default:
		panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
	}

	return result
}

func castFrom[S number](result *tensor.RawTensor, src []S) {
	switch result.DType() {
	case tensor.Float32:
		convertSlice(result.AsFloat32(), src)
	case tensor.Float64:
		convertSlice(result.AsFloat64(), src)
	case tensor.Int32:
		convertSlice(result.AsInt32(), src)
	case tensor.Int64:
		convertSlice(result.AsInt64(), src)
	case tensor.Bool:
		dst := result.AsBool()
		for i, v := range src {
			dst[i] = v != 0
		}
	case tensor.Float16:
		dst := result.AsFloat16()
		for i, v := range src {
			dst[i] = float16.Fromfloat32(float32(v))
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", result.DType()))
	}
}

func convertSlice[D, S number](dst []D, src []S) {
	for i, v := range src {
		dst[i] = D(v)
	}
}
