package nn

import (
	"strings"

	"github.com/born-ml/pladis/internal/tensor"
)

// Precision is a hint for the numeric precision of dense attention.
type Precision string

// Supported precision hints.
const (
	PrecisionDefault Precision = ""     // compute in the inputs' own dtype
	PrecisionFloat16 Precision = "fp16" // round Q, K and V to half precision first
	PrecisionFloat32 Precision = "fp32"
	PrecisionFloat64 Precision = "fp64"
)

// ParsePrecision maps a precision name to a hint. Accepted names are
// "fp16"/"float16"/"half", "fp32"/"float32" and "fp64"/"float64"/"double",
// in any case. Anything else, including the empty string, is PrecisionDefault.
func ParsePrecision(s string) Precision {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fp16", "float16", "half":
		return PrecisionFloat16
	case "fp32", "float32":
		return PrecisionFloat32
	case "fp64", "float64", "double":
		return PrecisionFloat64
	default:
		return PrecisionDefault
	}
}

// String returns the hint name, or "default".
func (p Precision) String() string {
	if p == PrecisionDefault {
		return "default"
	}
	return string(p)
}

// roundHalf rounds every element of x to the nearest IEEE 754 half
// precision value, keeping the dtype of x.
func roundHalf[T tensor.Float, B tensor.Backend](x *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
	b := x.Backend()
	half := b.Cast(x.Raw(), tensor.Float16)
	return tensor.New[T, B](b.Cast(half, x.DType()), b)
}
