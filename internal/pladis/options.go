package pladis

import (
	"fmt"
	"math"

	"github.com/born-ml/pladis/internal/nn"
)

// Keys read from ExtraOptions.
const (
	HeadsKey     = "n_heads"
	PrecisionKey = "attn_precision"
)

// ExtraOptions carries per-call attention settings from the host
// dispatcher. HeadsKey is required; PrecisionKey is optional.
type ExtraOptions map[string]any

// Heads returns the head count. It accepts any Go integer type and
// integral float64 (as decoded from JSON) and panics when the entry is
// missing or not a positive integer.
func (o ExtraOptions) Heads() int {
	raw, ok := o[HeadsKey]
	if !ok {
		panic(fmt.Sprintf("pladis: extra options missing %q", HeadsKey))
	}

	var heads int
	switch v := raw.(type) {
	case int:
		heads = v
	case int32:
		heads = int(v)
	case int64:
		heads = int(v)
	case uint:
		heads = int(v)
	case float64:
		if v != math.Trunc(v) {
			panic(fmt.Sprintf("pladis: %q must be an integer, got %v", HeadsKey, v))
		}
		heads = int(v)
	default:
		panic(fmt.Sprintf("pladis: %q must be an integer, got %T", HeadsKey, raw))
	}

	if heads <= 0 {
		panic(fmt.Sprintf("pladis: %q must be positive, got %d", HeadsKey, heads))
	}
	return heads
}

// Precision returns the precision hint, or nn.PrecisionDefault when absent.
func (o ExtraOptions) Precision() nn.Precision {
	switch v := o[PrecisionKey].(type) {
	case nn.Precision:
		return nn.ParsePrecision(string(v))
	case string:
		return nn.ParsePrecision(v)
	case fmt.Stringer:
		return nn.ParsePrecision(v.String())
	default:
		return nn.PrecisionDefault
	}
}
