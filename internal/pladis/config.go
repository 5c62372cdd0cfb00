package pladis

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/pladis/internal/nn"
	"github.com/born-ml/pladis/internal/tensor"
)

// Config is the YAML form of a wrapper configuration.
//
//	scale: 2.0
//	sparse_func: sparsemax
//	top_k: 16
//	precision: fp32
type Config struct {
	Scale      float64 `yaml:"scale"`
	SparseFunc string  `yaml:"sparse_func"`
	TopK       int     `yaml:"top_k"`
	Precision  string  `yaml:"precision"`
}

// DefaultConfig returns pure sparse attention with entmax1.5 and a full
// sort per row.
func DefaultConfig() Config {
	return Config{
		Scale:      1.0,
		SparseFunc: Entmax15Name,
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML config document.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration errors. An unknown sparse_func is not an
// error; it selects entmax1.5.
func (c Config) Validate() error {
	if math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) {
		return errors.Errorf("scale must be finite, got %v", c.Scale)
	}
	if c.TopK < 0 {
		return errors.Errorf("top_k must be >= 0, got %d", c.TopK)
	}
	return nil
}

// ExtraOptions returns the per-call options for heads attention heads with
// the configured precision hint.
func (c Config) ExtraOptions(heads int) ExtraOptions {
	return ExtraOptions{
		HeadsKey:     heads,
		PrecisionKey: nn.ParsePrecision(c.Precision),
	}
}

// FromConfig creates a Wrapper from cfg. opts are applied after the
// configured top-k window.
func FromConfig[T tensor.Float, B tensor.Backend](cfg Config, opts ...Option[T, B]) *Wrapper[T, B] {
	all := append([]Option[T, B]{WithTopK[T, B](cfg.TopK)}, opts...)
	return NewWrapper[T, B](cfg.Scale, cfg.SparseFunc, all...)
}
