package main

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/pladis/attention"
	"github.com/born-ml/pladis/backend/cpu"
	"github.com/born-ml/pladis/tensor"
)

type runOptions struct {
	config     string
	batch      int
	seq        int
	kvSeq      int
	heads      int
	dimHead    int
	scale      float64
	sparseFunc string
	topK       int
	precision  string
	seed       int64
	workers    int
}

// runReport summarizes one attention run.
type runReport struct {
	Shape        tensor.Shape
	SparseFunc   attention.SparseFunc
	MeanSupport  float64
	MaxSupport   float64
	MaxBlendDiff float64
}

func newRunCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run PLADIS attention on random inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}

			report, err := runAttention(cfg, opts)
			if err != nil {
				return err
			}

			log.Info().
				Ints("shape", report.Shape).
				Str("sparse_func", report.SparseFunc.String()).
				Float64("scale", cfg.Scale).
				Int("top_k", cfg.TopK).
				Float64("mean_support", report.MeanSupport).
				Float64("max_support", report.MaxSupport).
				Float64("max_blend_dense_diff", report.MaxBlendDiff).
				Msg("attention complete")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "YAML config file")
	f.IntVar(&opts.batch, "batch", 2, "Batch size")
	f.IntVar(&opts.seq, "seq", 16, "Query sequence length")
	f.IntVar(&opts.kvSeq, "kv-seq", 0, "Key/value sequence length (defaults to --seq)")
	f.IntVar(&opts.heads, "heads", 4, "Number of attention heads")
	f.IntVar(&opts.dimHead, "dim-head", 8, "Channels per head")
	f.Float64Var(&opts.scale, "scale", 1.0, "Blend scale (overrides config)")
	f.StringVar(&opts.sparseFunc, "sparse-func", attention.Entmax15Name, "Sparse function: entmax1.5 or sparsemax (overrides config)")
	f.IntVar(&opts.topK, "top-k", 0, "Top-k candidate window, 0 sorts full rows (overrides config)")
	f.StringVar(&opts.precision, "precision", "", "Dense attention precision: fp16, fp32 or fp64 (overrides config)")
	f.Int64Var(&opts.seed, "seed", 42, "Random seed for Q/K/V")
	f.IntVar(&opts.workers, "workers", 0, "CPU backend workers, <= 1 runs sequentially")

	return cmd
}

// resolveConfig loads the config file when given and applies explicitly
// set flags on top of it.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (attention.Config, error) {
	cfg := attention.DefaultConfig()
	if opts.config != "" {
		loaded, err := attention.LoadConfig(opts.config)
		if err != nil {
			return attention.Config{}, errors.Wrap(err, "failed to load config")
		}
		cfg = loaded
		log.Debug().Str("path", opts.config).Msg("config loaded")
	}

	f := cmd.Flags()
	if f.Changed("scale") {
		cfg.Scale = opts.scale
	}
	if f.Changed("sparse-func") {
		cfg.SparseFunc = opts.sparseFunc
	}
	if f.Changed("top-k") {
		cfg.TopK = opts.topK
	}
	if f.Changed("precision") {
		cfg.Precision = opts.precision
	}

	if err := cfg.Validate(); err != nil {
		return attention.Config{}, errors.Wrap(err, "invalid flags")
	}
	return cfg, nil
}

func runAttention(cfg attention.Config, opts *runOptions) (*runReport, error) {
	kvSeq := opts.kvSeq
	if kvSeq == 0 {
		kvSeq = opts.seq
	}
	dims := []struct {
		flag  string
		value int
	}{
		{"batch", opts.batch},
		{"seq", opts.seq},
		{"kv-seq", kvSeq},
		{"heads", opts.heads},
		{"dim-head", opts.dimHead},
	}
	for _, d := range dims {
		if d.value <= 0 {
			return nil, errors.Errorf("--%s must be positive, got %d", d.flag, d.value)
		}
	}

	backend := cpu.NewWithWorkers(opts.workers)
	rng := rand.New(rand.NewSource(opts.seed))
	channels := opts.heads * opts.dimHead

	q := tensor.RandnFrom[float32](tensor.Shape{opts.batch, opts.seq, channels}, rng, backend)
	k := tensor.RandnFrom[float32](tensor.Shape{opts.batch, kvSeq, channels}, rng, backend)
	v := tensor.RandnFrom[float32](tensor.Shape{opts.batch, kvSeq, channels}, rng, backend)

	wrapper := attention.FromConfig[float32, *cpu.Backend](cfg)
	extra := cfg.ExtraOptions(opts.heads)
	log.Debug().
		Str("sparse_func", wrapper.SparseFunc().String()).
		Str("precision", extra.Precision().String()).
		Ints("q", q.Shape()).
		Ints("kv", k.Shape()).
		Msg("running attention")

	dense := attention.Dense(q, k, v, opts.heads, extra.Precision())
	blend := wrapper.Attention(q, k, v, extra)

	weights := attention.SparseWeights(q, k, opts.heads, wrapper.Transform())
	support := toFloat64(attention.SupportSize(weights, -1).Data())

	return &runReport{
		Shape:        blend.Shape(),
		SparseFunc:   wrapper.SparseFunc(),
		MeanSupport:  floats.Sum(support) / float64(len(support)),
		MaxSupport:   floats.Max(support),
		MaxBlendDiff: floats.Distance(toFloat64(blend.Data()), toFloat64(dense.Data()), math.Inf(1)),
	}, nil
}

func toFloat64[T float32 | int32](data []T) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
