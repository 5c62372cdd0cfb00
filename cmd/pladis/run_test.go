package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/pladis/attention"
	"github.com/born-ml/pladis/tensor"
)

func parsedRunCmd(t *testing.T, args ...string) (*runOptions, attention.Config, error) {
	t.Helper()

	opts := &runOptions{}
	cmd := newRunCmd(opts)
	require.NoError(t, cmd.Flags().Parse(args))

	cfg, err := resolveConfig(cmd, opts)
	return opts, cfg, err
}

func TestResolveConfigDefaults(t *testing.T) {
	_, cfg, err := parsedRunCmd(t)
	require.NoError(t, err)
	assert.Equal(t, attention.DefaultConfig(), cfg)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pladis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scale: 2.0\nsparse_func: sparsemax\ntop_k: 4\nprecision: fp64\n"), 0o600))

	_, cfg, err := parsedRunCmd(t, "--config", path, "--scale", "0.5")
	require.NoError(t, err)
	assert.Equal(t, attention.Config{
		Scale:      0.5,
		SparseFunc: attention.SparsemaxName,
		TopK:       4,
		Precision:  "fp64",
	}, cfg)
}

func TestResolveConfigErrors(t *testing.T) {
	_, _, err := parsedRunCmd(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")

	_, _, err = parsedRunCmd(t, "--top-k=-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_k must be >= 0")
}

func TestRunAttention(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want attention.SparseFunc
	}{
		{"entmax", nil, attention.SelectEntmax15},
		{"sparsemax", []string{"--sparse-func", "sparsemax", "--scale", "2"}, attention.SelectSparsemax},
		{"top-k parallel", []string{"--top-k", "3", "--workers", "4", "--kv-seq", "12"}, attention.SelectEntmax15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--batch", "2", "--seq", "6", "--heads", "2", "--dim-head", "4"}, tt.args...)
			opts, cfg, err := parsedRunCmd(t, args...)
			require.NoError(t, err)

			report, err := runAttention(cfg, opts)
			require.NoError(t, err)

			assert.Equal(t, tensor.Shape{2, 6, 8}, report.Shape)
			assert.Equal(t, tt.want, report.SparseFunc)

			kvSeq := float64(opts.seq)
			if opts.kvSeq > 0 {
				kvSeq = float64(opts.kvSeq)
			}
			assert.GreaterOrEqual(t, report.MeanSupport, 1.0)
			assert.LessOrEqual(t, report.MaxSupport, kvSeq)
			assert.Greater(t, report.MaxBlendDiff, 0.0)
		})
	}
}

func TestRunAttentionScaleZeroIsDense(t *testing.T) {
	opts, cfg, err := parsedRunCmd(t, "--scale", "0", "--seq", "5", "--heads", "2", "--dim-head", "3")
	require.NoError(t, err)

	report, err := runAttention(cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.MaxBlendDiff)
}

func TestRunAttentionInvalidDims(t *testing.T) {
	opts, cfg, err := parsedRunCmd(t, "--heads", "0")
	require.NoError(t, err)

	_, err = runAttention(cfg, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--heads must be positive")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "pladis "+version+"\n", out.String())
}
