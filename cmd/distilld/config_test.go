package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path yields zero config", func(t *testing.T) {
		t.Parallel()

		fc, err := LoadFileConfig("")
		require.NoError(t, err)
		assert.Empty(t, fc.Addr)
	})

	t.Run("parses full config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
addr: ":9090"
engine: trafilatura
cache_path: /tmp/distill.db
rate_limit:
  rps: 10
  burst: 5
scoring:
  link_density_penalty: 0.7
  score_floor: 3
  tag_weights:
    article: 30
    nav: -30
pool:
  capacity: 5
  acquire_timeout: 2s
  render_timeout: 15s
`)

		fc, err := LoadFileConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", fc.Addr)
		assert.Equal(t, "trafilatura", fc.Engine)
		assert.Equal(t, 10.0, fc.RateLimit.RPS)

		cfg, err := fc.Apply(distill.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, 0.7, cfg.LinkDensityPenalty)
		assert.Equal(t, 3.0, cfg.ScoreFloor)
		assert.Equal(t, 30.0, cfg.TagWeights["article"])
		assert.Equal(t, 5, cfg.PoolCapacity)
		assert.Equal(t, 2*time.Second, cfg.AcquireTimeout)
		assert.Equal(t, 15*time.Second, cfg.RenderTimeout)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `addr: ":9090"`)

		fc, err := LoadFileConfig(path)
		require.NoError(t, err)

		cfg, err := fc.Apply(distill.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, distill.DefaultConfig().LinkDensityPenalty, cfg.LinkDensityPenalty)
		assert.Equal(t, distill.DefaultConfig().PoolCapacity, cfg.PoolCapacity)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "addr: [unclosed")

		_, err := LoadFileConfig(path)
		require.Error(t, err)
	})

	t.Run("invalid duration is an error", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "pool:\n  acquire_timeout: fast\n")

		fc, err := LoadFileConfig(path)
		require.NoError(t, err)

		_, err = fc.Apply(distill.DefaultConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "acquire_timeout")
	})

	t.Run("out-of-range overlay fails validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "scoring:\n  link_density_penalty: 1.5\n")

		fc, err := LoadFileConfig(path)
		require.NoError(t, err)

		_, err = fc.Apply(distill.DefaultConfig())
		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}
