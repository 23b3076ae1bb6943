package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gokrylov/cg"
)

func TestLoadDefaults(t *testing.T) {
	c := LoadDefaults()
	assert.Equal(t, 0.0, c.Tolerance.Atol)
	assert.Equal(t, 0, c.Limits.MaxIterations)
	assert.Equal(t, "info", c.Logging.Level)
}

func TestLoadFromFileMissingReturnsDefaults(t *testing.T) {
	c, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, LoadDefaults(), c)
}

func TestLoadFromFileOverlaysOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gokrylov.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerance:\n  rtol: 1e-10\ngmres:\n  memory: 30\n"), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1e-10, c.Tolerance.Rtol)
	assert.Equal(t, 30, c.GMRES.Memory)
	assert.Equal(t, 0.0, c.Tolerance.Atol) // untouched default
}

func TestApplyCGLeavesExplicitOptionsAlone(t *testing.T) {
	c := LoadDefaults()
	c.Tolerance.Atol = 1e-6
	opts := ApplyCG(c, cg.Options[float64, float64]{Atol: 1e-3})
	assert.Equal(t, 1e-3, opts.Atol) // caller's explicit value wins
}

func TestFindConfigFileReturnsEmptyWhenNoneExist(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(wd) }()
	require.NoError(t, os.Chdir(dir))
	t.Setenv("GOKRYLOV_CONFIG", "")

	assert.Equal(t, "", FindConfigFile())
}
