package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	InputPath  string
	Iterations int
	Task       struct {
		Count int
	}
}

func writeFile(t *testing.T, path, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoadConfig_BaseAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "inputPath: base.csv\niterations: 1000\ntask:\n  count: 1\n")
	override := filepath.Join(dir, "override.yaml")
	writeFile(t, override, "iterations: 10\n")

	var c testConfig
	require.NoError(t, LoadConfig(viper.New(), &c, dir, []string{override}))
	assert.Equal(t, "base.csv", c.InputPath)
	assert.Equal(t, 10, c.Iterations)
	assert.Equal(t, 1, c.Task.Count)
}

func TestLoadConfig_MissingBaseIsFine(t *testing.T) {
	v := viper.New()
	v.SetDefault("iterations", 5)
	var c testConfig
	require.NoError(t, LoadConfig(v, &c, t.TempDir(), nil))
	assert.Equal(t, 5, c.Iterations)
}

func TestLoadConfig_MissingOverrideFails(t *testing.T) {
	var c testConfig
	err := LoadConfig(viper.New(), &c, t.TempDir(), []string{filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoadConfig_Environment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "iterations: 1000\ntask:\n  count: 1\n")
	t.Setenv("BOOT_ITERATIONS", "50")
	t.Setenv("BOOT_TASK_COUNT", "4")

	var c testConfig
	require.NoError(t, LoadConfig(viper.New(), &c, dir, nil))
	assert.Equal(t, 50, c.Iterations)
	assert.Equal(t, 4, c.Task.Count)
}
