package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/gradebook/pkg/grade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	c, err := Load("")
	require.NoError(t, err)
	return c
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", FileName)

	c1 := defaultConfig(t)
	c1.Input = "roster.txt"
	c1.Weights = []float64{0.2, 0.2, 0.2, 0.2, 0.2}
	c1.Format = FormatYAML

	err := Save(path, c1)
	require.NoError(t, err)

	c2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c1.Input, c2.Input)
	assert.Equal(t, c1.Weights, c2.Weights)
	assert.Equal(t, c1.Format, c2.Format)
	assert.Equal(t, c1.Server.Address, c2.Server.Address)

	w, err := c2.WeightVector()
	require.NoError(t, err)
	assert.Equal(t, grade.Weights{0.2, 0.2, 0.2, 0.2, 0.2}, w)
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "input.txt", c.Input)
	assert.Equal(t, FormatJSON, c.Format)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "127.0.0.1:8080", c.Server.Address)

	w, err := c.WeightVector()
	require.NoError(t, err)
	assert.Equal(t, grade.DefaultWeights(), w)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, defaultConfig(t)))

	t.Setenv("GRADEBOOK_INPUT", "other.txt")
	t.Setenv("GRADEBOOK_WEIGHTS", "0.1,0.1,0.1,0.1,0.1")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.txt", c.Input)
	assert.Equal(t, []float64{0.1, 0.1, 0.1, 0.1, 0.1}, c.Weights)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad-format.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: xml\n"), 0600))
	_, err := Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "bad-weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights: [0.5, 0.5]\n"), 0600))
	_, err = Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSave_Invalid(t *testing.T) {
	assert.Error(t, Save("", defaultConfig(t)))
	assert.Error(t, Save(filepath.Join(t.TempDir(), FileName), nil))
}
