package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBaseConfig(t *testing.T) {
	t.Run("accepts the zero config", func(t *testing.T) {
		assert.NoError(t, validateBaseConfig(baseConfig{}))
	})

	t.Run("accepts an existing cargo metadata file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "metadata.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

		assert.NoError(t, validateBaseConfig(baseConfig{CargoMetadata: path}))
	})

	t.Run("rejects a missing cargo metadata file", func(t *testing.T) {
		err := validateBaseConfig(baseConfig{CargoMetadata: "/does/not/exist/metadata.json"})

		assert.ErrorContains(t, err, "not a readable file")
	})

	t.Run("rejects a missing output dir", func(t *testing.T) {
		err := validateBaseConfig(baseConfig{OutputDir: "/does/not/exist"})

		assert.ErrorContains(t, err, "not an existing directory")
	})

	t.Run("rejects an empty input entry", func(t *testing.T) {
		err := validateBaseConfig(baseConfig{Input: []string{"clippy.json", ""}})

		assert.ErrorContains(t, err, "must not be empty")
	})

	t.Run("rejects a concurrency outside the allowed range", func(t *testing.T) {
		assert.Error(t, validateBaseConfig(baseConfig{Concurrency: -1}))
		assert.Error(t, validateBaseConfig(baseConfig{Concurrency: 65}))
	})
}
