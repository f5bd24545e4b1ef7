package convert_test

import (
	"testing"

	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/stretchr/testify/assert"
)

func TestSeverityMapResolve(t *testing.T) {
	severities := convert.SeverityMap{
		"error":   sarif.LevelError,
		"warning": sarif.LevelWarning,
		"info":    sarif.LevelNote,
	}

	t.Run("resolves a known level", func(t *testing.T) {
		assert.Equal(t, sarif.LevelError, severities.Resolve("error"))
		assert.Equal(t, sarif.LevelNote, severities.Resolve("info"))
	})

	t.Run("ignores case and surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, sarif.LevelError, severities.Resolve(" ERROR "))
	})

	t.Run("falls back to warning for an unknown level", func(t *testing.T) {
		assert.Equal(t, sarif.LevelWarning, severities.Resolve("ice"))
	})

	t.Run("falls back to warning for an empty level", func(t *testing.T) {
		assert.Equal(t, sarif.LevelWarning, severities.Resolve(""))
	})

	t.Run("never fails on a nil map", func(t *testing.T) {
		var empty convert.SeverityMap

		assert.Equal(t, sarif.LevelWarning, empty.Resolve("error"))
	})
}
