package clangtidy_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3montree-dev/lint2sarif/convert/clangtidy"
)

func TestParse(t *testing.T) {
	t.Run("parses a header line with a check", func(t *testing.T) {
		input := "src/main.cpp:42:10: warning: use nullptr [modernize-use-nullptr]\n"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		diagnostic := diagnostics[0]
		assert.Equal(t, "src/main.cpp", diagnostic.File)
		assert.Equal(t, 42, diagnostic.Line)
		assert.Equal(t, 10, diagnostic.Column)
		assert.Equal(t, "warning", diagnostic.Severity)
		assert.Equal(t, "use nullptr", diagnostic.Message)
		assert.Equal(t, "modernize-use-nullptr", diagnostic.Check)
		assert.Equal(t, 1, diagnostic.HeaderLine)
	})

	t.Run("parses a header line without a check", func(t *testing.T) {
		input := "foo.c:10:5: error: expected ';' after expression\n"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "expected ';' after expression", diagnostics[0].Message)
		assert.Empty(t, diagnostics[0].Check)
	})

	t.Run("keeps the first check of a comma separated list", func(t *testing.T) {
		input := "foo.c:1:1: warning: unused variable [clang-diagnostic-unused-variable,-warnings-as-errors]\n"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "clang-diagnostic-unused-variable", diagnostics[0].Check)
	})

	t.Run("handles windows paths with a drive letter", func(t *testing.T) {
		input := `C:\src\main.cpp:7:3: warning: do not use else after return [readability-else-after-return]` + "\n"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, `C:\src\main.cpp`, diagnostics[0].File)
		assert.Equal(t, 7, diagnostics[0].Line)
	})

	t.Run("keeps the first continuation line as snippet and drops carets", func(t *testing.T) {
		input := `foo.c:10:5: warning: unused variable 'x' [-Wunused-variable]
  int x = 5;
      ^
`

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "  int x = 5;", diagnostics[0].Snippet)
	})

	t.Run("splits consecutive diagnostics", func(t *testing.T) {
		input := `foo.c:10:5: warning: unused variable 'x' [-Wunused-variable]
  int x = 5;
      ^
bar.c:3:1: error: unknown type name 'uint128' [clang-diagnostic-error]
uint128 v;
^
`

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 2)
		assert.Equal(t, "foo.c", diagnostics[0].File)
		assert.Equal(t, 1, diagnostics[0].HeaderLine)
		assert.Equal(t, "bar.c", diagnostics[1].File)
		assert.Equal(t, 4, diagnostics[1].HeaderLine)
		assert.Equal(t, "uint128 v;", diagnostics[1].Snippet)
	})

	t.Run("drops banner lines before the first header", func(t *testing.T) {
		input := `12467 warnings generated.
Suppressed 12434 warnings (12425 in non-user code, 9 NOLINT).
foo.c:10:5: warning: unused variable 'x' [-Wunused-variable]
`

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, 3, diagnostics[0].HeaderLine)
	})

	t.Run("treats non numeric coordinates as continuation lines", func(t *testing.T) {
		input := `foo.c:10:5: warning: unused variable 'x' [-Wunused-variable]
note.c:abc:5: note: this never was a header
`

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "note.c:abc:5: note: this never was a header", diagnostics[0].Snippet)
	})

	t.Run("does not treat unknown severities as headers", func(t *testing.T) {
		input := "foo.c:10:5: remark: vectorized loop\n"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		assert.Empty(t, diagnostics)
	})

	t.Run("parses note severities", func(t *testing.T) {
		input := "foo.c:10:5: note: did you mean to use it?\n"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "note", diagnostics[0].Severity)
	})

	t.Run("flushes the buffered diagnostic at end of stream", func(t *testing.T) {
		input := "foo.c:10:5: warning: unused variable 'x' [-Wunused-variable]\n  int x = 5;"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "  int x = 5;", diagnostics[0].Snippet)
	})

	t.Run("keeps a message containing colons intact", func(t *testing.T) {
		input := "foo.c:10:5: warning: lambda capture 'this' is not used: remove it [clang-diagnostic-unused-lambda-capture]\n"

		diagnostics, err := clangtidy.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "lambda capture 'this' is not used: remove it", diagnostics[0].Message)
	})

	t.Run("returns nothing for empty input", func(t *testing.T) {
		diagnostics, err := clangtidy.Parse(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, diagnostics)
	})
}
