package clippy_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3montree-dev/lint2sarif/convert/clippy"
	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/l3montree-dev/lint2sarif/utils"
)

func span(file string, line, colStart, colEnd int, snippet string) clippy.Span {
	return clippy.Span{
		FileName:    file,
		LineStart:   line,
		LineEnd:     line,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		IsPrimary:   true,
		Text: []clippy.SpanLine{
			{Text: snippet, HighlightStart: colStart, HighlightEnd: colEnd},
		},
	}
}

func needlessReturn() clippy.CompilerMessage {
	return clippy.CompilerMessage{
		Reason:    "compiler-message",
		PackageID: "path+file:///home/ci/project#demo@0.1.0",
		Message: &clippy.Diagnostic{
			Message: "unneeded `return` statement",
			Code:    &clippy.Code{Code: "clippy::needless_return"},
			Level:   "warning",
			Spans:   []clippy.Span{span("src/main.rs", 5, 5, 14, "    return x;")},
			Children: []clippy.Diagnostic{
				{
					Message: "remove `return`",
					Level:   "help",
					Spans: []clippy.Span{
						{
							FileName:             "src/main.rs",
							LineStart:            5,
							LineEnd:              5,
							ColumnStart:          5,
							ColumnEnd:            14,
							IsPrimary:            true,
							SuggestedReplacement: utils.Ptr("x"),
						},
					},
				},
			},
		},
	}
}

func stream(t *testing.T, messages ...clippy.CompilerMessage) string {
	t.Helper()

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		raw, err := json.Marshal(msg)
		require.NoError(t, err)
		lines = append(lines, string(raw))
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestConvert(t *testing.T) {
	t.Run("maps a clippy diagnostic", func(t *testing.T) {
		out, err := clippy.Convert(strings.NewReader(stream(t, needlessReturn())), clippy.Options{ToolVersion: "clippy 0.1.77"})

		require.NoError(t, err)
		assert.Empty(t, out.Warnings)
		require.Len(t, out.Report.Runs, 1)

		run := out.Report.Runs[0]
		assert.Equal(t, "clippy", run.Tool.Driver.Name)
		assert.Equal(t, "clippy 0.1.77", utils.SafeDereference(run.Tool.Driver.Version))

		require.Len(t, run.Tool.Driver.Rules, 1)
		rule := run.Tool.Driver.Rules[0]
		assert.Equal(t, "clippy::needless_return", rule.ID)
		assert.Equal(t, "https://rust-lang.github.io/rust-clippy/master/index.html#needless_return", utils.SafeDereference(rule.HelpURI))

		require.Len(t, run.Results, 1)
		result := run.Results[0]
		assert.Equal(t, sarif.LevelWarning, result.Level)
		assert.Equal(t, "unneeded `return` statement", result.Message.Text)

		require.Len(t, result.Locations, 1)
		physical := result.Locations[0].PhysicalLocation
		require.NotNil(t, physical)
		assert.Equal(t, "src/main.rs", physical.ArtifactLocation.URI)
		require.NotNil(t, physical.Region)
		assert.Equal(t, 5, physical.Region.StartLine)
		assert.Equal(t, 5, utils.OrDefault(physical.Region.StartColumn, 0))
		assert.Equal(t, 14, utils.OrDefault(physical.Region.EndColumn, 0))
		require.NotNil(t, physical.Region.Snippet)
		assert.Equal(t, "    return x;", physical.Region.Snippet.Text)
	})

	t.Run("turns help children into related locations and fixes", func(t *testing.T) {
		out, err := clippy.Convert(strings.NewReader(stream(t, needlessReturn())), clippy.Options{})

		require.NoError(t, err)
		result := out.Report.Runs[0].Results[0]

		require.Len(t, result.RelatedLocations, 1)
		related := result.RelatedLocations[0]
		require.NotNil(t, related.Message)
		assert.Equal(t, "remove `return`", related.Message.Text)

		require.Len(t, result.Fixes, 1)
		fix := result.Fixes[0]
		require.NotNil(t, fix.Description)
		assert.Equal(t, "remove `return`", fix.Description.Text)
		require.Len(t, fix.ArtifactChanges, 1)
		require.Len(t, fix.ArtifactChanges[0].Replacements, 1)
		replacement := fix.ArtifactChanges[0].Replacements[0]
		assert.Equal(t, 5, replacement.DeletedRegion.StartLine)
		require.NotNil(t, replacement.InsertedContent)
		assert.Equal(t, "x", replacement.InsertedContent.Text)
	})

	t.Run("skips build bookkeeping silently", func(t *testing.T) {
		input := `{"reason":"compiler-artifact","package_id":"demo"}
{"reason":"build-finished","success":true}
`
		out, err := clippy.Convert(strings.NewReader(input), clippy.Options{})

		require.NoError(t, err)
		assert.Empty(t, out.Warnings)
		assert.Empty(t, out.Report.Runs[0].Results)
	})

	t.Run("skips summary messages without a code silently", func(t *testing.T) {
		summary := clippy.CompilerMessage{
			Reason: "compiler-message",
			Message: &clippy.Diagnostic{
				Message: "3 warnings emitted",
				Level:   "warning",
			},
		}
		out, err := clippy.Convert(strings.NewReader(stream(t, summary)), clippy.Options{})

		require.NoError(t, err)
		assert.Empty(t, out.Warnings)
		assert.Empty(t, out.Report.Runs[0].Results)
	})

	t.Run("drops a diagnostic with an empty spans array but keeps the rest", func(t *testing.T) {
		noSpans := clippy.CompilerMessage{
			Reason: "compiler-message",
			Message: &clippy.Diagnostic{
				Message: "unused variable: `x`",
				Code:    &clippy.Code{Code: "unused_variables"},
				Level:   "warning",
			},
		}
		out, err := clippy.Convert(strings.NewReader(stream(t, noSpans, needlessReturn())), clippy.Options{})

		require.NoError(t, err)
		require.Len(t, out.Report.Runs[0].Results, 1)
		assert.Equal(t, "clippy::needless_return", out.Report.Runs[0].Results[0].RuleID)
		require.Len(t, out.Warnings, 1)
		assert.Equal(t, "line 1", out.Warnings[0].Record)
		assert.Contains(t, out.Warnings[0].Reason, "no spans")
	})

	t.Run("warns about lines that are not valid json", func(t *testing.T) {
		input := "error: could not compile `demo`\n" + stream(t, needlessReturn())
		out, err := clippy.Convert(strings.NewReader(input), clippy.Options{})

		require.NoError(t, err)
		assert.Len(t, out.Report.Runs[0].Results, 1)
		require.Len(t, out.Warnings, 1)
		assert.Equal(t, "line 1", out.Warnings[0].Record)
		assert.Contains(t, out.Warnings[0].Reason, "not a valid cargo message")
	})

	t.Run("keeps the error code explanation as the rule's full description", func(t *testing.T) {
		msg := needlessReturn()
		msg.Message.Code = &clippy.Code{
			Code:        "E0308",
			Explanation: utils.Ptr("Expected type did not match the received type.\n"),
		}

		out, err := clippy.Convert(strings.NewReader(stream(t, msg)), clippy.Options{})

		require.NoError(t, err)
		rule := out.Report.Runs[0].Tool.Driver.Rules[0]
		require.NotNil(t, rule.FullDescription)
		assert.Equal(t, "Expected type did not match the received type.\n", rule.FullDescription.Text)
		assert.Nil(t, rule.HelpURI)
	})

	t.Run("deduplicates rules across diagnostics", func(t *testing.T) {
		first := needlessReturn()
		second := needlessReturn()
		second.Message.Spans = []clippy.Span{span("src/lib.rs", 9, 5, 14, "    return y;")}

		out, err := clippy.Convert(strings.NewReader(stream(t, first, second)), clippy.Options{})

		require.NoError(t, err)
		assert.Len(t, out.Report.Runs[0].Tool.Driver.Rules, 1)
		assert.Len(t, out.Report.Runs[0].Results, 2)
	})

	t.Run("keeps multiple spans as ordered locations", func(t *testing.T) {
		msg := needlessReturn()
		msg.Message.Spans = append(msg.Message.Spans, span("src/lib.rs", 12, 1, 4, "foo"))

		out, err := clippy.Convert(strings.NewReader(stream(t, msg)), clippy.Options{})

		require.NoError(t, err)
		result := out.Report.Runs[0].Results[0]
		require.Len(t, result.Locations, 2)
		assert.Equal(t, "src/main.rs", result.Locations[0].PhysicalLocation.ArtifactLocation.URI)
		assert.Equal(t, "src/lib.rs", result.Locations[1].PhysicalLocation.ArtifactLocation.URI)
	})

	t.Run("maps rustc levels onto canonical levels", func(t *testing.T) {
		msg := needlessReturn()
		msg.Message.Level = "error"

		out, err := clippy.Convert(strings.NewReader(stream(t, msg)), clippy.Options{})

		require.NoError(t, err)
		assert.Equal(t, sarif.LevelError, out.Report.Runs[0].Results[0].Level)
	})

	t.Run("rewrites absolute paths below the base dir", func(t *testing.T) {
		msg := needlessReturn()
		msg.Message.Spans = []clippy.Span{span("/home/ci/project/src/main.rs", 5, 5, 14, "    return x;")}

		out, err := clippy.Convert(strings.NewReader(stream(t, msg)), clippy.Options{BaseDir: "/home/ci/project"})

		require.NoError(t, err)
		uri := out.Report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI
		assert.Equal(t, "src/main.rs", uri)
	})

	t.Run("produces an empty run for empty input", func(t *testing.T) {
		out, err := clippy.Convert(strings.NewReader(""), clippy.Options{})

		require.NoError(t, err)
		assert.Empty(t, out.Warnings)
		assert.Empty(t, out.Report.Runs[0].Results)
	})
}

type fakeResolver struct {
	root  string
	err   error
	calls int
}

func (f *fakeResolver) WorkspaceRoot(packageID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.root, nil
}

func TestConvertWithResolver(t *testing.T) {
	t.Run("asks the resolver once and uses the root as base dir", func(t *testing.T) {
		first := needlessReturn()
		first.Message.Spans = []clippy.Span{span("/home/ci/project/src/main.rs", 5, 5, 14, "    return x;")}
		second := needlessReturn()
		second.Message.Spans = []clippy.Span{span("/home/ci/project/src/lib.rs", 9, 5, 14, "    return y;")}

		resolver := &fakeResolver{root: "/home/ci/project"}
		out, err := clippy.Convert(strings.NewReader(stream(t, first, second)), clippy.Options{Resolver: resolver})

		require.NoError(t, err)
		assert.Equal(t, 1, resolver.calls)
		run := out.Report.Runs[0]
		require.Len(t, run.Results, 2)
		assert.Equal(t, "src/main.rs", run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
		assert.Equal(t, "src/lib.rs", run.Results[1].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	})

	t.Run("keeps raw paths and warns when resolution fails", func(t *testing.T) {
		msg := needlessReturn()
		msg.Message.Spans = []clippy.Span{span("/home/ci/project/src/main.rs", 5, 5, 14, "    return x;")}

		resolver := &fakeResolver{err: assert.AnError}
		out, err := clippy.Convert(strings.NewReader(stream(t, msg)), clippy.Options{Resolver: resolver})

		require.NoError(t, err)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0].Reason, "could not resolve workspace root")
		uri := out.Report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI
		assert.Equal(t, "/home/ci/project/src/main.rs", uri)
	})

	t.Run("an explicit base dir wins over the resolver", func(t *testing.T) {
		msg := needlessReturn()
		msg.Message.Spans = []clippy.Span{span("/home/ci/project/src/main.rs", 5, 5, 14, "    return x;")}

		resolver := &fakeResolver{root: "/elsewhere"}
		out, err := clippy.Convert(strings.NewReader(stream(t, msg)), clippy.Options{BaseDir: "/home/ci/project", Resolver: resolver})

		require.NoError(t, err)
		assert.Equal(t, 0, resolver.calls)
		uri := out.Report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI
		assert.Equal(t, "src/main.rs", uri)
	})
}
