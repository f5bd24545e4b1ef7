// Package clippy converts the JSON message stream cargo clippy emits
// (cargo clippy --message-format json) into a sarif report.
package clippy

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/l3montree-dev/lint2sarif/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	toolName       = "clippy"
	informationURI = "https://rust-lang.github.io/rust-clippy/"

	// cargo renders whole snippets into single stream lines
	maxLineSize = 10 * 1024 * 1024
)

// Severities maps rustc's level vocabulary onto canonical levels.
var Severities = convert.SeverityMap{
	"error":                          sarif.LevelError,
	"error: internal compiler error": sarif.LevelError,
	"warning":                        sarif.LevelWarning,
	"note":                           sarif.LevelNote,
	"help":                           sarif.LevelNote,
	"failure-note":                   sarif.LevelNote,
}

type Options struct {
	ToolVersion string
	BaseDir     string
	Resolver    MetadataResolver
	Category    string
	RunGUID     string
}

// Convert reads cargo's newline separated message stream and produces a
// report with a single run. Lines that are not valid JSON are skipped
// with a warning, messages without a lint code (build summaries) are
// skipped silently. When no base dir is given the resolver, if any, is
// asked once for the workspace root of the first diagnostic's package.
func Convert(r io.Reader, opts Options) (convert.Output, error) {
	var out convert.Output

	builder := sarif.NewRunBuilder(toolName).
		WithVersion(opts.ToolVersion).
		WithSemanticVersion(convert.SemanticVersion(opts.ToolVersion)).
		WithInformationURI(informationURI).
		WithAutomationDetails(opts.Category, opts.RunGUID)

	baseDir := opts.BaseDir
	baseResolved := baseDir != "" || opts.Resolver == nil
	sawDiagnostic := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		id := fmt.Sprintf("line %d", lineNo)

		var msg CompilerMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			out.AddWarning(id, "not a valid cargo message")
			continue
		}
		if msg.Reason != "compiler-message" || msg.Message == nil {
			continue
		}
		diagnostic := msg.Message
		if diagnostic.Code == nil {
			// summary messages like "3 warnings emitted" carry no code
			continue
		}
		sawDiagnostic = true

		if !baseResolved {
			baseResolved = true
			root, err := opts.Resolver.WorkspaceRoot(msg.PackageID)
			if err != nil {
				out.AddWarning(id, fmt.Sprintf("could not resolve workspace root: %v", err))
			} else {
				baseDir = root
			}
		}

		if diagnostic.Message == "" {
			out.AddWarning(id, "empty message")
			continue
		}
		if len(diagnostic.Spans) == 0 {
			out.AddWarning(id, "no spans")
			continue
		}

		locations := make([]sarif.Location, 0, len(diagnostic.Spans))
		for _, span := range diagnostic.Spans {
			location, err := spanLocation(span, baseDir)
			if err != nil {
				out.AddWarning(id, err.Error())
				continue
			}
			locations = append(locations, location)
		}
		if len(locations) == 0 {
			out.AddWarning(id, "no mappable spans")
			continue
		}

		code := diagnostic.Code.Code
		if !builder.HasRule(code) {
			rule, err := sarif.NewRule(code, diagnostic.Message)
			if err != nil {
				out.AddWarning(id, err.Error())
				continue
			}
			rule.HelpURI = utils.EmptyThenNil(lintURI(code))
			// rustc ships long form explanations for its own error codes
			if explanation := utils.SafeDereference(diagnostic.Code.Explanation); explanation != "" {
				rule.FullDescription = &sarif.MultiformatMessage{Text: explanation}
			}
			builder.AddRule(rule)
		}

		result, err := sarif.NewResult(code, Severities.Resolve(diagnostic.Level), diagnostic.Message, locations...)
		if err != nil {
			out.AddWarning(id, err.Error())
			continue
		}
		result.RelatedLocations, result.Fixes = mapChildren(diagnostic.Children, baseDir)
		builder.AddResult(result)
	}
	if err := scanner.Err(); err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageParse, errors.Wrap(err, "could not read message stream"))
	}

	run, err := builder.Build()
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageBuild, err)
	}
	out.Report = sarif.NewReport(run)
	out.FlagEmpty(sawDiagnostic)
	return out, nil
}

func spanLocation(span Span, baseDir string) (sarif.Location, error) {
	region, err := convert.RegionFrom(span.LineStart, span.ColumnStart, span.LineEnd, span.ColumnEnd)
	if err != nil {
		return sarif.Location{}, err
	}
	if len(span.Text) > 0 {
		snippet := strings.Join(utils.Map(span.Text, func(line SpanLine) string { return line.Text }), "\n")
		region.Snippet = &sarif.ArtifactContent{Text: snippet}
	}

	location := sarif.NewLocation(convert.NormalizePath(span.FileName, baseDir), &region)
	if label := utils.SafeDereference(span.Label); label != "" {
		location = location.WithMessage(label)
	}
	return location, nil
}

// mapChildren turns help and note sub-diagnostics into related
// locations and, where they carry suggested replacements, into fixes.
// Sub-diagnostic spans that cannot be mapped are dropped, they only
// annotate the finding.
func mapChildren(children []Diagnostic, baseDir string) ([]sarif.Location, []sarif.Fix) {
	var related []sarif.Location
	var fixes []sarif.Fix

	for _, child := range children {
		var replacements map[string][]sarif.Replacement
		for _, span := range child.Spans {
			region, err := convert.RegionFrom(span.LineStart, span.ColumnStart, span.LineEnd, span.ColumnEnd)
			if err != nil {
				continue
			}
			uri := convert.NormalizePath(span.FileName, baseDir)

			message := child.Message
			if label := utils.SafeDereference(span.Label); label != "" {
				message = label
			}
			location := sarif.NewLocation(uri, &region)
			if message != "" {
				location = location.WithMessage(message)
			}
			related = append(related, location)

			if span.SuggestedReplacement != nil {
				if replacements == nil {
					replacements = map[string][]sarif.Replacement{}
				}
				replacements[uri] = append(replacements[uri], sarif.Replacement{
					DeletedRegion:   region,
					InsertedContent: &sarif.ArtifactContent{Text: *span.SuggestedReplacement},
				})
			}
		}
		if len(replacements) == 0 {
			continue
		}

		fix := sarif.Fix{ArtifactChanges: []sarif.ArtifactChange{}}
		if child.Message != "" {
			fix.Description = &sarif.Message{Text: child.Message}
		}
		// one artifact change per file, span order decides the file order
		seen := map[string]bool{}
		for _, span := range child.Spans {
			uri := convert.NormalizePath(span.FileName, baseDir)
			if seen[uri] || len(replacements[uri]) == 0 {
				continue
			}
			seen[uri] = true
			fix.ArtifactChanges = append(fix.ArtifactChanges, sarif.ArtifactChange{
				ArtifactLocation: sarif.ArtifactLocation{URI: uri},
				Replacements:     replacements[uri],
			})
		}
		fixes = append(fixes, fix)
	}
	return related, fixes
}

// lintURI links clippy lints to their documentation entry. Plain rustc
// lints have no stable per-lint page.
func lintURI(code string) string {
	name, found := strings.CutPrefix(code, "clippy::")
	if !found {
		return ""
	}
	return "https://rust-lang.github.io/rust-clippy/master/index.html#" + name
}
