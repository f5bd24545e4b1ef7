// Package clangtidy converts clang-tidy's free text output into a
// sarif report. Unlike the JSON based tools the input has to be parsed
// into diagnostic records first, see Parse.
package clangtidy

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/l3montree-dev/lint2sarif/utils"
)

const (
	toolName       = "clang-tidy"
	informationURI = "https://clang.llvm.org/extra/clang-tidy/"
)

// Severities maps clang-tidy's level vocabulary onto canonical levels.
var Severities = convert.SeverityMap{
	"error":   sarif.LevelError,
	"warning": sarif.LevelWarning,
	"note":    sarif.LevelNote,
}

type Options struct {
	ToolVersion string
	BaseDir     string
	Category    string
	RunGUID     string
}

// Convert parses clang-tidy's output and produces a report with a
// single run. Note diagnostics directly following an error or warning
// annotate that finding as a related location and additionally become a
// note level result under the same rule, so they stay visible in
// viewers that ignore related locations.
func Convert(r io.Reader, opts Options) (convert.Output, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageParse, errors.Wrap(err, "could not read input"))
	}
	diagnostics, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageParse, err)
	}

	builder := sarif.NewRunBuilder(toolName).
		WithVersion(opts.ToolVersion).
		WithSemanticVersion(convert.SemanticVersion(opts.ToolVersion)).
		WithInformationURI(informationURI).
		WithAutomationDetails(opts.Category, opts.RunGUID)

	var out convert.Output
	var results []sarif.Result
	// index into results of the finding consecutive notes belong to
	parentIdx := -1

	for _, diagnostic := range diagnostics {
		id := fmt.Sprintf("line %d", diagnostic.HeaderLine)
		isNote := diagnostic.Severity == "note"
		if !isNote {
			parentIdx = -1
		}

		if diagnostic.Message == "" {
			out.AddWarning(id, "empty message")
			continue
		}
		region, err := convert.RegionFrom(diagnostic.Line, diagnostic.Column, 0, 0)
		if err != nil {
			out.AddWarning(id, err.Error())
			continue
		}
		if diagnostic.Snippet != "" {
			region.Snippet = &sarif.ArtifactContent{Text: diagnostic.Snippet}
		}
		location := sarif.NewLocation(convert.NormalizePath(diagnostic.File, opts.BaseDir), &region)

		ruleID := diagnostic.Check
		if isNote && parentIdx >= 0 {
			results[parentIdx].RelatedLocations = append(results[parentIdx].RelatedLocations,
				location.WithMessage(diagnostic.Message))
			if ruleID == "" {
				ruleID = results[parentIdx].RuleID
			}
		}
		if ruleID == "" {
			ruleID = "clang-diagnostic-" + diagnostic.Severity
		}

		if !builder.HasRule(ruleID) {
			rule, err := sarif.NewRule(ruleID, diagnostic.Message)
			if err != nil {
				out.AddWarning(id, err.Error())
				continue
			}
			rule.HelpURI = utils.EmptyThenNil(checkURI(ruleID))
			builder.AddRule(rule)
		}

		result, err := sarif.NewResult(ruleID, Severities.Resolve(diagnostic.Severity), diagnostic.Message, location)
		if err != nil {
			out.AddWarning(id, err.Error())
			continue
		}
		results = append(results, result)
		if !isNote {
			parentIdx = len(results) - 1
		}
	}

	for _, result := range results {
		builder.AddResult(result)
	}

	run, err := builder.Build()
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageBuild, err)
	}
	out.Report = sarif.NewReport(run)
	out.FlagEmpty(len(bytes.TrimSpace(raw)) > 0)
	return out, nil
}

// checkURI links a check to its documentation page. Compiler warnings
// relayed by clang-tidy (-W flags and clang-diagnostic pseudo checks)
// have no per-check page.
func checkURI(check string) string {
	if check == "" || strings.HasPrefix(check, "-W") || strings.HasPrefix(check, "clang-diagnostic") {
		return ""
	}

	group, rest, found := strings.Cut(check, "-")
	if after, ok := strings.CutPrefix(check, "clang-analyzer-"); ok {
		group, rest, found = "clang-analyzer", after, true
	}
	if !found || rest == "" {
		return ""
	}
	return fmt.Sprintf("https://clang.llvm.org/extra/clang-tidy/checks/%s/%s.html", group, rest)
}
