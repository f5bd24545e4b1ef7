// Package shellcheck converts shellcheck's JSON output into a sarif
// report. Both the plain json format (an array of comments) and the
// json1 format (an object wrapping that array) are accepted.
package shellcheck

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/l3montree-dev/lint2sarif/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	toolName       = "shellcheck"
	informationURI = "https://www.shellcheck.net/"
)

// Severities maps shellcheck's level vocabulary onto canonical levels.
var Severities = convert.SeverityMap{
	"error":   sarif.LevelError,
	"warning": sarif.LevelWarning,
	"info":    sarif.LevelNote,
	"style":   sarif.LevelNote,
}

// Record is one shellcheck comment.
type Record struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	EndLine   int    `json:"endLine"`
	Column    int    `json:"column"`
	EndColumn int    `json:"endColumn"`
	Level     string `json:"level"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Fix       *Fix   `json:"fix"`
}

type Fix struct {
	Replacements []FixReplacement `json:"replacements"`
}

type FixReplacement struct {
	Line        int    `json:"line"`
	EndLine     int    `json:"endLine"`
	Column      int    `json:"column"`
	EndColumn   int    `json:"endColumn"`
	Replacement string `json:"replacement"`
}

type Options struct {
	ToolVersion string
	BaseDir     string
	Category    string
	RunGUID     string
}

// Convert reads shellcheck's JSON output and produces a report with a
// single run. Malformed top-level JSON is fatal, individual comments
// that cannot be mapped are skipped and reported as warnings.
func Convert(r io.Reader, opts Options) (convert.Output, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageParse, errors.Wrap(err, "could not read input"))
	}

	records, err := decodeRecords(bytes.TrimSpace(raw))
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageParse, errors.Wrap(err, "could not parse shellcheck json"))
	}

	builder := sarif.NewRunBuilder(toolName).
		WithVersion(opts.ToolVersion).
		WithSemanticVersion(convert.SemanticVersion(opts.ToolVersion)).
		WithInformationURI(informationURI).
		WithAutomationDetails(opts.Category, opts.RunGUID)

	var out convert.Output
	for i, record := range records {
		id := fmt.Sprintf("comment %d", i)

		if record.Code <= 0 {
			out.AddWarning(id, "missing check code")
			continue
		}
		if record.File == "" {
			out.AddWarning(id, "missing file")
			continue
		}
		if record.Message == "" {
			out.AddWarning(id, "empty message")
			continue
		}
		region, err := convert.RegionFrom(record.Line, record.Column, record.EndLine, record.EndColumn)
		if err != nil {
			out.AddWarning(id, err.Error())
			continue
		}

		code := "SC" + strconv.Itoa(record.Code)
		if !builder.HasRule(code) {
			rule, err := sarif.NewRule(code, record.Message)
			if err != nil {
				out.AddWarning(id, err.Error())
				continue
			}
			rule.HelpURI = utils.Ptr("https://www.shellcheck.net/wiki/" + code)
			builder.AddRule(rule)
		}

		uri := convert.NormalizePath(record.File, opts.BaseDir)
		result, err := sarif.NewResult(code, Severities.Resolve(record.Level), record.Message, sarif.NewLocation(uri, &region))
		if err != nil {
			out.AddWarning(id, err.Error())
			continue
		}
		if fix := mapFix(record, uri, &out, id); fix != nil {
			result.Fixes = []sarif.Fix{*fix}
		}
		builder.AddResult(result)
	}

	run, err := builder.Build()
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageBuild, err)
	}
	out.Report = sarif.NewReport(run)
	out.FlagEmpty(len(records) > 0)
	return out, nil
}

func decodeRecords(trimmed []byte) ([]Record, error) {
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var records []Record
		return records, json.Unmarshal(trimmed, &records)
	case '{':
		// json1 wraps the comments in an object
		var wrapper struct {
			Comments []Record `json:"comments"`
		}
		return wrapper.Comments, json.Unmarshal(trimmed, &wrapper)
	}
	return nil, fmt.Errorf("input is neither a json array nor a json1 object")
}

// mapFix translates an auto-fix into a single artifact change on the
// commented file. Replacements with malformed coordinates are dropped
// with a warning, the finding itself stays.
func mapFix(record Record, uri string, out *convert.Output, id string) *sarif.Fix {
	if record.Fix == nil || len(record.Fix.Replacements) == 0 {
		return nil
	}

	replacements := make([]sarif.Replacement, 0, len(record.Fix.Replacements))
	for _, repl := range record.Fix.Replacements {
		region, err := convert.RegionFrom(repl.Line, repl.Column, repl.EndLine, repl.EndColumn)
		if err != nil {
			out.AddWarning(id, fmt.Sprintf("fix replacement: %v", err))
			continue
		}
		replacements = append(replacements, sarif.Replacement{
			DeletedRegion:   region,
			InsertedContent: &sarif.ArtifactContent{Text: repl.Replacement},
		})
	}
	if len(replacements) == 0 {
		return nil
	}

	return &sarif.Fix{
		Description: &sarif.Message{Text: record.Message},
		ArtifactChanges: []sarif.ArtifactChange{
			{
				ArtifactLocation: sarif.ArtifactLocation{URI: uri},
				Replacements:     replacements,
			},
		},
	}
}
