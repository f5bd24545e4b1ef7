// Package hadolint converts hadolint's JSON output (hadolint -f json)
// into a sarif report.
package hadolint

import (
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
	toolName       = "hadolint"
	informationURI = "https://github.com/hadolint/hadolint"
)

// Severities maps hadolint's level vocabulary onto canonical levels.
var Severities = convert.SeverityMap{
	"error":   sarif.LevelError,
	"warning": sarif.LevelWarning,
	"info":    sarif.LevelNote,
	"style":   sarif.LevelNote,
}

// Record is one hadolint finding.
type Record struct {
	Code    string `json:"code"`
	Column  int    `json:"column"`
	File    string `json:"file"`
	Level   string `json:"level"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type Options struct {
	ToolVersion string
	BaseDir     string
	Category    string
	RunGUID     string
}

// Convert reads hadolint's JSON array and produces a report with a
// single run. Malformed top-level JSON is fatal, individual records that
// cannot be mapped are skipped and reported as warnings.
func Convert(r io.Reader, opts Options) (convert.Output, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return convert.Output{}, convert.NewStageError(convert.StageParse, errors.Wrap(err, "could not read input"))
	}

	var records []Record
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return convert.Output{}, convert.NewStageError(convert.StageParse, errors.Wrap(err, "could not parse hadolint json"))
		}
	}

	builder := sarif.NewRunBuilder(toolName).
		WithVersion(opts.ToolVersion).
		WithSemanticVersion(convert.SemanticVersion(opts.ToolVersion)).
		WithInformationURI(informationURI).
		WithAutomationDetails(opts.Category, opts.RunGUID)

	var out convert.Output
	for i, record := range records {
		id := fmt.Sprintf("record %d", i)

		if record.Code == "" {
			out.AddWarning(id, "missing rule code")
			continue
		}
		if record.Message == "" {
			out.AddWarning(id, "empty message")
			continue
		}
		region, err := convert.RegionFrom(record.Line, record.Column, 0, 0)
		if err != nil {
			out.AddWarning(id, err.Error())
			continue
		}

		if !builder.HasRule(record.Code) {
			rule, err := sarif.NewRule(record.Code, utils.OrDefault(Description(record.Code), record.Message))
			if err != nil {
				out.AddWarning(id, err.Error())
				continue
			}
			rule.HelpURI = utils.EmptyThenNil(wikiURI(record.Code))
			if level := DefaultLevel(record.Code); level != nil {
				rule.DefaultConfiguration = &sarif.ReportingConfiguration{Level: *level}
			}
			builder.AddRule(rule)
		}

		level := Severities.Resolve(record.Level)
		if record.Level == "" {
			level = utils.OrDefault(DefaultLevel(record.Code), sarif.LevelWarning)
		}

		uri := convert.NormalizePath(record.File, opts.BaseDir)
		result, err := sarif.NewResult(record.Code, level, record.Message, sarif.NewLocation(uri, &region))
		if err != nil {
			out.AddWarning(id, err.Error())
			continue
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

// wikiURI returns the documentation page for a check. Hadolint hosts its
// own DL rules and delegates SC codes to the shellcheck wiki.
func wikiURI(code string) string {
	switch {
	case strings.HasPrefix(code, "DL"):
		return "https://github.com/hadolint/hadolint/wiki/" + code
	case strings.HasPrefix(code, "SC"):
		return "https://www.shellcheck.net/wiki/" + code
	}
	return ""
}
