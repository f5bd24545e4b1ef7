// Package sarif holds an in-memory representation of the subset of the
// SARIF 2.1.0 object model that the converters emit. Required fields use
// value types, optional fields use pointers so that omitted optionals
// survive an encode/decode round trip unchanged.
package sarif

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

const (
	// Version is the interchange format version every report declares.
	Version = "2.1.0"
	// SchemaURI is the published JSON schema for Version.
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

// Level is the severity of a result.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelNote    Level = "note"
	LevelNone    Level = "none"
)

type Report struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool              Tool                  `json:"tool"`
	Results           []Result              `json:"results"`
	AutomationDetails *RunAutomationDetails `json:"automationDetails,omitempty"`
}

type RunAutomationDetails struct {
	ID   *string `json:"id,omitempty"`
	GUID *string `json:"guid,omitempty"`
}

type Tool struct {
	Driver ToolComponent `json:"driver"`
}

type ToolComponent struct {
	Name            string                `json:"name"`
	Version         *string               `json:"version,omitempty"`
	SemanticVersion *string               `json:"semanticVersion,omitempty"`
	InformationURI  *string               `json:"informationUri,omitempty"`
	Rules           []ReportingDescriptor `json:"rules"`
}

// ReportingDescriptor describes a rule. Identity is the ID; two results
// referencing the same tool-native check share one descriptor.
type ReportingDescriptor struct {
	ID                   string                  `json:"id"`
	Name                 *string                 `json:"name,omitempty"`
	ShortDescription     *MultiformatMessage     `json:"shortDescription,omitempty"`
	FullDescription      *MultiformatMessage     `json:"fullDescription,omitempty"`
	HelpURI              *string                 `json:"helpUri,omitempty"`
	DefaultConfiguration *ReportingConfiguration `json:"defaultConfiguration,omitempty"`
}

type ReportingConfiguration struct {
	Level Level `json:"level,omitempty"`
}

type Result struct {
	RuleID           string     `json:"ruleId"`
	Level            Level      `json:"level,omitempty"`
	Message          Message    `json:"message"`
	Locations        []Location `json:"locations"`
	RelatedLocations []Location `json:"relatedLocations,omitempty"`
	Fixes            []Fix      `json:"fixes,omitempty"`
}

type Message struct {
	Text string `json:"text"`
}

type MultiformatMessage struct {
	Text     string  `json:"text"`
	Markdown *string `json:"markdown,omitempty"`
}

type Location struct {
	PhysicalLocation *PhysicalLocation `json:"physicalLocation,omitempty"`
	Message          *Message          `json:"message,omitempty"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

type ArtifactLocation struct {
	URI       string  `json:"uri"`
	URIBaseID *string `json:"uriBaseId,omitempty"`
}

type Region struct {
	StartLine   int              `json:"startLine"`
	StartColumn *int             `json:"startColumn,omitempty"`
	EndLine     *int             `json:"endLine,omitempty"`
	EndColumn   *int             `json:"endColumn,omitempty"`
	Snippet     *ArtifactContent `json:"snippet,omitempty"`
}

type ArtifactContent struct {
	Text string `json:"text"`
}

type Fix struct {
	Description     *Message         `json:"description,omitempty"`
	ArtifactChanges []ArtifactChange `json:"artifactChanges"`
}

type ArtifactChange struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Replacements     []Replacement    `json:"replacements"`
}

type Replacement struct {
	DeletedRegion   Region           `json:"deletedRegion"`
	InsertedContent *ArtifactContent `json:"insertedContent,omitempty"`
}

// NewReport wraps the given runs into a report carrying the pinned format
// version and schema reference.
func NewReport(runs ...Run) Report {
	return Report{
		Version: Version,
		Schema:  SchemaURI,
		Runs:    runs,
	}
}

// Write encodes the report as indented JSON, matching the layout the
// converters document for their output.
func (r *Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "could not encode sarif report")
	}
	return nil
}

// Read decodes a report previously produced by Write.
func Read(r io.Reader) (*Report, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, errors.Wrap(err, "could not decode sarif report")
	}
	return &report, nil
}
