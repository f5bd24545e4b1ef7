package sarif

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/l3montree-dev/lint2sarif/utils"
)

var (
	ErrEmptyRuleID   = errors.New("rule id must not be empty")
	ErrEmptyMessage  = errors.New("result message must not be empty")
	ErrNoLocation    = errors.New("result needs at least one location")
	ErrEmptyToolName = errors.New("tool name must not be empty")
)

// NewRule builds a descriptor for a tool-native check. The short
// description falls back to the id so that viewers always have a label.
func NewRule(id, shortDescription string) (ReportingDescriptor, error) {
	if id == "" {
		return ReportingDescriptor{}, ErrEmptyRuleID
	}
	if shortDescription == "" {
		shortDescription = id
	}
	return ReportingDescriptor{
		ID:               id,
		Name:             utils.Ptr(id),
		ShortDescription: &MultiformatMessage{Text: shortDescription},
	}, nil
}

// NewResult builds a result and enforces the fields every result must
// carry: a rule reference, a non-empty message and at least one location.
func NewResult(ruleID string, level Level, message string, locations ...Location) (Result, error) {
	if ruleID == "" {
		return Result{}, ErrEmptyRuleID
	}
	if message == "" {
		return Result{}, ErrEmptyMessage
	}
	if len(locations) == 0 {
		return Result{}, ErrNoLocation
	}
	return Result{
		RuleID:    ruleID,
		Level:     level,
		Message:   Message{Text: message},
		Locations: locations,
	}, nil
}

// NewLocation places a region inside the artifact identified by uri.
func NewLocation(uri string, region *Region) Location {
	return Location{
		PhysicalLocation: &PhysicalLocation{
			ArtifactLocation: ArtifactLocation{URI: uri},
			Region:           region,
		},
	}
}

// WithMessage attaches a message to the location, used for related
// locations that carry their own text.
func (l Location) WithMessage(text string) Location {
	l.Message = &Message{Text: text}
	return l
}

// RunBuilder collects rules and results for a single run. Rules keep
// their first-seen order and are deduplicated by id, so repeated
// diagnostics of the same check share one descriptor.
type RunBuilder struct {
	driver    ToolComponent
	ruleIndex map[string]int
	results   []Result
	details   *RunAutomationDetails
}

func NewRunBuilder(toolName string) *RunBuilder {
	return &RunBuilder{
		driver: ToolComponent{
			Name:  toolName,
			Rules: []ReportingDescriptor{},
		},
		ruleIndex: map[string]int{},
		results:   []Result{},
	}
}

func (b *RunBuilder) WithVersion(version string) *RunBuilder {
	b.driver.Version = utils.EmptyThenNil(version)
	return b
}

func (b *RunBuilder) WithSemanticVersion(version string) *RunBuilder {
	b.driver.SemanticVersion = utils.EmptyThenNil(version)
	return b
}

func (b *RunBuilder) WithInformationURI(uri string) *RunBuilder {
	b.driver.InformationURI = utils.EmptyThenNil(uri)
	return b
}

func (b *RunBuilder) WithAutomationDetails(id, guid string) *RunBuilder {
	if id == "" && guid == "" {
		return b
	}
	b.details = &RunAutomationDetails{
		ID:   utils.EmptyThenNil(id),
		GUID: utils.EmptyThenNil(guid),
	}
	return b
}

// HasRule reports whether a descriptor with the given id was already
// added.
func (b *RunBuilder) HasRule(id string) bool {
	_, ok := b.ruleIndex[id]
	return ok
}

// AddRule registers the descriptor unless one with the same id exists.
// The first registration wins.
func (b *RunBuilder) AddRule(rule ReportingDescriptor) {
	if b.HasRule(rule.ID) {
		return
	}
	b.ruleIndex[rule.ID] = len(b.driver.Rules)
	b.driver.Rules = append(b.driver.Rules, rule)
}

func (b *RunBuilder) AddResult(result Result) {
	b.results = append(b.results, result)
}

// Build assembles the run. It fails when the tool name is empty or a
// result references a rule that was never registered, so a run can never
// leave the builder with dangling rule references.
func (b *RunBuilder) Build() (Run, error) {
	if b.driver.Name == "" {
		return Run{}, ErrEmptyToolName
	}
	for i, result := range b.results {
		if !b.HasRule(result.RuleID) {
			return Run{}, fmt.Errorf("result %d references unknown rule %q", i, result.RuleID)
		}
	}
	return Run{
		Tool:              Tool{Driver: b.driver},
		Results:           b.results,
		AutomationDetails: b.details,
	}, nil
}
