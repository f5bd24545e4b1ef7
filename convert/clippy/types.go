package clippy

// CompilerMessage is one line of cargo's JSON message stream. Only
// lines with reason compiler-message carry a diagnostic, everything
// else (artifacts, build summaries) is build bookkeeping.
type CompilerMessage struct {
	Reason    string      `json:"reason"`
	PackageID string      `json:"package_id"`
	Message   *Diagnostic `json:"message"`
}

// Diagnostic is rustc's diagnostic structure. Children hold the
// attached help and note sub-diagnostics and nest the same shape.
type Diagnostic struct {
	Message  string       `json:"message"`
	Code     *Code        `json:"code"`
	Level    string       `json:"level"`
	Spans    []Span       `json:"spans"`
	Children []Diagnostic `json:"children"`
	Rendered *string      `json:"rendered"`
}

type Code struct {
	Code        string  `json:"code"`
	Explanation *string `json:"explanation"`
}

// Span is a source range of a diagnostic, coordinates are 1-based.
type Span struct {
	FileName             string     `json:"file_name"`
	LineStart            int        `json:"line_start"`
	LineEnd              int        `json:"line_end"`
	ColumnStart          int        `json:"column_start"`
	ColumnEnd            int        `json:"column_end"`
	IsPrimary            bool       `json:"is_primary"`
	Label                *string    `json:"label"`
	SuggestedReplacement *string    `json:"suggested_replacement"`
	Text                 []SpanLine `json:"text"`
}

type SpanLine struct {
	Text           string `json:"text"`
	HighlightStart int    `json:"highlight_start"`
	HighlightEnd   int    `json:"highlight_end"`
}
