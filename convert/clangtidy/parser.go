package clangtidy

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Diagnostic is one parsed clang-tidy diagnostic. Check holds the
// bracketed check name of the header line and may be empty, Snippet the
// first source line echoed below the header.
type Diagnostic struct {
	File       string
	Line       int
	Column     int
	Severity   string
	Message    string
	Check      string
	Snippet    string
	HeaderLine int
}

type parserState int

const (
	stateIdle parserState = iota
	stateInDiagnostic
)

const maxLineSize = 1024 * 1024

// Parse reads clang-tidy's line oriented output and cuts it into
// diagnostics. A diagnostic starts at a header line
// (path:line:column: severity: message [check]) and swallows the
// following non-header lines: the first one is kept as the source
// snippet, carets and further context are dropped. Lines before the
// first header (build banners, compilation commands) are dropped
// silently. Header lookalikes with non-numeric coordinates count as
// plain continuation lines.
func Parse(r io.Reader) ([]Diagnostic, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	state := stateIdle
	var current Diagnostic
	var diagnostics []Diagnostic

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if diagnostic, ok := parseHeader(line); ok {
			if state == stateInDiagnostic {
				diagnostics = append(diagnostics, current)
			}
			diagnostic.HeaderLine = lineNo
			current = diagnostic
			state = stateInDiagnostic
			continue
		}

		if state == stateIdle {
			continue
		}
		if current.Snippet == "" && strings.TrimSpace(line) != "" {
			current.Snippet = line
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read diagnostic stream")
	}

	if state == stateInDiagnostic {
		diagnostics = append(diagnostics, current)
	}
	return diagnostics, nil
}

// parseHeader tries to read a line as a diagnostic header. The path may
// itself contain colons (windows drive letters), so every colon is
// tried as the path end until the remainder parses.
func parseHeader(line string) (Diagnostic, bool) {
	offset := 0
	for {
		idx := strings.IndexByte(line[offset:], ':')
		if idx < 0 {
			return Diagnostic{}, false
		}
		end := offset + idx
		if diagnostic, ok := parseAfterPath(line[:end], line[end+1:]); ok {
			return diagnostic, true
		}
		offset = end + 1
	}
}

func parseAfterPath(path, rest string) (Diagnostic, bool) {
	if path == "" {
		return Diagnostic{}, false
	}

	lineStr, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return Diagnostic{}, false
	}
	lineNo, err := strconv.Atoi(lineStr)
	if err != nil {
		return Diagnostic{}, false
	}

	colStr, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return Diagnostic{}, false
	}
	column, err := strconv.Atoi(colStr)
	if err != nil {
		return Diagnostic{}, false
	}

	rest, ok = strings.CutPrefix(rest, " ")
	if !ok {
		return Diagnostic{}, false
	}
	severity, rest, ok := strings.Cut(rest, ": ")
	if !ok {
		severity, rest, ok = strings.Cut(rest, ":")
	}
	if !ok {
		return Diagnostic{}, false
	}
	switch severity {
	case "error", "warning", "note":
	default:
		return Diagnostic{}, false
	}

	message, check := splitCheck(rest)
	return Diagnostic{
		File:     path,
		Line:     lineNo,
		Column:   column,
		Severity: severity,
		Message:  message,
		Check:    check,
	}, true
}

// splitCheck cuts a trailing " [check]" off the message. Clang-tidy can
// list several checks comma separated, the first one is the check the
// finding belongs to.
func splitCheck(message string) (string, string) {
	if !strings.HasSuffix(message, "]") {
		return message, ""
	}
	idx := strings.LastIndex(message, " [")
	if idx < 0 {
		return message, ""
	}

	check := message[idx+2 : len(message)-1]
	if check == "" {
		return message, ""
	}
	check, _, _ = strings.Cut(check, ",")
	return message[:idx], check
}
