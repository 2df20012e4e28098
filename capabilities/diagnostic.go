// Copyright © 2024 The ELPS authors

package capabilities

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/luthersystems/qrca/fir"
	"github.com/luthersystems/qrca/rca"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	severityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.  An unset severity
// is marshaled as "error".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("error")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

func positionOf(p fir.Position) Position {
	return Position{File: p.File, Line: p.Line, Col: p.Col}
}

// String returns the position in file:line:col format.
func (p Position) String() string {
	file := p.File
	if file == "" {
		file = "<unknown>"
	}
	if p.Line == 0 {
		return file
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", file, p.Line)
}

// Diagnostic is a single use of a runtime feature.
type Diagnostic struct {
	// Pos is the start of the offending source.
	Pos Position `json:"pos"`

	// End is the end of the offending source on the same or a later line.
	End Position `json:"end"`

	// Span is the byte range of the offending node.
	Span fir.Span `json:"-"`

	// Package is the name of the package the node belongs to.
	Package string `json:"package"`

	// Feature is the single runtime feature the node introduces.
	Feature rca.RuntimeFeatureFlags `json:"-"`

	// Code is the kebab-case name of Feature.
	Code string `json:"code"`

	Message  string   `json:"message"`
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// String returns the diagnostic in go vet style: file:line:col: message
// [code] with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s [%s]", d.Pos, d.Message, d.Code)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Pos.File != b.Pos.File {
			return a.Pos.File < b.Pos.File
		}
		if a.Span.Lo != b.Span.Lo {
			return a.Span.Lo < b.Span.Lo
		}
		if a.Span.Hi != b.Span.Hi {
			return a.Span.Hi < b.Span.Hi
		}
		return a.Feature < b.Feature
	})
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.  A nil slice is written as an
// empty array.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}
