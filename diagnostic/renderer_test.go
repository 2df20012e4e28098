// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const branchSource = `operation Foo() : Int {
    let q = Allocate();
    if M(q) == One { 1 } else { 0 }
}
`

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, errors.New("not found: " + name)
			}
			return []byte(s), nil
		},
	}
}

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{"foo.qs": branchSource})
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Code:     "use-of-dynamic-bool",
		Message:  "cannot use a bool value that depends on a measurement result",
		Spans: []Span{
			{File: "foo.qs", Line: 3, Col: 8, EndCol: 18, Label: "depends on a measurement"},
		},
		Notes: []string{"requires the Adaptive capability"},
	})
	want := "error[use-of-dynamic-bool]: cannot use a bool value that depends on a measurement result\n" +
		"  --> foo.qs:3:8\n" +
		"   |\n" +
		" 3 |      if M(q) == One { 1 } else { 0 }\n" +
		"   |         ^^^^^^^^^^^ depends on a measurement\n" +
		"   |\n" +
		"   = note: requires the Adaptive capability\n"
	assert.Equal(t, want, got)
}

func TestRenderWarningWithoutCode(t *testing.T) {
	r := testRenderer(map[string]string{"foo.qs": branchSource})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "operation is recursive",
		Spans:    []Span{{File: "foo.qs", Line: 1, Col: 11, EndCol: 13}},
	})
	assert.True(t, strings.HasPrefix(got, "warning: operation is recursive\n"), got)
	assert.Contains(t, got, "--> foo.qs:1:11")
	assert.Contains(t, got, "operation Foo() : Int {")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans:    []Span{{File: "<stdin>", Line: 5, Col: 3}},
	})
	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> <stdin>:5:3")
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{"foo.qs": branchSource})
	got := render(t, r, Diagnostic{
		Severity: SeverityNote,
		Message:  "allocation",
		Spans:    []Span{{File: "foo.qs", Line: 2, Col: 13}},
	})
	// "Allocate" runs up to the opening parenthesis.
	assert.Contains(t, got, "   |              ^^^^^^^^\n")
	assert.NotContains(t, got, "^^^^^^^^^")
}

func TestRenderMultiByteColumns(t *testing.T) {
	r := testRenderer(map[string]string{"u.qs": "let é = M(q);"})
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "dynamic",
		Spans:    []Span{{File: "u.qs", Line: 1, Col: 9}},
	})
	assert.Contains(t, got, "  |          ^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{"foo.qs": branchSource})
	diags := []Diagnostic{
		{
			Severity: SeverityError,
			Message:  "first",
			Spans:    []Span{{File: "foo.qs", Line: 2, Col: 5, EndCol: 7}},
		},
		{
			Severity: SeverityError,
			Message:  "second",
			Spans:    []Span{{File: "foo.qs", Line: 3, Col: 5, EndCol: 6}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))
	got := buf.String()
	assert.GreaterOrEqual(t, len(strings.Split(got, "\n\n")), 2)
	assert.Contains(t, got, "error: first")
	assert.Contains(t, got, "error: second")
}

func TestRenderReadsEachSourceOnce(t *testing.T) {
	reads := 0
	r := &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			reads++
			return []byte(strings.ReplaceAll(branchSource, "\n", "\r\n")), nil
		},
	}
	diags := []Diagnostic{
		{Severity: SeverityError, Message: "first", Spans: []Span{{File: "foo.qs", Line: 2, Col: 5, EndCol: 7}}},
		{Severity: SeverityError, Message: "second", Spans: []Span{{File: "foo.qs", Line: 3, Col: 8, EndCol: 11}}},
		{Severity: SeverityError, Message: "past the end", Spans: []Span{{File: "foo.qs", Line: 40, Col: 1}}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))
	assert.Equal(t, 1, reads)
	assert.Contains(t, buf.String(), " 2 |      let q = Allocate();\n")
	assert.Contains(t, buf.String(), " 3 |      if M(q) == One { 1 } else { 0 }\n")
	assert.NotContains(t, buf.String(), " 40 |")
}

func TestRenderNoSpans(t *testing.T) {
	got := render(t, testRenderer(nil), Diagnostic{
		Severity: SeverityError,
		Message:  "unknown target profile",
	})
	assert.Equal(t, "error: unknown target profile\n", got)
}

func TestColorAlways(t *testing.T) {
	r := &Renderer{Color: ColorAlways}
	got := render(t, r, Diagnostic{Severity: SeverityError, Message: "x"})
	assert.Contains(t, got, "\033[1;31m")
}

func TestColorAlwaysWarningUnderline(t *testing.T) {
	r := testRenderer(map[string]string{"foo.qs": branchSource})
	r.Color = ColorAlways
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "x",
		Spans:    []Span{{File: "foo.qs", Line: 3, Col: 8, EndCol: 11, Label: "here"}},
	})
	assert.Contains(t, got, "\033[33m^^^^\033[0m \033[33mhere\033[0m")
	assert.NotContains(t, got, "\033[1;31m")
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "ALWAYS": ColorAlways, "never": ColorNever} {
		mode, err := ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, mode, in)
	}
	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestMapReader(t *testing.T) {
	read := MapReader(map[string]string{"a.qs": "x"})
	data, err := read("a.qs")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	_, err = read("/nonexistent/b.qs")
	assert.Error(t, err)
}
