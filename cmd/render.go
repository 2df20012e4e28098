// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/qrca/capabilities"
	"github.com/luthersystems/qrca/diagnostic"
)

// toDiagnostic converts a capability finding for rendering.
func toDiagnostic(cd capabilities.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Code:    cd.Code,
		Message: cd.Message,
	}
	switch cd.Severity {
	case capabilities.SeverityWarning:
		d.Severity = diagnostic.SeverityWarning
	case capabilities.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	default:
		d.Severity = diagnostic.SeverityError
	}
	if cd.Pos.File != "" {
		span := diagnostic.Span{File: cd.Pos.File, Line: cd.Pos.Line, Col: cd.Pos.Col}
		// End is exclusive; multi-line nodes underline their first token.
		if cd.End.Line == cd.Pos.Line && cd.End.Col > cd.Pos.Col {
			span.EndCol = cd.End.Col - 1
		}
		if cd.Feature != 0 {
			span.Label = "needs " + capabilities.Required(cd.Feature).String()
		}
		d.Spans = append(d.Spans, span)
	} else {
		d.Notes = append(d.Notes, "in package "+cd.Package)
	}
	d.Notes = append(d.Notes, cd.Notes...)
	return d
}

func renderDiagnostics(w io.Writer, r *diagnostic.Renderer, diags []capabilities.Diagnostic) error {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, cd := range diags {
		ds = append(ds, toDiagnostic(cd))
	}
	return r.RenderAll(w, ds)
}
