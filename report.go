package schematic

import (
	"encoding/json"
	"fmt"
	"io"
)

// Report is the ordered collection of diagnostics produced by one validation
// pass over a SchemaDocument. Ordering is deterministic: findings appear in
// check order, then table-declaration order, then column order.
type Report struct {
	Document    string       `json:"document,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Pass reports the overall verdict: true iff no error-severity diagnostics.
func (r *Report) Pass() bool {
	return len(r.Errors()) == 0
}

// Errors returns the error-severity diagnostics in report order.
func (r *Report) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns the warning-severity diagnostics in report order.
func (r *Report) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Render writes a human-readable summary, errors first, then warnings.
func (r *Report) Render(w io.Writer) {
	errs := r.Errors()
	warns := r.Warnings()

	if len(errs) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, d := range errs {
			renderDiagnostic(w, d)
		}
	}
	if len(warns) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, d := range warns {
			renderDiagnostic(w, d)
		}
	}

	if r.Pass() {
		fmt.Fprintf(w, "validation passed (%d warning(s))\n", len(warns))
	} else {
		fmt.Fprintf(w, "validation failed: %d error(s), %d warning(s)\n", len(errs), len(warns))
	}
}

func renderDiagnostic(w io.Writer, d Diagnostic) {
	path := d.Table
	if d.Column != "" {
		path = d.Table + "." + d.Column
	}
	if path != "" {
		fmt.Fprintf(w, "  [%s] %s: %s\n", d.Code, path, d.Message)
		return
	}
	fmt.Fprintf(w, "  [%s] %s\n", d.Code, d.Message)
}

// RenderJSON writes the report as a JSON object for machine consumption.
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
