package tonel

import "github.com/opal-lang/tonel/internal/diag"

// translateMethodError maps a Smalltalk parser failure, whose
// (line, column) are local to a single method body, back to
// file-absolute coordinates per spec.md §4.5: add body_start_line - 1
// to the line, and for a first-line failure only, add
// body_start_column - 1 to the column.
func translateMethodError(err error, m MethodDefinition) error {
	d, ok := err.(*diag.Diagnostic)
	if !ok {
		return err
	}
	line := d.Line + m.BodyStartLine - 1
	col := d.Column
	if d.Line == 1 {
		col = d.Column + m.BodyStartColumn - 1
	}
	return &diag.Diagnostic{Kind: d.Kind, Reason: d.Reason, Line: line, Column: col, ErrorText: d.ErrorText}
}
