package pipeline

import "fmt"

// The three fatal failure points of a run each get an explicit error
// kind: input I/O, schema validation, and model fitting.

// LoadError wraps a failure to open or read the input file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports a malformed header, row or field value.
// Row is 1-based over data rows; 0 means the header itself.
type SchemaError struct {
	Column string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("schema: header: %s", e.Reason)
	}
	return fmt.Sprintf("schema: row %d, column %q: %s", e.Row, e.Column, e.Reason)
}

// FitError wraps a model-fitting failure; fatal to the run.
type FitError struct {
	Model string
	Err   error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("fit %s: %v", e.Model, e.Err)
}

func (e *FitError) Unwrap() error { return e.Err }
