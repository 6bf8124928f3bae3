package validator

import (
	"fmt"
)

// Kind represents the category of a structural problem.
type Kind int

const (
	KindMismatch Kind = iota
	KindUnexpectedClose
	KindUnclosed
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindMismatch:
		return "mismatch"
	case KindUnexpectedClose:
		return "unexpected_close"
	case KindUnclosed:
		return "unclosed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name for json and yaml output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic describes one structural problem. Expected and ExpectedLine are
// only set for mismatches.
type Diagnostic struct {
	Kind         Kind   `json:"kind" yaml:"kind"`
	Tag          string `json:"tag" yaml:"tag"`
	Line         int    `json:"line" yaml:"line"`
	Expected     string `json:"expected,omitempty" yaml:"expected,omitempty"`
	ExpectedLine int    `json:"expected_line,omitempty" yaml:"expected_line,omitempty"`
}

// String renders the diagnostic in its stable human-readable form.
//
// The unexpected-close message labels the line number as "column"; the wording
// is part of the output contract and is kept as is.
func (d Diagnostic) String() string {
	switch d.Kind {
	case KindMismatch:
		return fmt.Sprintf("Mismatch: Expected closing for <%s> (line %d), but found </%s> at line %d",
			d.Expected, d.ExpectedLine, d.Tag, d.Line)
	case KindUnexpectedClose:
		return fmt.Sprintf("Unexpected closing tag </%s> at column %d", d.Tag, d.Line)
	case KindUnclosed:
		return fmt.Sprintf("Unclosed tag <%s> at line %d", d.Tag, d.Line)
	default:
		return fmt.Sprintf("Unknown problem with <%s> at line %d", d.Tag, d.Line)
	}
}

// Messages renders each diagnostic with String, keeping order.
func Messages(diags []Diagnostic) []string {
	messages := make([]string, len(diags))
	for i, d := range diags {
		messages[i] = d.String()
	}
	return messages
}
