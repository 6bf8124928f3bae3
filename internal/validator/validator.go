// Package validator checks that the start and end tags of an HTML document
// are balanced.
//
// A Validator consumes tag events in document order and keeps a stack of the
// tags that are still open. Three kinds of problems are reported:
//
//   - an end tag that does not match the innermost open tag (mismatch)
//   - an end tag that arrives while no tag is open (unexpected close)
//   - a tag that is still open when the input ends (unclosed)
//
// Void elements such as <br> or <img> never open a scope, so both their start
// and end tags are ignored.
//
// On a mismatch the stack is left untouched: the stray end tag is treated as
// noise and the following end tags are still matched against the same frame.
// This heuristic does not resynchronize after a swapped open/close pair.
package validator

import (
	"golang.org/x/net/html/atom"
)

// voidTags holds the elements that cannot have children or a closing tag.
var voidTags = map[atom.Atom]struct{}{
	atom.Br:     {},
	atom.Hr:     {},
	atom.Img:    {},
	atom.Input:  {},
	atom.Link:   {},
	atom.Meta:   {},
	atom.Source: {},
	atom.Track:  {},
	atom.Wbr:    {},
	atom.Area:   {},
	atom.Base:   {},
	atom.Col:    {},
	atom.Embed:  {},
	atom.Param:  {},
}

// IsVoid reports whether name is a void element. Names are compared
// case-sensitively, as emitted by the tokenizer.
func IsVoid(name string) bool {
	a := atom.Lookup([]byte(name))
	if a == 0 {
		return false
	}
	_, ok := voidTags[a]
	return ok
}

// Frame is one still-open, non-void tag.
type Frame struct {
	Name     string
	OpenLine int
}

// Validator tracks open tags and collects diagnostics. A Validator is meant
// for a single document and is not safe for concurrent use.
type Validator struct {
	stack       []Frame
	diagnostics []Diagnostic
	finalized   bool
}

// New returns an empty validator.
func New() *Validator {
	return &Validator{
		stack:       make([]Frame, 0, 16),
		diagnostics: make([]Diagnostic, 0),
	}
}

// StartTag records an opening tag seen at the given 1-based line.
func (v *Validator) StartTag(name string, line int) {
	if IsVoid(name) {
		return
	}
	v.stack = append(v.stack, Frame{Name: name, OpenLine: line})
}

// EndTag records a closing tag seen at the given 1-based line.
func (v *Validator) EndTag(name string, line int) {
	if IsVoid(name) {
		return
	}

	if len(v.stack) == 0 {
		v.diagnostics = append(v.diagnostics, Diagnostic{
			Kind: KindUnexpectedClose,
			Tag:  name,
			Line: line,
		})
		return
	}

	top := v.stack[len(v.stack)-1]
	if top.Name == name {
		v.stack = v.stack[:len(v.stack)-1]
		return
	}

	// the stack stays as is, see package doc
	v.diagnostics = append(v.diagnostics, Diagnostic{
		Kind:         KindMismatch,
		Tag:          name,
		Line:         line,
		Expected:     top.Name,
		ExpectedLine: top.OpenLine,
	})
}

// Finalize reports every tag left open, bottom of the stack first, and
// returns all diagnostics. Calling it again returns the same list.
func (v *Validator) Finalize() []Diagnostic {
	if !v.finalized {
		for _, f := range v.stack {
			v.diagnostics = append(v.diagnostics, Diagnostic{
				Kind: KindUnclosed,
				Tag:  f.Name,
				Line: f.OpenLine,
			})
		}
		v.finalized = true
	}
	return v.Diagnostics()
}

// Diagnostics returns a copy of the diagnostics collected so far.
func (v *Validator) Diagnostics() []Diagnostic {
	result := make([]Diagnostic, len(v.diagnostics))
	copy(result, v.diagnostics)
	return result
}
