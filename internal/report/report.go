// Package report renders validation results for the terminal or for other
// tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tagcheck/internal/config"
	tcerrors "github.com/conneroisu/tagcheck/internal/errors"
	"github.com/conneroisu/tagcheck/internal/validator"
)

const (
	ValidMessage  = "HTML structure seems valid (tags balanced)."
	ErrorsHeading = "Found HTML structural errors:"
)

// Summary is the structured form of a single check, as written by JSON and
// YAML.
type Summary struct {
	File        string                 `json:"file" yaml:"file"`
	Valid       bool                   `json:"valid" yaml:"valid"`
	Total       int                    `json:"total" yaml:"total"`
	Shown       int                    `json:"shown" yaml:"shown"`
	Diagnostics []validator.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Messages    []string               `json:"messages" yaml:"messages"`
}

// NewSummary builds a summary that keeps at most limit diagnostics.
func NewSummary(file string, diags []validator.Diagnostic, limit int) Summary {
	shown := Truncate(diags, limit)
	return Summary{
		File:        file,
		Valid:       len(diags) == 0,
		Total:       len(diags),
		Shown:       len(shown),
		Diagnostics: shown,
		Messages:    validator.Messages(shown),
	}
}

// Truncate returns the first limit diagnostics. The rest are dropped without
// any marker.
func Truncate(diags []validator.Diagnostic, limit int) []validator.Diagnostic {
	if limit < 0 {
		limit = 0
	}
	if len(diags) > limit {
		return diags[:limit]
	}
	return diags
}

// Text writes the plain report: a single validity line when there is
// nothing to report, otherwise the heading followed by one diagnostic per
// line.
func Text(w io.Writer, diags []validator.Diagnostic, limit int) error {
	if len(diags) == 0 {
		_, err := fmt.Fprintln(w, ValidMessage)
		return err
	}

	if _, err := fmt.Fprintln(w, ErrorsHeading); err != nil {
		return err
	}
	for _, d := range Truncate(diags, limit) {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes the summary as indented JSON.
func JSON(w io.Writer, file string, diags []validator.Diagnostic, limit int) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(NewSummary(file, diags, limit))
}

// YAML writes the summary as a YAML document.
func YAML(w io.Writer, file string, diags []validator.Diagnostic, limit int) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(NewSummary(file, diags, limit)); err != nil {
		return err
	}
	return encoder.Close()
}

// Write renders diags in the given format.
func Write(w io.Writer, format, file string, diags []validator.Diagnostic, limit int) error {
	switch format {
	case config.FormatText, "":
		return Text(w, diags, limit)
	case config.FormatJSON:
		return JSON(w, file, diags, limit)
	case config.FormatYAML:
		return YAML(w, file, diags, limit)
	default:
		return tcerrors.NewConfigError(tcerrors.CodeBadFormat, "cannot render report", config.ValidateFormat(format))
	}
}
