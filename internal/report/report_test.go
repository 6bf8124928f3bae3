package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	tcerrors "github.com/conneroisu/tagcheck/internal/errors"
	"github.com/conneroisu/tagcheck/internal/validator"
)

func unexpected(n int) []validator.Diagnostic {
	diags := make([]validator.Diagnostic, n)
	for i := range diags {
		diags[i] = validator.Diagnostic{Kind: validator.KindUnexpectedClose, Tag: "div", Line: i + 1}
	}
	return diags
}

func TestTextValid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, nil, 10))
	assert.Equal(t, "HTML structure seems valid (tags balanced).\n", buf.String())
}

func TestTextErrors(t *testing.T) {
	diags := []validator.Diagnostic{
		{Kind: validator.KindMismatch, Tag: "div", Line: 1, Expected: "p", ExpectedLine: 1},
		{Kind: validator.KindUnclosed, Tag: "body", Line: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, diags, 10))

	expected := "Found HTML structural errors:\n" +
		"Mismatch: Expected closing for <p> (line 1), but found </div> at line 1\n" +
		"Unclosed tag <body> at line 2\n"
	assert.Equal(t, expected, buf.String())
}

func TestTextTruncatesWithoutMarker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, unexpected(15), 10))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, ErrorsHeading, lines[0])
	for i, line := range lines[1:] {
		assert.Equal(t, fmt.Sprintf("Unexpected closing tag </div> at column %d", i+1), line)
	}
	assert.NotContains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), "more")
}

func TestTextZeroLimitPrintsHeadingOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, unexpected(3), 0))
	assert.Equal(t, ErrorsHeading+"\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Len(t, Truncate(unexpected(5), 10), 5)
	assert.Len(t, Truncate(unexpected(15), 10), 10)
	assert.Len(t, Truncate(unexpected(3), -1), 0)
	assert.Len(t, Truncate(nil, 10), 0)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, "index.html", unexpected(12), 10))

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))

	assert.Equal(t, "index.html", summary["file"])
	assert.Equal(t, false, summary["valid"])
	assert.Equal(t, float64(12), summary["total"])
	assert.Equal(t, float64(10), summary["shown"])

	diags := summary["diagnostics"].([]interface{})
	require.Len(t, diags, 10)
	first := diags[0].(map[string]interface{})
	assert.Equal(t, "unexpected_close", first["kind"])
	assert.Equal(t, "div", first["tag"])
	assert.NotContains(t, first, "expected")
}

func TestYAML(t *testing.T) {
	diags := []validator.Diagnostic{
		{Kind: validator.KindUnclosed, Tag: "main", Line: 4},
	}

	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, "page.html", diags, 10))

	var summary struct {
		File        string   `yaml:"file"`
		Valid       bool     `yaml:"valid"`
		Total       int      `yaml:"total"`
		Messages    []string `yaml:"messages"`
		Diagnostics []struct {
			Kind string `yaml:"kind"`
			Tag  string `yaml:"tag"`
			Line int    `yaml:"line"`
		} `yaml:"diagnostics"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &summary))

	assert.Equal(t, "page.html", summary.File)
	assert.False(t, summary.Valid)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, []string{"Unclosed tag <main> at line 4"}, summary.Messages)
	require.Len(t, summary.Diagnostics, 1)
	assert.Equal(t, "unclosed", summary.Diagnostics[0].Kind)
	assert.Equal(t, 4, summary.Diagnostics[0].Line)
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "text", "a.html", nil, 10))
	assert.Equal(t, ValidMessage+"\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, "json", "a.html", nil, 10))
	assert.Contains(t, buf.String(), `"valid": true`)

	buf.Reset()
	require.NoError(t, Write(&buf, "yaml", "a.html", nil, 10))
	assert.Contains(t, buf.String(), "valid: true")

	err := Write(&buf, "xml", "a.html", nil, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &tcerrors.CheckError{Type: tcerrors.ErrorTypeConfig, Code: tcerrors.CodeBadFormat}))
	assert.Contains(t, err.Error(), "unsupported format: xml")
}
