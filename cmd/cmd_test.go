package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tagcheck/internal/checker"
	"github.com/conneroisu/tagcheck/internal/config"
	tcerrors "github.com/conneroisu/tagcheck/internal/errors"
	"github.com/conneroisu/tagcheck/internal/logging"
	"github.com/conneroisu/tagcheck/internal/testutils"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	return c, &out
}

func TestCheckCommandValid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := testutils.CreateHTMLFile(t, "index.html", "<html><body><p>ok<br></p></body></html>")
	c, out := newTestCommand()

	require.NoError(t, runCheckCommand(c, []string{path}))
	assert.Equal(t, "HTML structure seems valid (tags balanced).\n", out.String())
}

func TestCheckCommandReportsErrors(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := testutils.CreateHTMLFile(t, "index.html", "<div><p>text</div></p>\n</span>\n<main>")
	c, out := newTestCommand()

	require.NoError(t, runCheckCommand(c, []string{path}))
	assert.Equal(t, "Found HTML structural errors:\n"+
		"Mismatch: Expected closing for <p> (line 1), but found </div> at line 1\n"+
		"Mismatch: Expected closing for <div> (line 1), but found </span> at line 2\n"+
		"Unclosed tag <div> at line 1\n"+
		"Unclosed tag <main> at line 3\n", out.String())
}

func TestCheckCommandTruncatesAtTen(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := testutils.CreateHTMLFile(t, "index.html", testutils.Repeat("</div>", 15))
	c, out := newTestCommand()

	require.NoError(t, runCheckCommand(c, []string{path}))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "Unexpected closing tag </div> at column 10", lines[10])
}

func TestCheckCommandUsesConfiguredFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := testutils.CreateHTMLFile(t, "page.html", "<section>")
	viper.Set("check.file", path)
	viper.Set("check.format", "json")
	c, out := newTestCommand()

	require.NoError(t, runCheckCommand(c, nil))

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, path, summary["file"])
	assert.Equal(t, false, summary["valid"])
	assert.Equal(t, []interface{}{"Unclosed tag <section> at line 1"}, summary["messages"])
}

func TestCheckCommandStrict(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	path := testutils.CreateHTMLFile(t, "index.html", "<div>")
	viper.Set("check.strict", true)
	c, out := newTestCommand()

	err := runCheckCommand(c, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 structural error(s)")
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out.String(), "Unclosed tag <div> at line 1")
}

func TestCheckCommandMissingFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	c, out := newTestCommand()
	err := runCheckCommand(c, []string{filepath.Join(t.TempDir(), "missing.html")})

	require.Error(t, err)
	assert.Equal(t, tcerrors.ErrorTypeIO, tcerrors.GetErrorType(err))
	assert.Equal(t, 1, ExitCode(err))
	assert.Empty(t, out.String())
}

func TestCheckCommandNoInput(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	c, _ := newTestCommand()
	err := runCheckCommand(c, nil)

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), tcerrors.CodeNoInput))
	assert.Equal(t, 2, ExitCode(err))
}

func TestCheckCommandBadConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("check.format", "xml")
	c, _ := newTestCommand()
	err := runCheckCommand(c, []string{"index.html"})

	require.Error(t, err)
	assert.Equal(t, tcerrors.ErrorTypeConfig, tcerrors.GetErrorType(err))
	assert.Equal(t, 2, ExitCode(err))
}

func TestInitCommand(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	initFile = "index.html"
	initForce = false
	defer func() { initFile = "" }()

	c, out := newTestCommand()
	require.NoError(t, runInit(c, []string{dir}))
	assert.Contains(t, out.String(), configFileName)

	path := filepath.Join(dir, configFileName)
	assert.FileExists(t, path)

	// second run refuses to overwrite
	assert.Error(t, runInit(c, []string{dir}))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "index.html", cfg.Check.File)
	assert.Equal(t, config.FormatText, cfg.Check.Format)
	assert.Equal(t, config.DefaultMaxReport, cfg.Check.MaxReport)
	assert.Equal(t, config.DefaultDebounce, cfg.Watch.Debounce)
}

func TestVersionCommand(t *testing.T) {
	defer func() {
		versionFormat = "text"
		versionShort = false
	}()

	c, out := newTestCommand()

	versionFormat = "text"
	versionShort = false
	require.NoError(t, runVersionCommand(c, nil))
	assert.Contains(t, out.String(), "Version:")

	out.Reset()
	versionFormat = "json"
	require.NoError(t, runVersionCommand(c, nil))
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "version")

	versionFormat = "xml"
	assert.Error(t, runVersionCommand(c, nil))
}

func TestWatchSessionRun(t *testing.T) {
	path := testutils.CreateHTMLFile(t, "index.html", "<ul><li></ul>")
	var out, status bytes.Buffer

	s := &watchSession{
		checker: checker.New(nil),
		cfg: &config.Config{
			Check: config.CheckConfig{Format: config.FormatText, MaxReport: 10},
		},
		path:   path,
		out:    &out,
		status: &status,
		logger: logging.Nop(),
	}

	s.run(context.Background())
	assert.Contains(t, status.String(), "3 problem(s)")
	assert.Equal(t, "Found HTML structural errors:\n"+
		"Mismatch: Expected closing for <li> (line 1), but found </ul> at line 1\n"+
		"Unclosed tag <ul> at line 1\n"+
		"Unclosed tag <li> at line 1\n", out.String())

	require.NoError(t, os.WriteFile(path, []byte("<ul><li></li></ul>"), 0644))
	out.Reset()
	status.Reset()
	s.run(context.Background())
	assert.Contains(t, status.String(), "✓")
	assert.Equal(t, "HTML structure seems valid (tags balanced).\n", out.String())

	require.NoError(t, os.Remove(path))
	out.Reset()
	status.Reset()
	s.run(context.Background())
	assert.Contains(t, status.String(), "✗")
	assert.Empty(t, out.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 1, ExitCode(tcerrors.NewInternalError(tcerrors.CodeTokenize, "x", nil)))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("failed to write report: %w",
		tcerrors.NewConfigError(tcerrors.CodeBadFormat, "cannot render report", nil))))
}

func TestResolveInput(t *testing.T) {
	cfg := &config.Config{Check: config.CheckConfig{File: "configured.html"}}

	path, err := resolveInput(cfg, []string{"arg.html"})
	require.NoError(t, err)
	assert.Equal(t, "arg.html", path)

	path, err = resolveInput(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "configured.html", path)

	_, err = resolveInput(&config.Config{}, nil)
	assert.Error(t, err)
}
