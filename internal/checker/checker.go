// Package checker runs tag balance validation against a file on disk.
//
// It owns the file boundary: the file is opened, read completely as UTF-8
// and closed before any tag is looked at. Failures at this stage are returned
// as errors; problems in the markup itself are returned as diagnostics.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	tcerrors "github.com/conneroisu/tagcheck/internal/errors"
	"github.com/conneroisu/tagcheck/internal/logging"
	"github.com/conneroisu/tagcheck/internal/tokenizer"
	"github.com/conneroisu/tagcheck/internal/validator"
)

// Result is the outcome of one validation run.
type Result struct {
	RunID       string
	File        string
	Diagnostics []validator.Diagnostic
	Duration    time.Duration
}

// Valid reports whether no structural problem was found.
func (r *Result) Valid() bool {
	return len(r.Diagnostics) == 0
}

// Checker validates documents. It holds no per-document state, every run
// uses a fresh validator.
type Checker struct {
	logger logging.Logger
}

// New creates a checker. A nil logger discards log output.
func New(logger logging.Logger) *Checker {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Checker{logger: logger.WithComponent("checker")}
}

// Check reads the file at path and validates its tag structure.
func (c *Checker) Check(ctx context.Context, path string) (*Result, error) {
	runID := uuid.NewString()
	log := c.logger.With("run_id", runID, "file", path)
	op := logging.StartOperation(log, "check")

	content, err := readFile(path)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	diags, err := Validate(content)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, tcerrors.NewInternalError(tcerrors.CodeTokenize, "cannot tokenize file", err).
			WithLocation(path, 0)
	}

	elapsed := op.End(ctx, "diagnostics", len(diags), "bytes", len(content))

	return &Result{
		RunID:       runID,
		File:        path,
		Diagnostics: diags,
		Duration:    elapsed,
	}, nil
}

// Validate runs a fresh validator over an in-memory document.
func Validate(content []byte) ([]validator.Diagnostic, error) {
	v := validator.New()
	if err := tokenizer.Feed(bytes.NewReader(content), v); err != nil {
		return nil, err
	}
	return v.Finalize(), nil
}

// readFile loads the whole file, rejecting content that is not valid UTF-8.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		code := tcerrors.CodeFileRead
		if errors.Is(err, fs.ErrNotExist) {
			code = tcerrors.CodeFileNotFound
		}
		return nil, tcerrors.NewIOError(code, "cannot open file", err).WithLocation(path, 0)
	}
	defer f.Close()

	content, err := io.ReadAll(transform.NewReader(f, encoding.UTF8Validator))
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return nil, tcerrors.NewIOError(tcerrors.CodeDecode, "file is not valid UTF-8", err).
				WithLocation(path, 0)
		}
		return nil, tcerrors.NewIOError(tcerrors.CodeFileRead, fmt.Sprintf("cannot read file (%d bytes read)", len(content)), err).
			WithLocation(path, 0)
	}

	return content, nil
}
