// Package tokenizer turns HTML text into a stream of start and end tag events
// annotated with 1-based line numbers.
//
// Tokenization is delegated to golang.org/x/net/html. Attributes, text,
// comments and doctypes are consumed here and never reach the handler.
//
// Only the bodies of <script> and <style> are read as raw text. Tags inside
// <title>, <textarea>, <noscript> and the other elements x/net/html would
// treat as raw text are reported like any other tag.
package tokenizer

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Handler receives tag events in document order.
type Handler interface {
	StartTag(name string, line int)
	EndTag(name string, line int)
}

// Feed tokenizes r and forwards every tag event to h. A self-closing tag such
// as <div/> produces a start event followed by an end event on the same line.
// Reaching the end of the input is not an error.
//
// Lines break at "\n", "\r\n" and a lone "\r".
func Feed(r io.Reader, h Handler) error {
	z := html.NewTokenizer(r)
	line := 1
	pendingCR := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			err := z.Err()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("tokenizing html at line %d: %w", line, err)
		}

		// Raw is only valid until TagName is called.
		var breaks int
		breaks, pendingCR = lineBreaks(z.Raw(), pendingCR)

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if !keepsRawText(name) {
				z.NextIsNotRawText()
			}
			h.StartTag(string(name), line)
		case html.EndTagToken:
			name, _ := z.TagName()
			h.EndTag(string(name), line)
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			z.NextIsNotRawText()
			tag := string(name)
			h.StartTag(tag, line)
			h.EndTag(tag, line)
		}

		line += breaks
	}
}

func keepsRawText(name []byte) bool {
	switch atom.Lookup(name) {
	case atom.Script, atom.Style:
		return true
	default:
		return false
	}
}

// lineBreaks counts the line breaks in b. prevCR reports whether the
// previous chunk ended in "\r", so a "\r\n" split across two tokens counts
// once. The second result is the prevCR value for the next chunk.
func lineBreaks(b []byte, prevCR bool) (int, bool) {
	if len(b) == 0 {
		return 0, prevCR
	}

	n := 0
	for i, c := range b {
		switch c {
		case '\r':
			n++
		case '\n':
			if (i == 0 && prevCR) || (i > 0 && b[i-1] == '\r') {
				continue
			}
			n++
		}
	}
	return n, b[len(b)-1] == '\r'
}
