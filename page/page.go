// Package page connects language descriptors to the content they highlight.
// A Document hands out code Elements, and an Engine owns registered languages
// and highlights one Element at a time.
package page

import (
	"strings"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/sirupsen/logrus"
)

// CodeSelector selects the elements HighlightAll passes to the engine.
const CodeSelector = "code"

// An Element is one block of code in a Document.
type Element interface {
	// Text returns the plain source text of the block.
	Text() string
	// Classes returns the block's classes. A "language-NAME" or "lang-NAME"
	// class picks the language to highlight with.
	Classes() []string
	// SetSpans replaces the block's highlighting. Span offsets index Text().
	SetSpans(spans []grammar.Span)
}

// A Document is content holding code blocks.
type Document interface {
	QuerySelectorAll(selector string) []Element
}

// An Engine is a highlighting engine with its own language registry.
type Engine interface {
	RegisterLanguage(name string, factory grammar.Factory) error
	HasLanguage(name string) bool
	HighlightBlock(el Element) error
}

// Logger receives per-block failures from HighlightAll.
var Logger logrus.FieldLogger = logrus.StandardLogger()

// HighlightAll passes every code element of doc to engine. A block that
// fails is logged and skipped. It returns the number of blocks the engine
// handled without error, which includes blocks it left alone for naming no
// language.
func HighlightAll(doc Document, engine Engine) int {
	var n int
	for i, el := range doc.QuerySelectorAll(CodeSelector) {
		if err := engine.HighlightBlock(el); err != nil {
			Logger.WithError(err).WithField("block", i).Warn("could not highlight code block")
			continue
		}
		n++
	}
	return n
}

// BlockLanguage returns the language named by el's classes, if any.
func BlockLanguage(el Element) string {
	for _, class := range el.Classes() {
		for _, prefix := range []string{"language-", "lang-"} {
			if strings.HasPrefix(class, prefix) && len(class) > len(prefix) {
				return class[len(prefix):]
			}
		}
	}
	return ""
}
