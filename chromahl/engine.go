package chromahl

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/page"
	"github.com/pkg/errors"
)

// Engine is a page.Engine backed by its own chroma lexer registry.
type Engine struct {
	Lexers          *chroma.LexerRegistry
	DefaultLanguage string
}

func NewEngine() *Engine {
	return &Engine{Lexers: chroma.NewLexerRegistry()}
}

// RegisterLanguage translates the descriptor built by factory and registers
// the lexer. name is added as an alias when it differs from the descriptor's.
func (e *Engine) RegisterLanguage(name string, factory grammar.Factory) error {
	desc := factory()
	key := strings.ToLower(strings.TrimSpace(name))
	if key != "" && key != strings.ToLower(desc.Name) {
		desc.Aliases = append(append([]string(nil), desc.Aliases...), key)
	}

	lexer, err := NewLexer(desc)
	if err != nil {
		return errors.Wrapf(err, "registering %q", name)
	}
	e.Lexers.Register(lexer)
	return nil
}

func (e *Engine) HasLanguage(name string) bool {
	return e.Lexers.Get(name) != nil
}

// HighlightBlock tokenises el's text and converts the tokens to spans.
func (e *Engine) HighlightBlock(el page.Element) error {
	lang := page.BlockLanguage(el)
	if lang == "" {
		lang = e.DefaultLanguage
	}
	if lang == "" {
		return nil
	}

	lexer := e.Lexers.Get(lang)
	if lexer == nil {
		return errors.Wrapf(grammar.ErrUnknownLanguage, "%q", lang)
	}

	spans, err := Tokenise(lexer, el.Text())
	if err != nil {
		return err
	}
	el.SetSpans(spans)
	return nil
}

// Tokenise runs lexer over text and returns the categorized spans.
func Tokenise(lexer chroma.Lexer, text string) ([]grammar.Span, error) {
	// No EnsureLF, so token offsets index the original text.
	it, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, text)
	if err != nil {
		return nil, errors.Wrap(err, "tokenising")
	}

	var spans []grammar.Span
	var pos int
	for tok := it(); tok != chroma.EOF; tok = it() {
		end := pos + len(tok.Value)
		if c := Category(tok.Type); c != grammar.Default && end > pos {
			spans = append(spans, grammar.Span{Start: pos, End: end, Category: c})
		}
		pos = end
	}
	return spans, nil
}
