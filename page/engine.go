package page

import (
	"github.com/fivemoreminix/onyxview/grammar"
)

// RegexEngine highlights blocks with the compiled matchers of a
// grammar.Registry.
type RegexEngine struct {
	Registry *grammar.Registry
	// DefaultLanguage is used for blocks without a language class. When
	// empty, such blocks are left alone.
	DefaultLanguage string
}

type EngineOption func(*RegexEngine)

func WithDefaultLanguage(name string) EngineOption {
	return func(e *RegexEngine) {
		e.DefaultLanguage = name
	}
}

// NewEngine returns an engine over reg. A nil reg gets a fresh registry.
func NewEngine(reg *grammar.Registry, opts ...EngineOption) *RegexEngine {
	if reg == nil {
		reg = grammar.NewRegistry()
	}
	e := &RegexEngine{Registry: reg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *RegexEngine) RegisterLanguage(name string, factory grammar.Factory) error {
	return e.Registry.RegisterLanguage(name, factory)
}

func (e *RegexEngine) HasLanguage(name string) bool {
	return e.Registry.HasLanguage(name)
}

// HighlightBlock scans el's text with its language and hands el the spans.
func (e *RegexEngine) HighlightBlock(el Element) error {
	lang := BlockLanguage(el)
	if lang == "" {
		lang = e.DefaultLanguage
	}
	if lang == "" {
		return nil
	}

	m, err := e.Registry.Matcher(lang)
	if err != nil {
		return err
	}
	el.SetSpans(m.Scan([]byte(el.Text())))
	return nil
}
