package chromahl

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/grammar/onyx"
	"github.com/fivemoreminix/onyxview/page"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const onyxSample = `package main
#load "core"
use core {println}
main :: () {
    x: i32 = 42; /* block
    comment */
    if x > 0 do println("yes"); // done
    s := #file_contents
    return null;
}
`

type block struct {
	text    string
	classes []string
	spans   []grammar.Span
}

func (b *block) Text() string                  { return b.text }
func (b *block) Classes() []string             { return b.classes }
func (b *block) SetSpans(spans []grammar.Span) { b.spans = spans }

func TestNewLexer(t *testing.T) {
	lexer, err := NewLexer(onyx.BuildDescriptor())
	require.NoError(t, err)

	config := lexer.Config()
	assert.Equal(t, "Onyx", config.Name)
	assert.Equal(t, []string{"onyx"}, config.Aliases)
	assert.Equal(t, []string{"*.onyx"}, config.Filenames)

	spans, err := Tokenise(lexer, "// comment\n#directive value")
	require.NoError(t, err)
	assert.Equal(t, []grammar.Span{
		{Start: 0, End: 10, Category: grammar.Comment},
		{Start: 11, End: 22, Category: grammar.Keyword},
	}, spans)
}

func TestNewLexerInvalid(t *testing.T) {
	desc := onyx.BuildDescriptor()
	desc.Keywords[grammar.Comment] = []string{"rem"}

	_, err := NewLexer(desc)
	assert.True(t, errors.Is(err, grammar.ErrInvalidDescriptor))
}

func TestMatchesRegexEngine(t *testing.T) {
	desc := onyx.BuildDescriptor()
	m, err := grammar.Compile(&desc)
	require.NoError(t, err)

	lexer, err := NewLexer(desc)
	require.NoError(t, err)
	spans, err := Tokenise(lexer, onyxSample)
	require.NoError(t, err)

	assert.Equal(t, m.Scan([]byte(onyxSample)), spans)
}

func TestCategories(t *testing.T) {
	for _, c := range []grammar.Category{
		grammar.Keyword, grammar.Literal, grammar.Type, grammar.BuiltIn,
		grammar.String, grammar.Number, grammar.Comment,
	} {
		assert.Equal(t, c, Category(TokenType(c)), c.String())
	}

	assert.Equal(t, grammar.Comment, Category(chroma.CommentPreproc))
	assert.Equal(t, grammar.String, Category(chroma.LiteralStringDouble))
	assert.Equal(t, grammar.Number, Category(chroma.LiteralNumberHex))
	assert.Equal(t, grammar.Keyword, Category(chroma.KeywordReserved))
	assert.Equal(t, grammar.Default, Category(chroma.NameFunction))
	assert.Equal(t, grammar.Default, Category(chroma.Text))
}

func TestEngine(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.HasLanguage(onyx.RegistryName))

	n, err := onyx.InitializeHighlighting(page.Document(docOf(
		&block{text: "return true", classes: []string{"language-onyx"}},
	)), e)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, e.HasLanguage("Onyx"))
	assert.True(t, e.HasLanguage("onyx"))

	unknown := &block{text: "x", classes: []string{"language-cobol"}}
	assert.True(t, errors.Is(e.HighlightBlock(unknown), grammar.ErrUnknownLanguage))

	e.DefaultLanguage = "onyx"
	plain := &block{text: "return 1"}
	require.NoError(t, e.HighlightBlock(plain))
	assert.Equal(t, []grammar.Span{
		{Start: 0, End: 6, Category: grammar.Keyword},
		{Start: 7, End: 8, Category: grammar.Number},
	}, plain.spans)
}

func TestEngineRegistrationAlias(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.RegisterLanguage("ox", onyx.BuildDescriptor))
	assert.True(t, e.HasLanguage("ox"))
	assert.True(t, e.HasLanguage("Onyx"))
}

type doc []*block

func docOf(blocks ...*block) doc { return blocks }

func (d doc) QuerySelectorAll(selector string) []page.Element {
	out := make([]page.Element, len(d))
	for i, b := range d {
		out[i] = b
	}
	return out
}
