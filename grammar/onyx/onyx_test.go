package onyx

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/page"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type block struct {
	text    string
	classes []string
	spans   []grammar.Span
	updates int
}

func (b *block) Text() string      { return b.text }
func (b *block) Classes() []string { return b.classes }
func (b *block) SetSpans(s []grammar.Span) {
	b.spans = s
	b.updates++
}

type document struct {
	blocks    []*block
	selectors []string
}

func (d *document) QuerySelectorAll(selector string) []page.Element {
	d.selectors = append(d.selectors, selector)
	out := make([]page.Element, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b
	}
	return out
}

// countingEngine records registrations made through it.
type countingEngine struct {
	*page.RegexEngine
	registered []string
}

func (e *countingEngine) RegisterLanguage(name string, factory grammar.Factory) error {
	e.registered = append(e.registered, name)
	return e.RegexEngine.RegisterLanguage(name, factory)
}

func newEngine() *countingEngine {
	return &countingEngine{RegexEngine: page.NewEngine(nil)}
}

type failingEngine struct{ countingEngine }

func (e *failingEngine) RegisterLanguage(string, grammar.Factory) error {
	return errors.New("registry closed")
}

func categorized(text string, spans []grammar.Span) map[string]grammar.Category {
	out := make(map[string]grammar.Category, len(spans))
	for _, s := range spans {
		out[text[s.Start:s.End]] = s.Category
	}
	return out
}

func TestBuildDescriptorDeterministic(t *testing.T) {
	a, b := BuildDescriptor(), BuildDescriptor()
	assert.Equal(t, a, b)

	a.Keywords[grammar.Keyword][0] = "changed"
	a.Contains[0].Begin = "changed"
	assert.Equal(t, b, BuildDescriptor(), "descriptors must not share state")
}

func TestBuildDescriptorKeywords(t *testing.T) {
	desc := BuildDescriptor()
	require.NoError(t, desc.Validate())

	assert.Len(t, desc.Keywords, 4)
	assert.Len(t, desc.Keywords.Words(grammar.Keyword), 25)
	assert.Len(t, desc.Keywords.Words(grammar.Literal), 5)
	assert.Len(t, desc.Keywords.Words(grammar.Type), 22)
	assert.Len(t, desc.Keywords.Words(grammar.BuiltIn), 9)

	for c, words := range desc.Keywords {
		seen := make(map[string]bool)
		for _, w := range words {
			assert.False(t, seen[w], "%s token %q repeated", c, w)
			seen[w] = true
		}
	}

	assert.Contains(t, desc.Keywords.Words(grammar.Keyword), "fallthrough")
	assert.Contains(t, desc.Keywords.Words(grammar.Literal), "null_str")
	assert.Contains(t, desc.Keywords.Words(grammar.Type), "v128")
	assert.Contains(t, desc.Keywords.Words(grammar.BuiltIn), "type_info")
}

func TestBuildDescriptorRules(t *testing.T) {
	desc := BuildDescriptor()
	require.Len(t, desc.Contains, 5)

	var kinds []grammar.RuleKind
	for _, r := range desc.Contains {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []grammar.RuleKind{
		grammar.LineCommentRule,
		grammar.BlockCommentRule,
		grammar.NumberRule,
		grammar.StringRule,
		grammar.CustomRule,
	}, kinds)

	directive := desc.Contains[4]
	assert.Equal(t, grammar.Keyword, directive.Scope)
	assert.Equal(t, `#\w+`, directive.Begin)
	assert.Equal(t, " ", directive.End)
	assert.True(t, directive.SingleLine)
}

func TestDirectiveRule(t *testing.T) {
	re := regexp.MustCompile(`^(?:` + BuildDescriptor().Contains[4].Pattern() + `)$`)

	assert.True(t, re.MatchString("#foo "))
	assert.False(t, re.MatchString("#foo"), "a directive needs the trailing space")
	assert.False(t, re.MatchString("foo "))

	m, err := grammar.Compile(ptr(BuildDescriptor()))
	require.NoError(t, err)
	assert.Equal(t, []grammar.Span{{Start: 0, End: 5, Category: grammar.Keyword}}, m.Scan([]byte("#foo ")))
	assert.Empty(t, m.Scan([]byte("#foo")))
	assert.Equal(t, []grammar.Span{{Start: 1, End: 3, Category: grammar.Keyword}}, m.Scan([]byte("#if")))
}

func TestDirectiveRuleStopsAtNewline(t *testing.T) {
	m, err := grammar.Compile(ptr(BuildDescriptor()))
	require.NoError(t, err)

	assert.Empty(t, m.Scan([]byte("#foo\nbar baz")))
	assert.Equal(t, []grammar.Span{
		{Start: 1, End: 3, Category: grammar.Keyword},
		{Start: 4, End: 10, Category: grammar.Keyword},
	}, m.Scan([]byte("#if\nreturn x")), "words fall back to keyword lookup")

	assert.Empty(t, m.Scan([]byte("x := #file_contents\nfoo bar")))
	assert.Equal(t, []grammar.Span{
		{Start: 4, End: 9, Category: grammar.Keyword},
	}, m.Scan([]byte("x\n  #use \nbar")), "a directive still ends at a space on its own line")
}

func ptr(d grammar.LanguageDescriptor) *grammar.LanguageDescriptor { return &d }

func TestRegisterName(t *testing.T) {
	assert.Equal(t, strings.ToLower(BuildDescriptor().Name), RegistryName)
	assert.Equal(t, "onyx", RegistryName)

	e := newEngine()
	require.NoError(t, Register(e))
	assert.Equal(t, []string{"onyx"}, e.registered)

	for _, name := range []string{"onyx", "Onyx", "ONYX"} {
		assert.True(t, e.HasLanguage(name), name)
	}
}

func TestInitializeHighlighting(t *testing.T) {
	b := &block{text: "// comment\n#directive value", classes: []string{"language-onyx"}}
	doc := &document{blocks: []*block{b}}
	e := newEngine()

	n, err := InitializeHighlighting(doc, e)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{page.CodeSelector}, doc.selectors)

	assert.Equal(t, []grammar.Span{
		{Start: 0, End: 10, Category: grammar.Comment},
		{Start: 11, End: 22, Category: grammar.Keyword},
	}, b.spans)
	assert.Equal(t, "#directive ", b.text[11:22])
}

func TestInitializeHighlightingTwice(t *testing.T) {
	b := &block{text: "return 0", classes: []string{"lang-onyx"}}
	doc := &document{blocks: []*block{b}}
	e := newEngine()

	_, err := InitializeHighlighting(doc, e)
	require.NoError(t, err)
	b.text = "return 10"
	_, err = InitializeHighlighting(doc, e)
	require.NoError(t, err)

	assert.Equal(t, []string{"onyx"}, e.registered, "registration happens once")
	assert.Equal(t, 2, b.updates)
	assert.Equal(t, []grammar.Span{
		{Start: 0, End: 6, Category: grammar.Keyword},
		{Start: 7, End: 9, Category: grammar.Number},
	}, b.spans)
}

func TestInitializeHighlightingRegistered(t *testing.T) {
	e := newEngine()
	require.NoError(t, e.RegexEngine.RegisterLanguage("Onyx", BuildDescriptor))

	_, err := InitializeHighlighting(&document{}, e)
	require.NoError(t, err)
	assert.Empty(t, e.registered)
}

func TestInitializeHighlightingRegisterError(t *testing.T) {
	b := &block{text: "use core", classes: []string{"language-onyx"}}
	e := &failingEngine{countingEngine{RegexEngine: page.NewEngine(nil)}}

	n, err := InitializeHighlighting(&document{blocks: []*block{b}}, e)
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.Zero(t, b.updates)
}

func TestHighlightSample(t *testing.T) {
	const src = `package main
#load "core"
use core {println}
main :: () {
    x: i32 = 0x1F; // hex
    if x > 0 do println("yes");
}
`
	b := &block{text: src, classes: []string{"language-onyx"}}
	_, err := InitializeHighlighting(&document{blocks: []*block{b}}, newEngine())
	require.NoError(t, err)

	got := categorized(src, b.spans)
	want := map[string]grammar.Category{
		"package": grammar.Keyword,
		"#load ":  grammar.Keyword,
		`"core"`:  grammar.String,
		"use":     grammar.Keyword,
		"i32":     grammar.Type,
		"0x1F":    grammar.Number,
		"// hex":  grammar.Comment,
		"if":      grammar.Keyword,
		"0":       grammar.Number,
		"do":      grammar.Keyword,
		`"yes"`:   grammar.String,
	}
	assert.Equal(t, want, got)
}
