package grammar

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// A Span is a categorized byte range [Start, End) of scanned text.
type Span struct {
	Start    int
	End      int
	Category Category
}

type compiledRule struct {
	re    *regexp2.Regexp
	scope Category
}

// A Matcher is a compiled LanguageDescriptor. It is safe for concurrent use.
type Matcher struct {
	name     string
	rules    []compiledRule
	keywords map[string]Category
}

var wordRegexp = regexp.MustCompile(`\w+`)

// MatchTimeout bounds a single rule search. A search that runs out of time
// counts as no match.
const MatchTimeout = 250 * time.Millisecond

// Compile validates desc and prepares it for scanning.
func Compile(desc *LanguageDescriptor) (*Matcher, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		name:     desc.Name,
		rules:    make([]compiledRule, 0, len(desc.Contains)),
		keywords: make(map[string]Category),
	}

	for _, c := range KeywordCategories {
		for _, w := range desc.Keywords.Words(c) {
			if _, ok := m.keywords[w]; !ok { // Earlier categories take priority
				m.keywords[w] = c
			}
		}
	}

	for i, r := range desc.Contains {
		re, err := regexp2.Compile(r.Pattern(), regexp2.Multiline)
		if err != nil {
			return nil, errors.Wrapf(err, "compiling rule %d of %s", i, desc.Name)
		}
		re.MatchTimeout = MatchTimeout
		m.rules = append(m.rules, compiledRule{re, r.Scope})
	}
	return m, nil
}

// Name returns the name of the compiled language.
func (m *Matcher) Name() string {
	return m.name
}

// Scan splits src into ordered, non-overlapping spans. At each position the
// leftmost rule match is taken, ties going to the earlier rule. Words in the
// text between rule matches are looked up in the keyword table. Text that is
// not covered by any span has the Default category.
//
// Rules always see the whole of src, so anchors and word boundaries hold
// wherever a search resumes.
func (m *Matcher) Scan(src []byte) []Span {
	var spans []Span
	text, offsets := decode(src)

	// next caches, per rule, the rune range of its next match at or after
	// pos. A start of -1 means the rule never matches again.
	next := make([][2]int, len(m.rules))
	for i := range next {
		next[i] = [2]int{-2, -2} // Not searched yet
	}

	pos := 0
	for pos < len(text) {
		best := -1
		for i := range m.rules {
			if next[i][0] == -2 || (next[i][0] >= 0 && next[i][0] < pos) {
				next[i] = m.find(i, text, pos)
			}
			if next[i][0] < 0 {
				continue
			}
			if best < 0 || next[i][0] < next[best][0] {
				best = i
			}
		}

		gapEnd := len(text)
		if best >= 0 {
			gapEnd = next[best][0]
		}
		spans = m.appendKeywords(spans, src, offsets[pos], offsets[gapEnd])
		if best < 0 {
			break
		}

		spans = append(spans, Span{offsets[next[best][0]], offsets[next[best][1]], m.rules[best].scope})
		pos = next[best][1]
	}
	return spans
}

// decode splits src into runes, along with the byte offset of each rune and
// a final entry for len(src). Invalid bytes decode to one RuneError each.
func decode(src []byte) ([]rune, []int) {
	text := make([]rune, 0, len(src))
	offsets := make([]int, 0, len(src)+1)
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		text = append(text, r)
		offsets = append(offsets, i)
		i += size
	}
	return text, append(offsets, len(src))
}

// find returns the rune range of the first non-empty match of rule i at or
// after pos.
func (m *Matcher) find(i int, text []rune, pos int) [2]int {
	re := m.rules[i].re
	for pos <= len(text) {
		match, err := re.FindRunesMatchStartingAt(text, pos)
		if err != nil || match == nil {
			break
		}
		if match.Length > 0 {
			return [2]int{match.Index, match.Index + match.Length}
		}
		pos = match.Index + 1 // Skip past an empty match
	}
	return [2]int{-1, -1}
}

func (m *Matcher) appendKeywords(spans []Span, src []byte, from, to int) []Span {
	if from >= to {
		return spans
	}
	for _, loc := range wordRegexp.FindAllIndex(src[from:to], -1) {
		if c, ok := m.keywords[string(src[from+loc[0]:from+loc[1]])]; ok {
			spans = append(spans, Span{from + loc[0], from + loc[1], c})
		}
	}
	return spans
}
