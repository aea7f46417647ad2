// Package chromahl runs language descriptors on the chroma highlighting
// engine.
package chromahl

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/pkg/errors"
)

// NewLexer translates desc into a chroma lexer. Pattern rules come first, in
// order, followed by one word rule per keyword category.
func NewLexer(desc grammar.LanguageDescriptor) (*chroma.RegexLexer, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	config := &chroma.Config{
		Name:      desc.Name,
		Aliases:   aliases(desc),
		Filenames: desc.Filetypes,
		MimeTypes: desc.MimeTypes,
	}
	root := rootRules(desc)

	lexer, err := chroma.NewLexer(config, func() chroma.Rules {
		return chroma.Rules{"root": root}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "building chroma lexer for %s", desc.Name)
	}
	return lexer, nil
}

func aliases(desc grammar.LanguageDescriptor) []string {
	var out []string
	for _, a := range desc.Aliases {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func rootRules(desc grammar.LanguageDescriptor) []chroma.Rule {
	rules := make([]chroma.Rule, 0, len(desc.Contains)+len(grammar.KeywordCategories)+3)

	for _, r := range desc.Contains {
		rules = append(rules, chroma.Rule{Pattern: r.Pattern(), Type: ruleType(r)})
	}

	for _, c := range grammar.KeywordCategories {
		if words := desc.Keywords.Words(c); len(words) > 0 {
			rules = append(rules, chroma.Rule{Pattern: wordsPattern(words), Type: TokenType(c)})
		}
	}

	return append(rules,
		chroma.Rule{Pattern: `\w+`, Type: chroma.Name},
		chroma.Rule{Pattern: `\s+`, Type: chroma.Text},
		chroma.Rule{Pattern: `.`, Type: chroma.Text},
	)
}

// wordsPattern matches any of words as a whole word. Longer words are tried
// first so that no word shadows another it prefixes.
func wordsPattern(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for i, w := range sorted {
		sorted[i] = regexp.QuoteMeta(w)
	}
	return `\b(?:` + strings.Join(sorted, "|") + `)\b`
}

func ruleType(r grammar.PatternRule) chroma.TokenType {
	switch r.Kind {
	case grammar.LineCommentRule:
		return chroma.CommentSingle
	case grammar.BlockCommentRule:
		return chroma.CommentMultiline
	case grammar.StringRule:
		if r.Scope == grammar.String {
			return chroma.LiteralStringDouble
		}
	}
	return TokenType(r.Scope)
}

// TokenType maps a category onto the closest chroma token type.
func TokenType(c grammar.Category) chroma.TokenType {
	switch c {
	case grammar.Keyword:
		return chroma.Keyword
	case grammar.Literal:
		return chroma.KeywordConstant
	case grammar.Type:
		return chroma.KeywordType
	case grammar.BuiltIn:
		return chroma.NameBuiltin
	case grammar.String:
		return chroma.LiteralString
	case grammar.Number:
		return chroma.LiteralNumber
	case grammar.Comment:
		return chroma.Comment
	}
	return chroma.Text
}

// Category maps a chroma token type back onto a category.
func Category(t chroma.TokenType) grammar.Category {
	switch {
	case t.InCategory(chroma.Comment):
		return grammar.Comment
	case t == chroma.KeywordConstant:
		return grammar.Literal
	case t == chroma.KeywordType:
		return grammar.Type
	case t.InCategory(chroma.Keyword):
		return grammar.Keyword
	case t == chroma.NameBuiltin:
		return grammar.BuiltIn
	case t.InSubCategory(chroma.LiteralString):
		return grammar.String
	case t.InSubCategory(chroma.LiteralNumber):
		return grammar.Number
	}
	return grammar.Default
}
