// Package onyx describes the Onyx programming language (https://onyxlang.io)
// for highlighting engines.
package onyx

import (
	"strings"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/page"
)

// Name is the canonical display name of the language.
const Name = "Onyx"

// RegistryName is the key the descriptor is registered under. Registries are
// expected to be case-insensitive, so this is the lower-cased Name.
var RegistryName = strings.ToLower(Name)

// BuildDescriptor returns the Onyx grammar. Every call returns a fresh,
// structurally equal value.
//
// The directive rule ends at a literal space on the same line. A directive at
// the end of a line or of the input, with no space after it, is not matched by
// the rule and its word falls back to keyword lookup.
func BuildDescriptor() grammar.LanguageDescriptor {
	return grammar.LanguageDescriptor{
		Name:       Name,
		Aliases:    []string{"onyx"},
		Website:    "https://onyxlang.io",
		Categories: []string{"common", "application"},
		Filetypes:  []string{"*.onyx"},
		MimeTypes:  []string{"text/x-onyx"},
		Keywords: grammar.KeywordTable{
			grammar.Keyword: {
				"package", "struct", "enum", "use", "global", "macro",
				"if", "elseif", "else", "where", "interface",
				"for", "while", "do",
				"switch", "case",
				"break", "continue", "return", "defer", "fallthrough",
				"cast", "sizeof", "alignof", "typeof",
			},
			grammar.Literal: {"true", "false", "null", "null_proc", "null_str"},
			grammar.Type: {
				"i8", "u8", "i16", "u16", "i32", "u32", "i64", "u64", "f32", "f64",
				"rawptr", "str", "cstr",
				"i8x16", "i16x8", "i32x4", "i64x2", "f32x4", "f64x2", "v128",
				"type_expr", "any",
			},
			grammar.BuiltIn: {"math", "map", "set", "array", "random", "iter", "list", "conv", "type_info"},
		},
		Contains: concat(
			grammar.PatternList{
				grammar.LineComment("//", "$"),
				grammar.CBlockComment,
			},
			grammar.PatternList{
				grammar.CNumber,
				grammar.QuoteString,
			},
			grammar.PatternList{
				grammar.Inline(grammar.Keyword, `#\w+`, ` `),
			},
		),
	}
}

func concat(lists ...grammar.PatternList) grammar.PatternList {
	var out grammar.PatternList
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// A Registrar accepts language factories. Both grammar.Registry and the
// page engines satisfy it.
type Registrar interface {
	RegisterLanguage(name string, factory grammar.Factory) error
}

// Register adds the Onyx grammar to r.
func Register(r Registrar) error {
	return r.RegisterLanguage(RegistryName, BuildDescriptor)
}

// InitializeHighlighting registers Onyx with engine unless it already knows
// the language, then highlights every code block of doc. Call it once the
// content is ready, and again whenever the content changes. It returns the
// number of blocks handled, as counted by page.HighlightAll.
func InitializeHighlighting(doc page.Document, engine page.Engine) (int, error) {
	if !engine.HasLanguage(RegistryName) {
		if err := Register(engine); err != nil {
			return 0, err
		}
	}
	return page.HighlightAll(doc, engine), nil
}
