package grammar

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidDescriptor is wrapped by every validation failure.
var ErrInvalidDescriptor = errors.New("invalid language descriptor")

// A LanguageDescriptor describes how to categorize spans of one language's
// source text. Descriptors are plain data: once built by a Factory they are
// not modified, and engines may share them freely.
type LanguageDescriptor struct {
	Name       string       `yaml:"name"`
	Aliases    []string     `yaml:"aliases,omitempty"`
	Website    string       `yaml:"website,omitempty"`
	Categories []string     `yaml:"categories,omitempty"`
	Filetypes  []string     `yaml:"filetypes,omitempty"` // doublestar globs, "*.go"
	MimeTypes  []string     `yaml:"mime_types,omitempty"`
	Keywords   KeywordTable `yaml:"keywords"`
	Contains   PatternList  `yaml:"contains"`
}

// A Factory builds a descriptor. It must have no side effects.
type Factory func() LanguageDescriptor

// KeywordTable maps a keyword category to its reserved tokens.
type KeywordTable map[Category][]string

// Words returns the tokens of category c.
func (t KeywordTable) Words(c Category) []string {
	return t[c]
}

// RuleKind tells engines which family a PatternRule belongs to.
type RuleKind uint8

const (
	CustomRule RuleKind = iota
	LineCommentRule
	BlockCommentRule
	NumberRule
	StringRule
)

var ruleKindNames = [...]string{
	CustomRule:       "custom",
	LineCommentRule:  "line_comment",
	BlockCommentRule: "block_comment",
	NumberRule:       "number",
	StringRule:       "string",
}

func (k RuleKind) String() string {
	if int(k) < len(ruleKindNames) {
		return ruleKindNames[k]
	}
	return "invalid"
}

func (k RuleKind) MarshalText() ([]byte, error) {
	if int(k) >= len(ruleKindNames) {
		return nil, errors.Errorf("invalid rule kind %d", k)
	}
	return []byte(k.String()), nil
}

func (k *RuleKind) UnmarshalText(text []byte) error {
	for i, n := range ruleKindNames {
		if n == string(text) {
			*k = RuleKind(i)
			return nil
		}
	}
	return errors.Errorf("unknown rule kind %q", text)
}

// A PatternRule (a "mode") marks text matched by Begin, or by Begin through
// the first following End match when End is set, with Scope. Patterns are
// written in the subset of syntax shared by RE2 and regexp2.
type PatternRule struct {
	Kind  RuleKind `yaml:"kind"`
	Scope Category `yaml:"scope"`
	Begin string   `yaml:"begin"`
	End   string   `yaml:"end,omitempty"`

	// SingleLine keeps the text between Begin and End from crossing a
	// newline. A rule whose End does not follow on the same line is not
	// matched there.
	SingleLine bool `yaml:"single_line,omitempty"`
}

// Pattern returns the single regular expression equivalent to the rule.
func (r PatternRule) Pattern() string {
	if r.End == "" {
		return r.Begin
	}
	body := "(?s:.*?)"
	if r.SingleLine {
		body = `[^\n]*?`
	}
	return "(?:" + r.Begin + ")" + body + "(?:" + r.End + ")"
}

// PatternList is tried in order: at a given position the first rule wins.
type PatternList []PatternRule

// Validate checks the invariants engines rely on.
func (d *LanguageDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.Wrap(ErrInvalidDescriptor, "name is empty")
	}

	for c, words := range d.Keywords {
		if !c.IsKeywordCategory() {
			return errors.Wrapf(ErrInvalidDescriptor, "%s: category %q cannot hold keywords", d.Name, c)
		}
		seen := make(map[string]struct{}, len(words))
		for _, w := range words {
			if w == "" || strings.ContainsAny(w, " \t\r\n") {
				return errors.Wrapf(ErrInvalidDescriptor, "%s: malformed %s token %q", d.Name, c, w)
			}
			if _, dup := seen[w]; dup {
				return errors.Wrapf(ErrInvalidDescriptor, "%s: duplicate %s token %q", d.Name, c, w)
			}
			seen[w] = struct{}{}
		}
	}

	for i, r := range d.Contains {
		if r.Begin == "" {
			return errors.Wrapf(ErrInvalidDescriptor, "%s: rule %d (%s) has no begin pattern", d.Name, i, r.Kind)
		}
		re, err := regexp.Compile("(?m)" + r.Pattern())
		if err != nil {
			return errors.Wrapf(ErrInvalidDescriptor, "%s: rule %d (%s): %v", d.Name, i, r.Kind, err)
		}
		if re.MatchString("") {
			return errors.Wrapf(ErrInvalidDescriptor, "%s: rule %d (%s) matches the empty string", d.Name, i, r.Kind)
		}
	}
	return nil
}
