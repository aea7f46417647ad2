package grammar

import "github.com/pkg/errors"

// A Category is the label a highlighting engine applies to a span of source
// text. The set is closed: descriptors may only use the values declared here.
type Category uint8

const (
	Default Category = iota
	Keyword
	Literal
	Type
	BuiltIn
	String
	Number
	Comment
)

var categoryNames = [...]string{
	Default: "",
	Keyword: "keyword",
	Literal: "literal",
	Type:    "type",
	BuiltIn: "built_in",
	String:  "string",
	Number:  "number",
	Comment: "comment",
}

// KeywordCategories are the categories a KeywordTable may hold, in lookup
// priority order.
var KeywordCategories = []Category{Keyword, Literal, Type, BuiltIn}

// String returns the highlight name of the category, e.g. "built_in".
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "invalid"
}

// IsKeywordCategory reports whether c may be used as a KeywordTable key.
func (c Category) IsKeywordCategory() bool {
	for _, k := range KeywordCategories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return Default, errors.Errorf("unknown category %q", name)
}

func (c Category) MarshalText() ([]byte, error) {
	if int(c) >= len(categoryNames) {
		return nil, errors.Errorf("invalid category %d", c)
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
