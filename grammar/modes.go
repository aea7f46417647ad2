package grammar

import "regexp"

// Common modes shared by C-like grammars.
var (
	CBlockComment = PatternRule{Kind: BlockCommentRule, Scope: Comment, Begin: `/\*`, End: `\*/`}
	CNumber       = PatternRule{Kind: NumberRule, Scope: Number, Begin: CNumberPattern}
	QuoteString   = PatternRule{Kind: StringRule, Scope: String, Begin: `"(?:[^"\\\n]|\\.)*"`}
)

// CNumberPattern accepts hex, decimal, fractional and exponent literals.
const CNumberPattern = `-?(?:\b0[xX][a-fA-F0-9]+|(?:\b\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?)`

// LineComment returns a comment mode opened by the literal begin and closed
// by the pattern end, usually "$".
func LineComment(begin, end string) PatternRule {
	return PatternRule{Kind: LineCommentRule, Scope: Comment, Begin: regexp.QuoteMeta(begin), End: end}
}

// Custom returns a language specific mode.
func Custom(scope Category, begin, end string) PatternRule {
	return PatternRule{Kind: CustomRule, Scope: scope, Begin: begin, End: end}
}

// Inline returns a language specific mode that begins and ends on one line.
func Inline(scope Category, begin, end string) PatternRule {
	r := Custom(scope, begin, end)
	r.SingleLine = true
	return r
}
