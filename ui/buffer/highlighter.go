package buffer

import (
	"sort"
	"unicode/utf8"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/gdamore/tcell/v2"
)

type Colorscheme map[grammar.Category]tcell.Style

// Gets the tcell.Style from the Colorscheme map for the given Category.
// If the Category cannot be found in the map, either the `Default` Category
// is used, or `tcell.StyleDefault` is returned if the Default is not assigned.
func (c *Colorscheme) GetStyle(s grammar.Category) tcell.Style {
	if c != nil {
		if val, ok := (*c)[s]; ok {
			return val // Try to return the requested value
		} else if s != grammar.Default {
			if val, ok := (*c)[grammar.Default]; ok {
				return val // Use default colorscheme value, instead
			}
		}
	}

	return tcell.StyleDefault // No value for Default; use default style.
}

// A Match is the part of a highlighted span that lies on one line.
type Match struct {
	Col      int // Inclusive
	EndCol   int // Inclusive
	Category grammar.Category
}

// ByCol implements sort.Interface for []Match based on the Col field.
type ByCol []Match

func (c ByCol) Len() int           { return len(c) }
func (c ByCol) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c ByCol) Less(i, j int) bool { return c[i].Col < c[j].Col }

// A Highlighter can answer how to color any part of a provided Buffer. An
// engine computes spans over the buffer's bytes, and the Highlighter keeps
// them as per-line rune column matches.
type Highlighter struct {
	Buffer      Buffer
	Colorscheme *Colorscheme

	lineMatches [][]Match
}

func NewHighlighter(buffer Buffer, colorscheme *Colorscheme) *Highlighter {
	h := &Highlighter{Buffer: buffer, Colorscheme: colorscheme}
	h.Clear()
	return h
}

// SetSpans replaces every match with spans, which must be sorted, must not
// overlap, and must index Buffer.Bytes(). Spans crossing lines are split, and
// line delimiters are never part of a match.
func (h *Highlighter) SetSpans(spans []grammar.Span) {
	h.Clear()
	src := h.Buffer.Bytes()

	var pos, line, col int
	step := func() rune {
		r, size := utf8.DecodeRune(src[pos:])
		pos += size
		return r
	}

	for _, s := range spans {
		if s.Start < pos || s.End > len(src) {
			continue // Out of order or stale
		}
		for pos < s.Start {
			if step() == '\n' {
				line, col = line+1, 0
			} else {
				col++
			}
		}

		segStart := col
		for pos < s.End {
			r := step()
			if r == '\n' || r == '\r' {
				if col > segStart {
					h.add(line, Match{segStart, col - 1, s.Category})
				}
				if r == '\n' {
					line, col = line+1, 0
				} else {
					col++
				}
				segStart = col
				continue
			}
			col++
		}
		if col > segStart {
			h.add(line, Match{segStart, col - 1, s.Category})
		}
	}
}

func (h *Highlighter) add(line int, m Match) {
	if line < len(h.lineMatches) {
		h.lineMatches[line] = append(h.lineMatches[line], m)
	}
}

// Clear drops all matches.
func (h *Highlighter) Clear() {
	h.lineMatches = make([][]Match, h.Buffer.Lines())
}

func (h *Highlighter) GetLineMatches(line int) []Match {
	if line < 0 || line >= len(h.lineMatches) {
		return nil
	}
	data := h.lineMatches[line]
	sort.Sort(ByCol(data))
	return data
}

// CategoryAt returns the category of the rune at line, col.
func (h *Highlighter) CategoryAt(line, col int) grammar.Category {
	for _, m := range h.GetLineMatches(line) {
		if col < m.Col {
			break
		}
		if col <= m.EndCol {
			return m.Category
		}
	}
	return grammar.Default
}

func (h *Highlighter) GetStyle(match Match) tcell.Style {
	return h.Colorscheme.GetStyle(match.Category)
}
