package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/ui/buffer"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// CodeView is a read-only, highlighted view of one file. It is a code block
// of the TabContainer document: engines read its Text and give it spans.
type CodeView struct {
	Buffer      buffer.Buffer
	Highlighter *buffer.Highlighter
	Language    string // Registered language name, empty if unknown
	FilePath    string
	LineNumbers bool // Whether to render line numbers (and therefore the column)
	TabSize     int

	colorscheme      *buffer.Colorscheme
	cursorLine       int
	scrollx, scrolly int // X and Y offset of view, known as scroll

	baseComponent
}

func NewCodeView(filePath string, contents []byte, colorscheme *buffer.Colorscheme, theme *Theme) *CodeView {
	v := &CodeView{
		LineNumbers: true,
		TabSize:     4,
		FilePath:    filePath,

		colorscheme:   colorscheme,
		baseComponent: baseComponent{theme: theme},
	}
	v.SetContents(contents)
	return v
}

// SetContents replaces the viewed text. Highlighting is cleared until an
// engine sets new spans.
func (v *CodeView) SetContents(contents []byte) {
	v.Buffer = buffer.NewRopeBuffer(contents)
	v.Highlighter = buffer.NewHighlighter(v.Buffer, v.colorscheme)
	v.cursorLine, _ = v.Buffer.ClampLineCol(v.cursorLine, 0)
	v.ScrollToCursor()
}

// Text returns the contents of the view.
func (v *CodeView) Text() string {
	return string(v.Buffer.Bytes())
}

// Classes returns "language-NAME" when the view's language is known.
func (v *CodeView) Classes() []string {
	if v.Language == "" {
		return nil
	}
	return []string{"language-" + v.Language}
}

// SetSpans applies highlighting computed over Text().
func (v *CodeView) SetSpans(spans []grammar.Span) {
	v.Highlighter.SetSpans(spans)
}

func (v *CodeView) CursorLine() int {
	return v.cursorLine
}

// SetCursorLine moves the cursor line, clamped to the buffer, into view.
func (v *CodeView) SetCursorLine(line int) {
	v.cursorLine, _ = v.Buffer.ClampLineCol(line, 0)
	v.ScrollToCursor()
}

// LineString returns the text of line without its delimiter.
func (v *CodeView) LineString(line int) string {
	return strings.TrimRight(string(v.Buffer.Line(line)), "\r\n")
}

// Scroll the view if the cursor line is out of view.
func (v *CodeView) ScrollToCursor() {
	if v.height > 0 && v.cursorLine >= v.scrolly+v.height { // If the line is below view...
		v.scrolly = v.cursorLine - v.height + 1 // Scroll just enough to view that line
	} else if v.cursorLine < v.scrolly { // If the line is above view
		v.scrolly = v.cursorLine
	}
	v.scrolly = max(v.scrolly, 0)
}

// SetSize resizes the view and keeps the cursor line visible.
func (v *CodeView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.ScrollToCursor()
}

// getColumnWidth returns the width of the line numbers column if it is present.
func (v *CodeView) getColumnWidth() int {
	var columnWidth int
	if v.LineNumbers {
		// Set columnWidth to max count of line number digits
		columnWidth = max(3, 1+len(strconv.Itoa(v.Buffer.Lines()))) // Column has minimum width of 3
	}
	return columnWidth
}

// Draw renders the CodeView component.
func (v *CodeView) Draw(s tcell.Screen) {
	columnWidth := v.getColumnWidth()
	bufferLines := v.Buffer.Lines()
	columnStyle := v.theme.GetOrDefault("CodeViewColumn")
	_, cursorBg, _ := v.theme.GetOrDefault("CodeViewCursorLine").Decompose()
	defaultStyle := v.Highlighter.Colorscheme.GetStyle(grammar.Default)
	tabSize := max(v.TabSize, 1)

	for lineY := v.y; lineY < v.y+v.height; lineY++ { // For each line we can draw...
		line := lineY + v.scrolly - v.y // The line number being drawn (starts at zero)
		onCursor := v.focused && line == v.cursorLine

		lineStyle := func(style tcell.Style) tcell.Style {
			if onCursor {
				return style.Background(cursorBg)
			}
			return style
		}

		col := v.x + columnWidth
		lineNumStr := ""

		if line < bufferLines {
			lineNumStr = strconv.Itoa(line + 1)

			data := v.Buffer.Line(line)
			matches := v.Highlighter.GetLineMatches(line)
			var matchIdx int
			var visual int  // Cell offset from the start of the line, tabs expanded
			var runeIdx int // Rune column in the buffer

			for i := 0; i < len(data) && col < v.x+v.width; {
				r, size := utf8.DecodeRune(data[i:]) // Respect UTF-8
				i += size
				if r == '\n' || r == '\r' {
					break
				}

				for matchIdx < len(matches) && matches[matchIdx].EndCol < runeIdx {
					matchIdx++ // Passed that highlight data
				}
				style := defaultStyle
				if matchIdx < len(matches) && matches[matchIdx].Col <= runeIdx {
					style = v.Highlighter.GetStyle(matches[matchIdx])
				}
				style = lineStyle(style)

				ch, cells := r, 1
				if r == '\t' {
					ch, cells = ' ', tabSize-visual%tabSize
				}
				width := runewidth.RuneWidth(ch)
				if width == 0 {
					width = 1
				}

				for c := 0; c < cells; c++ {
					if visual >= v.scrollx {
						if col+width > v.x+v.width {
							break
						}
						s.SetContent(col, lineY, ch, nil, style)
						col += width
					}
					visual += width
				}
				runeIdx++
			}
		}

		for ; col < v.x+v.width; col++ { // Clear the rest of the line
			s.SetContent(col, lineY, ' ', nil, lineStyle(defaultStyle))
		}

		if v.LineNumbers {
			columnStr := fmt.Sprintf("%*s│", columnWidth-1, lineNumStr) // Right align line number
			DrawStr(s, v.x, lineY, v.x+columnWidth, columnStr, columnStyle)
		}
	}
}

// HandleEvent moves the cursor line and scrolls; returns whether the
// CodeView handled the event.
func (v *CodeView) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyUp:
			v.SetCursorLine(v.cursorLine - 1)
		case tcell.KeyDown:
			v.SetCursorLine(v.cursorLine + 1)
		case tcell.KeyPgUp:
			v.SetCursorLine(v.cursorLine - v.height) // Go a page up
		case tcell.KeyPgDn:
			v.SetCursorLine(v.cursorLine + v.height) // Go a page down
		case tcell.KeyHome:
			v.scrollx = 0
			v.SetCursorLine(0)
		case tcell.KeyEnd:
			v.SetCursorLine(v.Buffer.Lines() - 1)
		case tcell.KeyLeft:
			v.scrollx = max(v.scrollx-1, 0)
		case tcell.KeyRight:
			v.scrollx++
		default:
			return false
		}
		return true
	}
	return false
}
