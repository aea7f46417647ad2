package ui

import (
	"testing"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/grammar/onyx"
	"github.com/fivemoreminix/onyxview/page"
	"github.com/fivemoreminix/onyxview/ui/buffer"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	plainStyle   = tcell.Style{}.Foreground(tcell.ColorSilver)
	keywordStyle = tcell.Style{}.Foreground(tcell.ColorRed)
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(40, 10)
	t.Cleanup(s.Fini)
	return s
}

func newView(contents string) *CodeView {
	cs := buffer.Colorscheme{grammar.Default: plainStyle, grammar.Keyword: keywordStyle}
	v := NewCodeView("main.onyx", []byte(contents), &cs, &Theme{})
	v.LineNumbers = false
	v.SetPos(0, 0)
	v.SetSize(20, 3)
	return v
}

func assertCell(t *testing.T, s tcell.Screen, x, y int, want rune, style tcell.Style) {
	t.Helper()
	r, _, got, _ := s.GetContent(x, y)
	assert.Equal(t, string(want), string(r), "rune at %d,%d", x, y)
	assert.Equal(t, style, got, "style at %d,%d", x, y)
}

func TestCodeViewElement(t *testing.T) {
	v := newView("if x\n")
	assert.Equal(t, "if x\n", v.Text())
	assert.Nil(t, v.Classes())

	v.Language = "onyx"
	assert.Equal(t, []string{"language-onyx"}, v.Classes())
	assert.Equal(t, "onyx", page.BlockLanguage(v))
}

func TestCodeViewDraw(t *testing.T) {
	s := newScreen(t)
	v := newView("if x\n\tz\n")
	v.SetSpans([]grammar.Span{{Start: 0, End: 2, Category: grammar.Keyword}})
	v.Draw(s)

	assertCell(t, s, 0, 0, 'i', keywordStyle)
	assertCell(t, s, 1, 0, 'f', keywordStyle)
	assertCell(t, s, 2, 0, ' ', plainStyle)
	assertCell(t, s, 3, 0, 'x', plainStyle)

	// Tabs expand to the next tab stop.
	assertCell(t, s, 3, 1, ' ', plainStyle)
	assertCell(t, s, 4, 1, 'z', plainStyle)
}

func TestCodeViewDrawCursorLine(t *testing.T) {
	s := newScreen(t)
	v := newView("if\nx\n")
	v.SetSpans([]grammar.Span{{Start: 0, End: 2, Category: grammar.Keyword}})
	v.SetFocused(true)
	v.Draw(s)

	_, cursorBg, _ := DefaultTheme["CodeViewCursorLine"].Decompose()
	assertCell(t, s, 0, 0, 'i', keywordStyle.Background(cursorBg))
	assertCell(t, s, 0, 1, 'x', plainStyle)
}

func TestCodeViewDrawLineNumbers(t *testing.T) {
	s := newScreen(t)
	v := newView("if x\n")
	v.LineNumbers = true
	v.Draw(s)

	r, _, _, _ := s.GetContent(1, 0)
	assert.Equal(t, '1', r)
	r, _, _, _ = s.GetContent(2, 0)
	assert.Equal(t, '│', r)
	r, _, _, _ = s.GetContent(3, 0)
	assert.Equal(t, 'i', r)
}

func TestCodeViewScroll(t *testing.T) {
	v := newView("a\nb\nc\nd\ne\n")
	assert.Equal(t, 0, v.scrolly)

	v.HandleEvent(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	assert.Equal(t, 5, v.CursorLine())
	assert.Equal(t, 3, v.scrolly)

	v.HandleEvent(tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone))
	assert.Equal(t, 2, v.CursorLine())
	assert.Equal(t, 2, v.scrolly)

	v.HandleEvent(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	assert.Equal(t, 0, v.CursorLine())
	assert.Equal(t, "a", v.LineString(v.CursorLine()))
}

func TestCodeViewSetContents(t *testing.T) {
	v := newView("if\n")
	v.SetSpans([]grammar.Span{{Start: 0, End: 2, Category: grammar.Keyword}})
	require.Equal(t, grammar.Keyword, v.Highlighter.CategoryAt(0, 0))

	v.SetContents([]byte("x\n"))
	assert.Equal(t, grammar.Default, v.Highlighter.CategoryAt(0, 0), "new contents start unhighlighted")
}

func TestTabContainerDocument(t *testing.T) {
	tabs := NewTabContainer(&Theme{})
	a := newView("use core\n")
	a.Language = "onyx"
	b := newView("use core\n")
	tabs.AddTab("a.onyx", a)
	tabs.AddTab("b.txt", b)

	assert.Len(t, tabs.QuerySelectorAll(page.CodeSelector), 2)
	assert.Nil(t, tabs.QuerySelectorAll("pre"))

	n, err := onyx.InitializeHighlighting(tabs, page.NewEngine(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []buffer.Match{{Col: 0, EndCol: 2, Category: grammar.Keyword}}, a.Highlighter.GetLineMatches(0))
	assert.Empty(t, b.Highlighter.GetLineMatches(0))
}

func TestTabContainerFocus(t *testing.T) {
	tabs := NewTabContainer(&Theme{})
	a, b := newView("a\n"), newView("b\n")
	tabs.AddTab("a", a)
	tabs.AddTab("b", b)
	tabs.SetFocused(true)

	assert.Same(t, a, tabs.SelectedView())
	tabs.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlE, 0, tcell.ModCtrl))
	assert.Same(t, b, tabs.SelectedView())
	assert.True(t, b.focused)
	assert.False(t, a.focused)

	tabs.FocusTab(10)
	assert.Equal(t, 1, tabs.GetSelectedTabIdx())
	tabs.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlE, 0, tcell.ModCtrl))
	assert.Same(t, a, tabs.SelectedView(), "switching wraps around")
}
