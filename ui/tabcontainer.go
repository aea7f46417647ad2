package ui

import (
	"fmt"

	"github.com/fivemoreminix/onyxview/page"
	"github.com/gdamore/tcell/v2"
)

// A Tab is a child of a TabContainer; has a name and child Component.
type Tab struct {
	Name  string
	Child Component
}

// A TabContainer organizes children by showing only one of them at a time.
// It is also the document holding the code blocks of the viewer: every
// CodeView tab is selected by page.CodeSelector.
type TabContainer struct {
	children []Tab
	selected int

	baseComponent
}

func NewTabContainer(theme *Theme) *TabContainer {
	return &TabContainer{
		children:      make([]Tab, 0, 4),
		baseComponent: baseComponent{theme: theme},
	}
}

func (c *TabContainer) AddTab(name string, child Component) {
	c.children = append(c.children, Tab{Name: name, Child: child})
	// Update new child's size and position
	child.SetPos(c.x+1, c.y+1)
	child.SetSize(c.width-2, c.height-2)
}

// FocusTab sets the visible tab to the one at `idx`. FocusTab clamps `idx`
// between 0 and tab_count - 1. If no tabs are present, the function does nothing.
func (c *TabContainer) FocusTab(idx int) {
	if len(c.children) < 1 {
		return
	}

	idx = Clamp(idx, 0, len(c.children)-1)

	c.children[c.selected].Child.SetFocused(false) // Unfocus old tab
	c.selected = idx
	c.children[idx].Child.SetFocused(c.focused) // Focus new tab
	c.layoutSelected()
}

func (c *TabContainer) GetSelectedTabIdx() int {
	return c.selected
}

// SelectedView returns the visible CodeView, or nil.
func (c *TabContainer) SelectedView() *CodeView {
	if c.selected < len(c.children) {
		if v, ok := c.children[c.selected].Child.(*CodeView); ok {
			return v
		}
	}
	return nil
}

// Views returns every CodeView tab in tab order.
func (c *TabContainer) Views() []*CodeView {
	var views []*CodeView
	for _, tab := range c.children {
		if v, ok := tab.Child.(*CodeView); ok {
			views = append(views, v)
		}
	}
	return views
}

// QuerySelectorAll returns the CodeView tabs for page.CodeSelector, and
// nothing for any other selector.
func (c *TabContainer) QuerySelectorAll(selector string) []page.Element {
	if selector != page.CodeSelector {
		return nil
	}
	var out []page.Element
	for _, v := range c.Views() {
		out = append(out, v)
	}
	return out
}

// Draw will draws the border of the TabContainer, then it draws its child component.
func (c *TabContainer) Draw(s tcell.Screen) {
	var styFocused tcell.Style
	if c.focused {
		styFocused = c.theme.GetOrDefault("TabContainerFocused")
	} else {
		styFocused = c.theme.GetOrDefault("TabContainer")
	}

	// Draw outline
	DrawRectOutlineDefault(s, c.x, c.y, c.width, c.height, styFocused)

	combinedTabLength := 0
	for i := range c.children {
		combinedTabLength += len(c.children[i].Name) + 2 // 2 for padding
	}
	combinedTabLength += len(c.children) - 1 // add for spacing between tabs

	// Draw tabs
	col := c.x + max(c.width/2-combinedTabLength/2, 1) // Starting column
	for i, tab := range c.children {
		sty := styFocused
		if c.selected == i {
			fg, bg, attr := styFocused.Decompose()
			sty = tcell.Style{}.Foreground(bg).Background(fg).Attributes(attr)
		}

		str := fmt.Sprintf(" %s ", tab.Name)
		col = DrawStr(s, col, c.y, c.x+c.width-1, str, sty) + 1 // Add one for spacing between tabs
	}

	// Draw selected child in center
	if c.selected < len(c.children) {
		c.children[c.selected].Child.Draw(s)
	}
}

// SetFocused calls SetFocused on the visible child Component.
func (c *TabContainer) SetFocused(v bool) {
	c.focused = v
	if len(c.children) > 0 {
		c.children[c.selected].Child.SetFocused(v)
	}
}

// SetTheme sets the theme.
func (c *TabContainer) SetTheme(theme *Theme) {
	c.theme = theme
	for _, tab := range c.children {
		tab.Child.SetTheme(theme) // Update the theme for all children
	}
}

// SetPos sets the position of the container and updates the child Component.
func (c *TabContainer) SetPos(x, y int) {
	c.x, c.y = x, y
	c.layoutSelected()
}

// SetSize sets the size of the container and updates the size of the child Component.
func (c *TabContainer) SetSize(width, height int) {
	c.width, c.height = width, height
	c.layoutSelected()
}

func (c *TabContainer) layoutSelected() {
	if c.selected < len(c.children) {
		c.children[c.selected].Child.SetPos(c.x+1, c.y+1)
		c.children[c.selected].Child.SetSize(c.width-2, c.height-2)
	}
}

// HandleEvent forwards the event to the child Component and returns whether it was handled.
func (c *TabContainer) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlE {
			newIdx := c.selected + 1
			if newIdx >= len(c.children) {
				newIdx = 0
			}
			c.FocusTab(newIdx)
			return true
		} else if ev.Key() == tcell.KeyCtrlW {
			newIdx := c.selected - 1
			if newIdx < 0 {
				newIdx = len(c.children) - 1
			}
			c.FocusTab(newIdx)
			return true
		}
	}

	if c.selected < len(c.children) {
		return c.children[c.selected].Child.HandleEvent(event)
	}

	return false
}
