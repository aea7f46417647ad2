package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A Component is anything drawn in a rectangle of the screen: the tab
// container and the code views inside it. It is expected that after
// constructing a component, to call SetPos(), and SetSize() as well.
type Component interface {
	// A component knows its position and size, which is used to draw itself in
	// its bounding rectangle.
	Draw(tcell.Screen)
	// Components can be focused, which may affect how it handles events or
	// draws. A focused CodeView shows its cursor line.
	SetFocused(bool)
	// Applies the theme to the component and all of its children.
	SetTheme(*Theme)

	GetPos() (x, y int)
	SetPos(x, y int)

	GetSize() (w, h int)
	SetSize(w, h int)

	// HandleEvent tells the Component to handle the provided event. It returns
	// whether the event was handled.
	HandleEvent(tcell.Event) bool
}

// baseComponent can be embedded in a Component's struct to hide the
// boilerplate fields and functions.
type baseComponent struct {
	focused       bool
	x, y          int
	width, height int
	theme         *Theme
}

func (c *baseComponent) SetFocused(v bool) {
	c.focused = v
}

func (c *baseComponent) SetTheme(theme *Theme) {
	c.theme = theme
}

func (c *baseComponent) GetPos() (int, int) {
	return c.x, c.y
}

func (c *baseComponent) SetPos(x, y int) {
	c.x, c.y = x, y
}

func (c *baseComponent) GetSize() (int, int) {
	return c.width, c.height
}

func (c *baseComponent) SetSize(width, height int) {
	c.width, c.height = width, height
}
