package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// GotoLineDialog asks for the line to move a CodeView's cursor to.
type GotoLineDialog struct {
	LineChosenCallback func(line int) // One-based line number
	CancelCallback     func()

	inputField *InputField

	baseComponent
}

func NewGotoLineDialog(theme *Theme, lineChosenCallback func(int), cancelCallback func()) *GotoLineDialog {
	return &GotoLineDialog{
		LineChosenCallback: lineChosenCallback,
		CancelCallback:     cancelCallback,
		inputField:         NewInputField("", theme),
		baseComponent:      baseComponent{theme: theme},
	}
}

// onConfirm reports the entered line. Input that is not a number is ignored.
func (d *GotoLineDialog) onConfirm() {
	num, err := strconv.Atoi(strings.TrimSpace(d.inputField.Text()))
	if err != nil || d.LineChosenCallback == nil {
		return
	}
	d.LineChosenCallback(num)
}

func (d *GotoLineDialog) Draw(s tcell.Screen) {
	style := d.theme.GetOrDefault("Window")
	DrawRect(s, d.x, d.y, d.width, d.height, ' ', style)
	DrawRectOutlineDefault(s, d.x, d.y, d.width, d.height, style)
	DrawStr(s, d.x+2, d.y, d.x+d.width-1, " Go to line ", style)

	d.inputField.Draw(s)
}

func (d *GotoLineDialog) SetFocused(v bool) {
	d.focused = v
	d.inputField.SetFocused(v)
}

func (d *GotoLineDialog) SetTheme(theme *Theme) {
	d.theme = theme
	d.inputField.SetTheme(theme)
}

func (d *GotoLineDialog) SetPos(x, y int) {
	d.x, d.y = x, y
	d.inputField.SetPos(d.x+1, d.y+1)
}

func (d *GotoLineDialog) SetSize(width, height int) {
	d.width, d.height = max(width, 20), max(height, 3)
	d.inputField.SetSize(d.width-2, 1)
}

func (d *GotoLineDialog) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok {
		switch ev.Key() {
		case tcell.KeyEsc:
			if d.CancelCallback != nil {
				d.CancelCallback()
			}
			return true
		case tcell.KeyEnter:
			d.onConfirm()
			return true
		case tcell.KeyRune:
			if ev.Rune() < '0' || ev.Rune() > '9' {
				return true // Digits only
			}
		}
	}
	return d.inputField.HandleEvent(event)
}
