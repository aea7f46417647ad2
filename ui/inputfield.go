package ui

import "github.com/gdamore/tcell/v2"

// An InputField is a single-line input box.
type InputField struct {
	cursorPos int // Rune offset into text
	scrollPos int
	text      []rune

	baseComponent
}

func NewInputField(text string, theme *Theme) *InputField {
	f := &InputField{baseComponent: baseComponent{theme: theme}}
	f.SetText(text)
	return f
}

func (f *InputField) Text() string {
	return string(f.text)
}

// SetText replaces the contents and moves the cursor to the end.
func (f *InputField) SetText(text string) {
	f.text = []rune(text)
	f.SetCursorPos(len(f.text))
}

func (f *InputField) GetCursorPos() int {
	return f.cursorPos
}

// SetCursorPos sets the cursor position offset. Offset is clamped to possible values.
// The InputField is scrolled to show the new cursor position.
func (f *InputField) SetCursorPos(offset int) {
	offset = Clamp(offset, 0, len(f.text))

	visible := max(f.width-2, 1)       // Inside the brackets
	if offset >= f.scrollPos+visible { // If cursor position is out of view to the right...
		f.scrollPos = offset - visible + 1 // Scroll just enough to view that column
	} else if offset < f.scrollPos { // If cursor position is out of view to the left...
		f.scrollPos = offset
	}

	f.cursorPos = offset
}

// Delete removes the rune after the cursor when forward is set, otherwise the
// rune before it.
func (f *InputField) Delete(forward bool) {
	at := f.cursorPos
	if !forward {
		at--
	}
	if at < 0 || at >= len(f.text) {
		return
	}
	f.text = append(f.text[:at], f.text[at+1:]...)
	f.SetCursorPos(at)
}

func (f *InputField) insert(r rune) {
	f.text = append(f.text, 0)
	copy(f.text[f.cursorPos+1:], f.text[f.cursorPos:])
	f.text[f.cursorPos] = r
	f.SetCursorPos(f.cursorPos + 1)
}

func (f *InputField) Draw(s tcell.Screen) {
	style := f.theme.GetOrDefault("InputField")

	DrawRect(s, f.x, f.y, f.width, f.height, ' ', style) // Draw background
	s.SetContent(f.x, f.y, '[', nil, style)
	s.SetContent(f.x+f.width-1, f.y, ']', nil, style)

	if f.scrollPos < len(f.text) {
		DrawStr(s, f.x+1, f.y, f.x+f.width-1, string(f.text[f.scrollPos:]), style) // Draw text
	}

	if f.focused {
		s.ShowCursor(f.x+1+f.cursorPos-f.scrollPos, f.y)
	}
}

func (f *InputField) SetSize(width, height int) {
	f.width, f.height = width, height
	f.scrollPos = 0
	f.SetCursorPos(f.cursorPos)
}

func (f *InputField) HandleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyLeft:
			f.SetCursorPos(f.cursorPos - 1)
		case tcell.KeyRight:
			f.SetCursorPos(f.cursorPos + 1)
		case tcell.KeyHome:
			f.SetCursorPos(0)
		case tcell.KeyEnd:
			f.SetCursorPos(len(f.text))
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			f.Delete(false)
		case tcell.KeyDelete:
			f.Delete(true)
		case tcell.KeyRune:
			f.insert(ev.Rune())
		default:
			return false
		}
		return true
	}
	return false
}
