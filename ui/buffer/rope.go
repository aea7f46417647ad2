package buffer

import (
	"bytes"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/zyedidia/rope"
)

// RopeBuffer is a Buffer backed by a rope, with an index of line starts.
type RopeBuffer struct {
	rope   *rope.Node
	starts []int // Byte offset of the first byte of each line
}

func NewRopeBuffer(contents []byte) *RopeBuffer {
	b := &RopeBuffer{rope: rope.New(contents)}
	b.index()
	return b
}

func (b *RopeBuffer) index() {
	b.starts = append(b.starts[:0], 0)
	b.rope.IndexAllFunc(0, b.rope.Len(), []byte{'\n'}, func(idx int) bool {
		b.starts = append(b.starts, idx+1)
		return false // Keep indexing
	})
}

func (b *RopeBuffer) lineBounds(line int) (int, int) {
	if line < 0 || line >= len(b.starts) {
		panic("RopeBuffer: line out of range")
	}
	end := b.rope.Len()
	if line+1 < len(b.starts) {
		end = b.starts[line+1]
	}
	return b.starts[line], end
}

func (b *RopeBuffer) Line(line int) []byte {
	start, end := b.lineBounds(line)
	if start == end {
		return []byte{}
	}
	return b.rope.Slice(start, end)
}

func (b *RopeBuffer) Bytes() []byte {
	return b.rope.Value()
}

func (b *RopeBuffer) Len() int {
	return b.rope.Len()
}

func (b *RopeBuffer) Lines() int {
	return len(b.starts)
}

func trimDelim(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}

func (b *RopeBuffer) RunesInLine(line int) int {
	return utf8.RuneCount(trimDelim(b.Line(line)))
}

func (b *RopeBuffer) ClampLineCol(line, col int) (int, int) {
	if line < 0 {
		line = 0
	} else if last := b.Lines() - 1; line > last {
		line = last
	}

	if col < 0 {
		col = 0
	} else if runes := b.RunesInLine(line); col > runes {
		col = runes
	}

	return line, col
}

func (b *RopeBuffer) LineColToPos(line, col int) int {
	start, _ := b.lineBounds(line)
	data := trimDelim(b.Line(line))

	var i int
	for col > 0 && i < len(data) {
		_, size := utf8.DecodeRune(data[i:]) // Respect UTF-8 codepoint boundaries
		i += size
		col--
	}
	return start + i
}

func (b *RopeBuffer) PosToLineCol(pos int) (int, int) {
	if pos <= 0 {
		return 0, 0
	}
	if l := b.rope.Len(); pos > l {
		pos = l
	}

	// The last line starting at or before pos
	line := sort.Search(len(b.starts), func(i int) bool { return b.starts[i] > pos }) - 1
	start := b.starts[line]
	if start == pos {
		return line, 0
	}
	return line, utf8.RuneCount(b.rope.Slice(start, pos))
}

func (b *RopeBuffer) WriteTo(w io.Writer) (int64, error) {
	return b.rope.WriteTo(w)
}
