package buffer

import (
	"io"
)

// A Buffer is a read-only view of text addressed by line and column, where
// columns count runes. All lines and columns start at zero.
//
// Any line out of range is a panic! If you are unsure a line is in bounds, use
// ClampLineCol() or compare with Lines().
type Buffer interface {
	// Line returns a slice of the data at the given line, including the ending
	// line-delimiter. Data returned may or may not be a copy: do not write to it.
	Line(line int) []byte

	// Bytes returns all of the bytes in the buffer, likely as a copy.
	Bytes() []byte

	// Len returns the number of bytes in the buffer.
	Len() int

	// Lines returns the number of lines in the buffer. An empty buffer has
	// one line.
	Lines() int

	// RunesInLine returns the number of runes in the given line, excluding
	// the line delimiter.
	RunesInLine(line int) int

	// ClampLineCol clamps line to the buffer, then col to the runes of that
	// line.
	ClampLineCol(line, col int) (int, int)

	// LineColToPos returns the byte offset of the rune at line, col. A col past
	// the end of the line gives the offset of the line delimiter.
	LineColToPos(line, col int) int

	// PosToLineCol converts a byte offset into a line and rune column. The
	// position is clamped to the buffer.
	PosToLineCol(pos int) (int, int)

	WriteTo(w io.Writer) (int64, error)
}
