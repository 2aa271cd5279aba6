package forthic

import "fmt"

// Position names a location in source text: a line and column (both
// 1-based), plus a byte offset from the start of the fragment that was
// tokenized. When a Tokenizer is given an optional reference Position (as
// RunNamed does, to carry a source file name), positions are computed
// relative to it, so that reported locations describe where the token sits
// in the source the reader actually cares about.
type Position struct {
	Name   string
	Line   int
	Column int
	Byte   int
}

func (pos Position) String() string {
	if pos.Name == "" {
		return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d", pos.Name, pos.Line, pos.Column)
}

// advance returns the Position reached after advancing past n bytes of text
// containing nl newlines, the last of which ended at lastCol columns into
// its line; pos is the position of the first of those bytes.
func (pos Position) advance(nl, lastCol, nbytes int) Position {
	next := pos
	next.Byte += nbytes
	if nl > 0 {
		next.Line += nl
		next.Column = lastCol
	} else {
		next.Column = lastCol
	}
	return next
}
