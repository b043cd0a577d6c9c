package source

import (
	"fmt"
)

type Span struct {
	File  FileID
	Start uint32 // byte offset, inclusive
	End   uint32 // byte offset, exclusive
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ShiftLeft moves s back by n bytes, returning s unchanged if n would carry
// Start below zero — the fix machinery (internal/diag's Fix/FixEdit) only
// ever shifts spans derived from real token positions, so an out-of-range
// shift signals a caller bug rather than something worth wrapping or
// panicking over.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

// ShiftRight moves s forward by n bytes, returning s unchanged if n exceeds
// the span's own length.
func (s Span) ShiftRight(n uint32) Span {
	if n > s.Len() {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

// ZeroideToStart collapses s to a zero-length span at its Start, the shape
// an insert-only FixEdit wants when it points at "right before this token"
// rather than covering a range.
func (s Span) ZeroideToStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// ZeroideToEnd collapses s to a zero-length span at its End.
func (s Span) ZeroideToEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
