package lexer

import "wisp/internal/token"

func isDecDigit(b byte) bool { return b >= '0' && b <= '9' }

// scanNumber consumes a decimal literal with an optional fractional part and
// an optional trailing 'f'/'F' suffix (§4.5). The suffix is purely lexical —
// this runtime has only one numeric type (float64, §1 Non-goals).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	line := lx.line
	kind := token.IntLit

	for isDecDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDecDigit(b1) {
		kind = token.FloatLit
		lx.cursor.Bump() // '.'
		for isDecDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if c := lx.cursor.Peek(); c == 'f' || c == 'F' {
		lx.cursor.Bump()
		kind = token.FloatLit
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Line: line, Text: string(lx.file.Content[sp.Start:sp.End])}
}
