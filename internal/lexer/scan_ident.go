package lexer

import "wisp/internal/token"

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDecDigit(b)
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	line := lx.line
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	kind := token.Ident
	if kw, ok := token.LookupKeyword(text); ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: sp, Line: line, Text: text}
}
