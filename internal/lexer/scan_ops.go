package lexer

import (
	"wisp/internal/diag"
	"wisp/internal/token"
)

var singleByteOps = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	',': token.Comma,
	';': token.Semicolon,
	'.': token.Dot,
	':': token.Colon,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'<': token.Lt,
	'>': token.Gt,
	'!': token.Bang,
}

// twoByteOps lists the two-character operator forms of §4.5.
var twoByteOps = []struct {
	a, b byte
	kind token.Kind
}{
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
	{'+', '=', token.PlusAssign},
	{'-', '=', token.MinusAssign},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	line := lx.line
	b0, b1, ok := lx.cursor.Peek2()
	if ok {
		for _, op := range twoByteOps {
			if b0 == op.a && b1 == op.b {
				lx.cursor.Bump()
				lx.cursor.Bump()
				sp := lx.cursor.SpanFrom(start)
				return token.Token{Kind: op.kind, Span: sp, Line: line, Text: string(lx.file.Content[sp.Start:sp.End])}
			}
		}
	}

	b := lx.cursor.Bump()
	if kind, ok := singleByteOps[b]; ok {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Line: line, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unrecognized character")
	return token.Token{Kind: token.Invalid, Span: sp, Line: line, Text: string(lx.file.Content[sp.Start:sp.End])}
}
