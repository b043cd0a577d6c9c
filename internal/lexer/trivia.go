package lexer

import (
	"wisp/internal/diag"
	"wisp/internal/token"
)

// skipTrivia consumes whitespace and comments, accumulating them into
// lx.hold so the next significant token can carry them as Leading.
// Block comments (/* ... */) do not nest (§4.5); an unterminated one is
// reported once and consumed to end-of-input.
func (lx *Lexer) skipTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		lineStart := lx.cursor.Off
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\r':
			for {
				c := lx.cursor.Peek()
				if c != ' ' && c != '\t' && c != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: lx.cursor.SpanFrom(start),
			})
			continue

		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.countLines(lineStart)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: lx.cursor.SpanFrom(start),
			})
			continue

		case b == '/':
			if lx.scanLineComment(start) {
				continue
			}
			if lx.scanBlockComment(start) {
				continue
			}
			return
		default:
			return
		}
	}
}

func (lx *Lexer) scanLineComment(start Mark) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || b1 != '/' {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaLineComment,
		Span: lx.cursor.SpanFrom(start),
	})
	return true
}

func (lx *Lexer) scanBlockComment(start Mark) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || b1 != '*' {
		return false
	}
	lineStart := lx.cursor.Off
	lx.cursor.Bump()
	lx.cursor.Bump()
	closed := false
	for !lx.cursor.EOF() {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed = true
			break
		}
		lx.cursor.Bump()
	}
	lx.countLines(lineStart)
	sp := lx.cursor.SpanFrom(start)
	if !closed {
		lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	}
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaBlockComment,
		Span: sp,
	})
	return true
}
