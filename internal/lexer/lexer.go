// Package lexer turns a byte buffer into a stream of tokens for the parser,
// tracking 1-based source line numbers per §4.5.
package lexer

import (
	"wisp/internal/diag"
	"wisp/internal/source"
	"wisp/internal/token"
)

// Lexer scans a single source.File into tokens on demand.
type Lexer struct {
	file   *source.File
	cursor Cursor
	bag    *diag.Bag
	line   uint32 // 1-based line of the cursor's current position
	look   *token.Token
	hold   []token.Trivia
}

// New constructs a Lexer over file. bag, if non-nil, receives lex diagnostics;
// lexing never stops on an error — it reports and resumes past the offending byte.
func New(file *source.File, bag *diag.Bag) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		bag:    bag,
		line:   1,
	}
}

// Line returns the current 1-based line number of the cursor.
func (lx *Lexer) Line() uint32 { return lx.line }

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.bag != nil {
		lx.bag.Add(diag.New(diag.SevError, code, sp, msg))
	}
}

// countLines bumps the line counter for every '\n' in [from, lx.cursor.Off).
func (lx *Lexer) countLines(from uint32) {
	content := lx.file.Content
	for i := from; i < lx.cursor.Off && int(i) < len(content); i++ {
		if content[i] == '\n' {
			lx.line++
		}
	}
}

// Next returns the next significant token, with its leading trivia already
// collected. Calling Next past end-of-input keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan(), Line: lx.line, Leading: lx.takeHold()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case isDecDigit(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}
	tok.Leading = lx.takeHold()
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) takeHold() []token.Trivia {
	h := lx.hold
	lx.hold = nil
	return h
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
