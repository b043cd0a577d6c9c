package token

import "wisp/internal/source"

// TriviaKind classifies non-significant source text attached to a token.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

// Trivia is a span of whitespace or comment text preceding a significant token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
