// Package token defines the lexical token kinds produced by internal/lexer.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Source is treated as bytes, not runes; identifiers are ASCII.
package token
