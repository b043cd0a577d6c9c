package compiler

import "wisp/internal/token"

// Precedence levels, low to high (§4.6): "assign, logical-or, logical-and,
// equality, ternary, comparison, term, factor, unary, prefix, postfix,
// call." Ternary has no dedicated operator in this language's token set,
// so it occupies its slot in the ordering without a binding operator.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssign
	PrecLogicalOr
	PrecLogicalAnd
	PrecEquality
	PrecTernary
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecPrefix
	PrecPostfix
	PrecCall
)

// precedenceOf returns the infix binding precedence of k, or PrecNone if k
// never appears as an infix operator.
func precedenceOf(k token.Kind) Precedence {
	switch k {
	case token.Assign, token.PlusAssign, token.MinusAssign:
		return PrecAssign
	case token.OrOr:
		return PrecLogicalOr
	case token.AndAnd:
		return PrecLogicalAnd
	case token.EqEq, token.BangEq:
		return PrecEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return PrecComparison
	case token.Plus, token.Minus:
		return PrecTerm
	case token.Star, token.Slash, token.Percent:
		return PrecFactor
	case token.LParen, token.Dot, token.LBracket:
		return PrecCall
	default:
		return PrecNone
	}
}

// isRightAssoc reports whether k's infix operator binds right-to-left —
// only assignment does.
func isRightAssoc(k token.Kind) bool {
	switch k {
	case token.Assign, token.PlusAssign, token.MinusAssign:
		return true
	default:
		return false
	}
}
