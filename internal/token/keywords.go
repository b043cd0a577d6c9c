package token

// Keywords maps the seventeen reserved words to their Kind.
var Keywords = map[string]Kind{
	"true":   KwTrue,
	"false":  KwFalse,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"for":    KwFor,
	"while":  KwWhile,
	"func":   KwFunc,
	"var":    KwVar,
	"nil":    KwNil,
	"class":  KwClass,
	"import": KwImport,
	"break":  KwBreak,
	"new":    KwNew,
	"static": KwStatic,
	"as":     KwAs,
	"super":  KwSuper,
}

// LookupKeyword returns the keyword Kind for s, or (Ident, false) if s is a
// plain identifier.
func LookupKeyword(s string) (Kind, bool) {
	k, ok := Keywords[s]
	return k, ok
}
