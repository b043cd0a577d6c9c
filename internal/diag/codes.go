package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Syntax / compile.
	SynInfo                  Code = 2000
	SynUnexpectedToken       Code = 2001
	SynExpectSemicolon       Code = 2002
	SynExpectIdentifier      Code = 2003
	SynDuplicateLocal        Code = 2004
	SynUndeclaredIdentifier  Code = 2005
	SynInvalidBaseClass      Code = 2006
	SynBreakOutsideLoop      Code = 2007
	SynTooManyLocals         Code = 2008
	SynJumpTooFar            Code = 2009
	SynImportNotFound        Code = 2010
	SynImportMemberNotFound  Code = 2011
	SynSuperOutsideClass     Code = 2012
	SynSelfOutsideMethod     Code = 2013
	SynInvalidAssignTarget   Code = 2014
	SynTooManyConstants      Code = 2015

	// Runtime.
	RtUnknown          Code = 3000
	RtInvalidOpOnType  Code = 3001
	RtUndefinedSymbol  Code = 3002
	RtNotCallable      Code = 3003
	RtArityMismatch    Code = 3004
	RtNewOnNonClass    Code = 3005
	RtInvalidStore     Code = 3006
	RtOutOfMemory      Code = 3007
	RtModuleNotFound   Code = 3008
	RtModuleExists     Code = 3009
	RtModuleBusy       Code = 3010
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown error",
	LexInfo:                     "lexer information",
	LexUnknownChar:              "unrecognized character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed numeric literal",
	SynInfo:                     "syntax information",
	SynUnexpectedToken:          "unexpected token",
	SynExpectSemicolon:          "expected ';'",
	SynExpectIdentifier:         "expected identifier",
	SynDuplicateLocal:           "duplicate local declaration in scope",
	SynUndeclaredIdentifier:     "identifier is not declared",
	SynInvalidBaseClass:         "base class expression does not name a class",
	SynBreakOutsideLoop:         "'break' outside of a loop",
	SynTooManyLocals:            "function declares too many locals",
	SynJumpTooFar:               "jump target is outside the addressable range",
	SynImportNotFound:           "imported module could not be found",
	SynImportMemberNotFound:     "imported name does not exist in module",
	SynSuperOutsideClass:        "'super' used outside of a class method",
	SynSelfOutsideMethod:        "'self' used outside of a method",
	SynInvalidAssignTarget:      "left-hand side of assignment is not assignable",
	SynTooManyConstants:         "function's constant pool overflowed",
	RtUnknown:                   "runtime error",
	RtInvalidOpOnType:           "operation is not valid for this type",
	RtUndefinedSymbol:           "symbol is not defined",
	RtNotCallable:               "value is not callable",
	RtArityMismatch:             "wrong number of arguments for function",
	RtNewOnNonClass:             "'new' target is not a class",
	RtInvalidStore:              "assignment target cannot be stored to",
	RtOutOfMemory:               "out of memory",
	RtModuleNotFound:            "module not found",
	RtModuleExists:              "module already defined",
	RtModuleBusy:                "module has live handles and cannot be unloaded",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
