package compiler

import (
	"strconv"

	"wisp/internal/bytecode"
	"wisp/internal/diag"
	"wisp/internal/source"
	"wisp/internal/token"
	"wisp/internal/wruntime"
)

// parseExpr is precedence climbing's entry point: parse one expression into
// dest, consuming infix operators whose binding power exceeds minPrec
// (§4.6). The returned lvalue lets an enclosing assignment operator, if one
// follows, know whether — and where — to write back.
func (p *Parser) parseExpr(dest int, minPrec Precedence) lvalue {
	lv := p.parsePrefix(dest)
	for {
		k := p.cur.Kind
		prec := precedenceOf(k)
		if prec == PrecNone || prec < minPrec {
			break
		}
		if prec == minPrec && !isRightAssoc(k) {
			break
		}
		lv = p.parseInfix(k, dest, lv, prec)
	}
	return lv
}

func (p *Parser) parsePrefix(dest int) lvalue {
	line := p.cur.Line
	switch p.cur.Kind {
	case token.IntLit, token.FloatLit:
		f := parseNumberLiteral(p.cur.Text)
		p.advance()
		c := p.builder().AddConstant(wruntime.Number(f))
		p.builder().EmitABx(bytecode.OpLoadBasic, dest, c, line)
		return lvalue{}

	case token.StringLit:
		bs := unescapeString(p.cur.Text)
		p.advance()
		id := p.vm.NewString(bs)
		p.vm.PushTempRoot(id)
		c := p.builder().AddConstant(wruntime.FromObject(id))
		p.vm.PopTempRoot()
		p.builder().EmitABx(bytecode.OpLoadBasic, dest, c, line)
		return lvalue{}

	case token.KwTrue:
		p.advance()
		p.builder().EmitABx(bytecode.OpLoadBasic, dest, int(bytecode.LoadBasicTrue), line)
		return lvalue{}

	case token.KwFalse:
		p.advance()
		p.builder().EmitABx(bytecode.OpLoadBasic, dest, int(bytecode.LoadBasicFalse), line)
		return lvalue{}

	case token.KwNil:
		p.advance()
		p.builder().EmitABx(bytecode.OpLoadBasic, dest, int(bytecode.LoadBasicNil), line)
		return lvalue{}

	case token.Minus:
		p.advance()
		p.parseExpr(dest, PrecPrefix)
		p.builder().EmitABx(bytecode.OpMathInv, dest, dest, line)
		return lvalue{}

	case token.Bang:
		p.advance()
		p.parseExpr(dest, PrecPrefix)
		p.builder().EmitABx(bytecode.OpNot, dest, dest, line)
		return lvalue{}

	case token.LParen:
		p.advance()
		lv := p.parseExpr(dest, PrecAssign)
		p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')'")
		return lv

	case token.KwNew:
		return p.parseNewExpr(dest)

	case token.KwSuper:
		return p.parseSuperExpr(dest)

	case token.Ident:
		name := p.cur.Text
		span := p.cur.Span
		p.advance()
		return p.resolveIdentInto(dest, name, span)

	default:
		p.errorf(diag.SynUnexpectedToken, "unexpected token in expression")
		p.advance()
		p.builder().EmitABx(bytecode.OpLoadBasic, dest, int(bytecode.LoadBasicNil), line)
		return lvalue{}
	}
}

func (p *Parser) parseInfix(k token.Kind, dest int, lv lvalue, prec Precedence) lvalue {
	line := p.cur.Line
	switch k {
	case token.Assign:
		p.advance()
		if lv.kind == lvNone {
			p.errorf(diag.SynInvalidAssignTarget, "left-hand side of '=' is not assignable")
			tmp := p.pushTemp()
			p.parseExpr(tmp, prec)
			return lvalue{}
		}
		p.parseExpr(dest, prec)
		lv.store(p, dest, line)
		return lv

	case token.PlusAssign, token.MinusAssign:
		p.advance()
		if lv.kind == lvNone {
			p.errorf(diag.SynInvalidAssignTarget, "left-hand side is not assignable")
			tmp := p.pushTemp()
			p.parseExpr(tmp, prec)
			return lvalue{}
		}
		rhs := p.pushTemp()
		p.parseExpr(rhs, prec)
		op := bytecode.OpMathAdd
		if k == token.MinusAssign {
			op = bytecode.OpMathSub
		}
		p.builder().EmitABC(op, dest, dest, rhs, line)
		lv.store(p, dest, line)
		return lv

	case token.OrOr, token.AndAnd:
		p.advance()
		rhs := p.pushTemp()
		p.parseExpr(rhs, prec)
		op := bytecode.OpCmpOr
		if k == token.AndAnd {
			op = bytecode.OpCmpAnd
		}
		p.builder().EmitABC(op, dest, dest, rhs, line)
		return lvalue{}

	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		p.advance()
		rhs := p.pushTemp()
		p.parseExpr(rhs, prec)
		p.builder().EmitABC(cmpOpFor(k), dest, dest, rhs, line)
		return lvalue{}

	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		p.advance()
		rhs := p.pushTemp()
		p.parseExpr(rhs, prec)
		p.builder().EmitABC(arithOpFor(k), dest, dest, rhs, line)
		return lvalue{}

	case token.Dot:
		return p.parseDotAccess(dest, line)

	case token.LParen:
		return p.parseCallExpr(dest, line)

	case token.LBracket:
		return p.parseIndexExpr(dest, line)

	default:
		return lv
	}
}

// resolveIdentInto reads an identifier's current value into dest and
// returns how it could be assigned back to: a declared local resolves to a
// move, anything else is presumed a module-level variable (§4.6) — there is
// no compile-time existence check, the VM errors at runtime if it is wrong.
func (p *Parser) resolveIdentInto(dest int, name string, _ source.Span) lvalue {
	line := p.lastLine
	if slot, ok := p.builder().LookupLocal(name); ok {
		if dest != slot {
			p.builder().EmitABx(bytecode.OpStoreMove, dest, slot, line)
		}
		return lvalue{kind: lvLocal, slot: slot}
	}
	sym := p.vm.Intern(name)
	p.builder().EmitABx(bytecode.OpLoadBasic, dest, int(bytecode.LoadBasicModule), line)
	p.builder().EmitABC(bytecode.OpLoadSymbol, dest, dest, int(sym), line)
	return lvalue{kind: lvModule, sym: sym}
}

// parseDotAccess handles both a plain field read (`recv.field`) and a
// method call (`recv.method(args)`), the latter prepending the receiver as
// args[0] the way operator dispatch for `call` already does (§4.6, §4.7).
func (p *Parser) parseDotAccess(dest int, line uint32) lvalue {
	p.advance() // '.'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name after '.'")
	if !ok {
		return lvalue{}
	}
	sym := p.vm.Intern(nameTok.Text)
	recv := p.pushTemp()
	p.builder().EmitABx(bytecode.OpStoreMove, recv, dest, line)

	if p.at(token.LParen) {
		p.advance()
		argsBase := p.pushTemp()
		p.builder().EmitABx(bytecode.OpStoreMove, argsBase, recv, line)
		argc := 1
		if !p.at(token.RParen) {
			a := p.pushTemp()
			p.parseExpr(a, PrecAssign)
			argc++
			for p.at(token.Comma) {
				p.advance()
				a2 := p.pushTemp()
				p.parseExpr(a2, PrecAssign)
				argc++
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' to close argument list")
		method := p.pushTemp()
		p.builder().EmitABC(bytecode.OpLoadSymbol, method, recv, int(sym), line)
		p.builder().EmitABC(bytecode.OpCallFn, argsBase, method, argc, line)
		if dest != argsBase {
			p.builder().EmitABx(bytecode.OpStoreMove, dest, argsBase, line)
		}
		return lvalue{}
	}

	p.builder().EmitABC(bytecode.OpLoadSymbol, dest, recv, int(sym), line)
	return lvalue{kind: lvField, slot: recv, sym: sym}
}

// parseCallExpr handles a bare call `expr(args)` where expr already
// evaluated to a callable sitting in dest — no receiver is prepended.
func (p *Parser) parseCallExpr(dest int, line uint32) lvalue {
	p.advance() // '('
	callee := p.pushTemp()
	p.builder().EmitABx(bytecode.OpStoreMove, callee, dest, line)
	argsBase := p.pushTemp()
	argc := 0
	if !p.at(token.RParen) {
		p.parseExpr(argsBase, PrecAssign)
		argc = 1
		for p.at(token.Comma) {
			p.advance()
			a := p.pushTemp()
			p.parseExpr(a, PrecAssign)
			argc++
		}
	}
	p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' to close argument list")
	p.builder().EmitABC(bytecode.OpCallFn, argsBase, callee, argc, line)
	if dest != argsBase {
		p.builder().EmitABx(bytecode.OpStoreMove, dest, argsBase, line)
	}
	return lvalue{}
}

// parseIndexExpr compiles `recv[idx]` as a call to the reserved `[]` method
// (§4.6's operator-overload form), keeping the receiver and index registers
// alive in the returned lvIndex so a following `recv[idx] = v` can dispatch
// `[]=` without re-evaluating either subexpression.
func (p *Parser) parseIndexExpr(dest int, line uint32) lvalue {
	p.advance() // '['
	recv := p.pushTemp()
	p.builder().EmitABx(bytecode.OpStoreMove, recv, dest, line)
	idx := p.pushTemp()
	p.parseExpr(idx, PrecAssign)
	p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']'")

	symIdx := p.vm.Intern("[]")
	argsBase := p.pushTemp()
	p.builder().EmitABx(bytecode.OpStoreMove, argsBase, recv, line)
	idxCopy := p.pushTemp()
	p.builder().EmitABx(bytecode.OpStoreMove, idxCopy, idx, line)
	method := p.pushTemp()
	p.builder().EmitABC(bytecode.OpLoadSymbol, method, recv, int(symIdx), line)
	p.builder().EmitABC(bytecode.OpCallFn, argsBase, method, 2, line)
	if dest != argsBase {
		p.builder().EmitABx(bytecode.OpStoreMove, dest, argsBase, line)
	}
	return lvalue{kind: lvIndex, slot: recv, idx: idx}
}

// parseNewExpr compiles `new ClassName(args)`: allocate via NEW_CLZ, then —
// if a constructor arg list follows at all — invoke the supplemented
// ctor-auto-invocation opcode (DESIGN.md) with those args.
func (p *Parser) parseNewExpr(dest int) lvalue {
	line := p.cur.Line
	p.advance() // 'new'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name after 'new'")
	if !ok {
		return lvalue{}
	}
	classTemp := p.pushTemp()
	p.resolveIdentInto(classTemp, nameTok.Text, nameTok.Span)
	instTemp := p.pushTemp()
	p.builder().EmitABx(bytecode.OpNewClz, instTemp, classTemp, line)

	if p.at(token.LParen) {
		p.advance()
		argsBase := -1
		argc := 0
		if !p.at(token.RParen) {
			argsBase = p.pushTemp()
			p.parseExpr(argsBase, PrecAssign)
			argc = 1
			for p.at(token.Comma) {
				p.advance()
				a := p.pushTemp()
				p.parseExpr(a, PrecAssign)
				argc++
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' to close constructor arguments")
		if argsBase == -1 {
			argsBase = p.pushTemp()
		}
		p.builder().EmitABC(bytecode.OpCallCtor, instTemp, argsBase, argc, line)
	}

	if dest != instTemp {
		p.builder().EmitABx(bytecode.OpStoreMove, dest, instTemp, line)
	}
	return lvalue{}
}

// parseSuperExpr compiles the one valid use of `super`: calling a base
// class's method bound to the enclosing method's own `self` (§4.6).
func (p *Parser) parseSuperExpr(dest int) lvalue {
	line := p.cur.Line
	p.advance() // 'super'
	cc := p.currentClass()
	if cc == nil {
		p.errorf(diag.SynSuperOutsideClass, "'super' used outside of a class method")
	}
	p.expect(token.Dot, diag.SynUnexpectedToken, "expected '.' after 'super'")
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected method name after 'super.'")
	if !ok || cc == nil {
		return lvalue{}
	}
	sym := p.vm.Intern(nameTok.Text)
	selfSlot, hasSelf := p.builder().LookupLocal("self")
	if !hasSelf {
		p.bag.Add(diag.NewError(diag.SynSelfOutsideMethod, nameTok.Span, "'super' requires an enclosing instance method"))
		return lvalue{}
	}
	baseID := p.vm.ClassBase(cc.classID)
	if baseID == 0 {
		p.bag.Add(diag.NewError(diag.SynInvalidBaseClass, nameTok.Span, "class '"+p.vm.ClassName(cc.classID)+"' has no base class"))
		return lvalue{}
	}

	baseTemp := p.pushTemp()
	baseConst := p.builder().AddConstant(wruntime.FromObject(baseID))
	p.builder().EmitABx(bytecode.OpLoadBasic, baseTemp, baseConst, line)
	method := p.pushTemp()
	p.builder().EmitABC(bytecode.OpLoadSymbol, method, baseTemp, int(sym), line)

	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'super.method'")
	argsBase := p.pushTemp()
	p.builder().EmitABx(bytecode.OpStoreMove, argsBase, selfSlot, line)
	argc := 1
	if !p.at(token.RParen) {
		a := p.pushTemp()
		p.parseExpr(a, PrecAssign)
		argc++
		for p.at(token.Comma) {
			p.advance()
			a2 := p.pushTemp()
			p.parseExpr(a2, PrecAssign)
			argc++
		}
	}
	p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' to close argument list")
	p.builder().EmitABC(bytecode.OpCallFn, argsBase, method, argc, line)
	if dest != argsBase {
		p.builder().EmitABx(bytecode.OpStoreMove, dest, argsBase, line)
	}
	return lvalue{}
}

func arithOpFor(k token.Kind) bytecode.Op {
	switch k {
	case token.Plus:
		return bytecode.OpMathAdd
	case token.Minus:
		return bytecode.OpMathSub
	case token.Star:
		return bytecode.OpMathMul
	case token.Slash:
		return bytecode.OpMathDiv
	case token.Percent:
		return bytecode.OpMathMod
	default:
		return bytecode.OpMathAdd
	}
}

func cmpOpFor(k token.Kind) bytecode.Op {
	switch k {
	case token.EqEq:
		return bytecode.OpCmpEE
	case token.BangEq:
		return bytecode.OpCmpNE
	case token.Lt:
		return bytecode.OpCmpLT
	case token.LtEq:
		return bytecode.OpCmpLE
	case token.Gt:
		return bytecode.OpCmpGT
	case token.GtEq:
		return bytecode.OpCmpGE
	default:
		return bytecode.OpCmpEE
	}
}

// parseNumberLiteral strips the optional trailing f/F suffix the lexer
// allows on numeric literals and parses the rest as a float64.
func parseNumberLiteral(text string) float64 {
	if n := len(text); n > 0 {
		if last := text[n-1]; last == 'f' || last == 'F' {
			text = text[:n-1]
		}
	}
	f, _ := strconv.ParseFloat(text, 64)
	return f
}

// unescapeString strips a string literal's surrounding quotes and resolves
// its backslash escapes (§4.5 defers this from the lexer to first use).
func unescapeString(raw string) []byte {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case '0':
				out = append(out, 0)
			default:
				out = append(out, raw[i])
			}
			continue
		}
		out = append(out, c)
	}
	return out
}
