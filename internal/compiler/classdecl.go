package compiler

import (
	"wisp/internal/diag"
	"wisp/internal/token"
	"wisp/internal/wruntime"
)

// parseClassStmt compiles `class Name [: Base] { member* }` (§3, §4.6). The
// class value is declared in the module before its body is parsed so a
// method can refer to its own class by name (e.g. `new Name()` for a
// factory method), and so a later class's `: Name` base clause can resolve
// it.
func (p *Parser) parseClassStmt() {
	p.advance() // 'class'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name")
	if !ok {
		p.resyncToSemi()
		return
	}
	classID := p.vm.NewClass(nameTok.Text, p.module)
	sym := p.vm.Intern(nameTok.Text)
	p.vm.ModuleDeclare(p.module, sym, nameTok.Text, wruntime.FromObject(classID))

	if p.at(token.Colon) {
		p.advance()
		baseTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected base class name")
		if ok {
			baseSym := p.vm.Intern(baseTok.Text)
			baseVal, found := p.vm.ModuleVarGet(p.module, baseSym)
			if !found || !p.vm.IsClassValue(baseVal) {
				p.bag.Add(diag.NewError(diag.SynInvalidBaseClass, baseTok.Span, "'"+baseTok.Text+"' does not name a declared class"))
			} else {
				p.vm.ClassSetBase(classID, baseVal.AsObject())
			}
		}
	}

	p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to begin class body")
	p.classes = append(p.classes, &classCtx{classID: classID})
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.cur
		p.parseClassMember(classID)
		p.progressGuard(before)
	}
	p.classes = p.classes[:len(p.classes)-1]
	p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to end class body")
}

func (p *Parser) parseClassMember(classID wruntime.ObjectID) {
	isStatic := false
	if p.at(token.KwStatic) {
		isStatic = true
		p.advance()
	}
	switch p.cur.Kind {
	case token.KwVar:
		p.parseClassField(classID, isStatic)
	case token.KwFunc:
		p.parseClassMethod(classID, isStatic)
	default:
		p.errorf(diag.SynUnexpectedToken, "expected 'var' or 'func' in class body")
		p.advance()
	}
}

// parseClassField compiles a field declaration. Its initializer is a
// constant expression (§3: NEW_CLZ simply copies the class's field-init
// list into the new instance, it does not run arbitrary code), so it is
// evaluated at compile time rather than emitted as bytecode.
func (p *Parser) parseClassField(classID wruntime.ObjectID, isStatic bool) {
	p.advance() // 'var'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
	if !ok {
		p.resyncToSemi()
		return
	}
	sym := p.vm.Intern(nameTok.Text)
	init := wruntime.Nil
	if p.at(token.Assign) {
		p.advance()
		init = p.parseConstExpr()
	}
	if isStatic {
		p.vm.ClassBindStatic(classID, sym, nameTok.Text, init)
	} else {
		p.vm.ClassAddField(classID, sym, init)
	}
	p.expectSemi()
}

func (p *Parser) parseClassMethod(classID wruntime.ObjectID, isStatic bool) {
	p.advance() // 'func'
	var name string
	if p.at(token.LBracket) {
		// `[]` and `[]=` name the index read/write operator methods.
		p.advance()
		if _, ok := p.expect(token.RBracket, diag.SynExpectIdentifier, "expected ']' in method name"); !ok {
			return
		}
		name = "[]"
		if p.at(token.Assign) {
			p.advance()
			name = "[]="
		}
	} else {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected method name")
		if !ok {
			return
		}
		name = nameTok.Text
	}
	sym := p.vm.Intern(name)
	fnID := p.compileFunctionBody(name, !isStatic)
	if isStatic {
		p.vm.ClassBindStatic(classID, sym, name, wruntime.FromObject(fnID))
	} else {
		p.vm.ClassBindMethod(classID, sym, name, wruntime.FromObject(fnID))
	}
}

// parseConstExpr parses the limited literal grammar legal as a field
// initializer: an optionally negated number, a string, true/false/nil.
func (p *Parser) parseConstExpr() wruntime.Value {
	neg := false
	if p.at(token.Minus) {
		neg = true
		p.advance()
	}
	switch p.cur.Kind {
	case token.IntLit, token.FloatLit:
		f := parseNumberLiteral(p.cur.Text)
		p.advance()
		if neg {
			f = -f
		}
		return wruntime.Number(f)
	case token.StringLit:
		raw := p.cur.Text
		p.advance()
		if neg {
			p.errorf(diag.SynUnexpectedToken, "'-' cannot prefix a string constant")
		}
		id := p.vm.NewString(unescapeString(raw))
		p.vm.PushTempRoot(id)
		v := wruntime.FromObject(id)
		p.vm.PopTempRoot()
		return v
	case token.KwTrue:
		p.advance()
		return wruntime.True
	case token.KwFalse:
		p.advance()
		return wruntime.False
	case token.KwNil:
		p.advance()
		return wruntime.Nil
	default:
		p.errorf(diag.SynUnexpectedToken, "expected a constant expression")
		p.advance()
		return wruntime.Nil
	}
}
