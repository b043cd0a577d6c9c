package compiler

import (
	"wisp/internal/bytecode"
	"wisp/internal/diag"
	"wisp/internal/source"
	"wisp/internal/token"
	"wisp/internal/wruntime"
)

// parseTopStmt dispatches the constructs only legal at a module's top level
// — import, class, and the module-scope forms of var/func (§4.6: their
// value is written directly into the module rather than a local) — falling
// through to parseStmt for everything else.
func (p *Parser) parseTopStmt() {
	switch p.cur.Kind {
	case token.KwImport:
		p.parseImportStmt()
	case token.KwClass:
		p.parseClassStmt()
	case token.KwVar:
		p.parseVarStmt(true)
	case token.KwFunc:
		p.parseFuncStmt(true)
	default:
		p.parseStmt()
	}
}

// parseStmt dispatches the statements legal anywhere a statement can
// appear: inside a function body, a block, or a loop/if body.
func (p *Parser) parseStmt() {
	switch p.cur.Kind {
	case token.KwVar:
		p.parseVarStmt(false)
	case token.KwFunc:
		p.parseFuncStmt(false)
	case token.KwIf:
		p.parseIfStmt()
	case token.KwWhile:
		p.parseWhileStmt()
	case token.KwFor:
		p.parseForStmt()
	case token.KwBreak:
		p.parseBreakStmt()
	case token.KwReturn:
		p.parseReturnStmt()
	case token.LBrace:
		p.parseBlockStmt()
	default:
		p.parseExprStmt()
	}
}

// parseVarStmt compiles `var name [= expr];`. At module scope the slot is a
// module variable declared directly through the compiler API; nested, it
// is a FunctionBuilder local (§4.6).
func (p *Parser) parseVarStmt(topLevel bool) {
	line := p.cur.Line
	p.advance() // 'var'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after 'var'")
	if !ok {
		p.resyncToSemi()
		return
	}
	hasInit := false
	if p.at(token.Assign) {
		p.advance()
		hasInit = true
	}

	if topLevel {
		sym := p.vm.Intern(nameTok.Text)
		p.vm.ModuleDeclare(p.module, sym, nameTok.Text, wruntime.Nil)
		if hasInit {
			mark := p.tempMark()
			modTemp := p.pushTemp()
			valTemp := p.pushTemp()
			p.builder().EmitABx(bytecode.OpLoadBasic, modTemp, int(bytecode.LoadBasicModule), line)
			p.parseExpr(valTemp, PrecAssign)
			p.builder().EmitABC(bytecode.OpStoreSymbol, modTemp, int(sym), valTemp, line)
			p.releaseTemps(mark)
		}
	} else {
		slot, declared := p.builder().DeclareLocal(p.bag, nameTok.Text, nameTok.Span)
		if hasInit {
			mark := p.tempMark()
			if declared {
				p.parseExpr(slot, PrecAssign)
			} else {
				tmp := p.pushTemp()
				p.parseExpr(tmp, PrecAssign)
			}
			p.releaseTemps(mark)
		}
	}
	p.expectSemi()
}

// parseFuncStmt compiles `func name(params) { body }`. At module scope the
// compiled function's value is written directly into the module under its
// name; nested inside another function it is added to the enclosing
// function's constant pool and loaded into a declared local (§4.6).
func (p *Parser) parseFuncStmt(topLevel bool) {
	line := p.cur.Line
	p.advance() // 'func'
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		p.resyncToSemi()
		return
	}
	fnID := p.compileFunctionBody(nameTok.Text, false)

	if topLevel {
		sym := p.vm.Intern(nameTok.Text)
		p.vm.ModuleDeclare(p.module, sym, nameTok.Text, wruntime.FromObject(fnID))
		return
	}
	constSlot := p.builder().AddConstant(wruntime.FromObject(fnID))
	slot, declared := p.builder().DeclareLocal(p.bag, nameTok.Text, nameTok.Span)
	if declared {
		p.builder().EmitABx(bytecode.OpLoadBasic, slot, constSlot, line)
	}
}

type param struct {
	name string
	span source.Span
}

func (p *Parser) parseParamList() []param {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to begin parameter list")
	var params []param
	if !p.at(token.RParen) {
		for {
			t, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
			if ok {
				params = append(params, param{name: t.Text, span: t.Span})
			}
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' to close parameter list")
	return params
}

// compileFunctionBody parses `(params) { stmt* }`, pushing a fresh
// FunctionBuilder and, for a method, declaring the implicit `self` param at
// slot 0 before the declared parameters (§4.6).
func (p *Parser) compileFunctionBody(name string, implicitSelf bool) wruntime.ObjectID {
	params := p.parseParamList()
	arity := len(params)
	if implicitSelf {
		arity++
	}
	fnID := p.vm.NewFunction(p.module, name, arity)
	// fnID is not reachable from any module var, frame, or stack slot until
	// the caller records it (ModuleDeclare, a class method table, or a
	// constant pool slot); pin it on the temp-root stack for the whole body
	// compile, since parsing the body itself allocates (nested literals,
	// nested functions) and can trigger a collection.
	p.vm.PushTempRoot(fnID)
	fb := NewFunctionBuilder(p.module, arity)
	p.pushBuilder(fb)
	// Arguments occupy slots [0, arity): self first for a method, then the
	// declared parameters. DeclareLocal allocates above arity, so they are
	// bound into the function's outermost scope directly.
	argSlot := 0
	bindArg := func(name string, span source.Span) {
		for _, l := range fb.scopes[0] {
			if l.name == name {
				p.bag.Add(diag.NewError(diag.SynDuplicateLocal, span, "duplicate local declaration: "+name))
			}
		}
		fb.scopes[0] = append(fb.scopes[0], local{name: name, slot: argSlot})
		argSlot++
	}
	if implicitSelf {
		bindArg("self", p.cur.Span)
	}
	for _, prm := range params {
		bindArg(prm.name, prm.span)
	}
	p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to begin function body")
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.cur
		p.parseStmt()
		p.progressGuard(before)
	}
	p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to end function body")
	fb.Finish(p.vm.GetFunction(fnID), p.lastLine)
	p.popBuilder()
	p.vm.PopTempRoot()
	return fnID
}

func (p *Parser) parseIfStmt() {
	line := p.cur.Line
	p.advance() // 'if'
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'")
	mark := p.tempMark()
	cond := p.pushTemp()
	p.parseExpr(cond, PrecAssign)
	p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after condition")
	p.releaseTemps(mark)

	jifIdx := p.builder().EmitAsBx(bytecode.OpJumpIfNot, cond, 0, line)
	p.parseStmt()
	if p.at(token.KwElse) {
		p.advance()
		jEndIdx := p.builder().EmitAsBx(bytecode.OpJump, 0, 0, line)
		p.builder().PatchConditionalJump(jifIdx, bytecode.OpJumpIfNot, cond, p.builder().Here())
		p.parseStmt()
		p.builder().PatchJump(jEndIdx, p.builder().Here())
	} else {
		p.builder().PatchConditionalJump(jifIdx, bytecode.OpJumpIfNot, cond, p.builder().Here())
	}
}

func (p *Parser) parseWhileStmt() {
	line := p.cur.Line
	p.advance() // 'while'
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'")
	loopStart := p.builder().Here()
	mark := p.tempMark()
	cond := p.pushTemp()
	p.parseExpr(cond, PrecAssign)
	p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after condition")
	jifIdx := p.builder().EmitAsBx(bytecode.OpJumpIfNot, cond, 0, line)
	p.releaseTemps(mark)

	p.pushLoop()
	p.parseStmt()
	backIdx := p.builder().EmitAsBx(bytecode.OpJump, 0, 0, line)
	p.builder().PatchJump(backIdx, loopStart)
	end := p.builder().Here()
	p.builder().PatchConditionalJump(jifIdx, bytecode.OpJumpIfNot, cond, end)

	loop := p.popLoop()
	for _, b := range loop.breaks {
		p.builder().PatchJump(b, end)
	}
}

// parseForStmt desugars the C-style three-clause loop (§4.6) so the
// increment runs after the body and before the condition is re-tested:
//
//	init
//	condStart: cond; JUMP_IF_NOT end; JUMP bodyStart
//	incrStart: incr; JUMP condStart
//	bodyStart: body; JUMP incrStart
//	end:
func (p *Parser) parseForStmt() {
	line := p.cur.Line
	p.advance() // 'for'
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'")

	if p.at(token.Semicolon) {
		p.advance()
	} else if p.at(token.KwVar) {
		p.parseVarStmt(false)
	} else {
		p.parseExprStmt()
	}

	condStart := p.builder().Here()
	hasCond := !p.at(token.Semicolon)
	var condReg, jifIdx int
	if hasCond {
		mark := p.tempMark()
		condReg = p.pushTemp()
		p.parseExpr(condReg, PrecAssign)
		jifIdx = p.builder().EmitAsBx(bytecode.OpJumpIfNot, condReg, 0, line)
		p.releaseTemps(mark)
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for-loop condition")

	jumpToBodyIdx := p.builder().EmitAsBx(bytecode.OpJump, 0, 0, line)
	incrStart := p.builder().Here()
	if !p.at(token.RParen) {
		mark := p.tempMark()
		tmp := p.pushTemp()
		p.parseExpr(tmp, PrecAssign)
		p.releaseTemps(mark)
	}
	backToCondIdx := p.builder().EmitAsBx(bytecode.OpJump, 0, 0, line)
	p.builder().PatchJump(backToCondIdx, condStart)
	p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' after for-loop clauses")

	bodyStart := p.builder().Here()
	p.builder().PatchJump(jumpToBodyIdx, bodyStart)
	p.pushLoop()
	p.parseStmt()
	backToIncrIdx := p.builder().EmitAsBx(bytecode.OpJump, 0, 0, line)
	p.builder().PatchJump(backToIncrIdx, incrStart)

	end := p.builder().Here()
	if hasCond {
		p.builder().PatchConditionalJump(jifIdx, bytecode.OpJumpIfNot, condReg, end)
	}
	loop := p.popLoop()
	for _, b := range loop.breaks {
		p.builder().PatchJump(b, end)
	}
}

func (p *Parser) parseBreakStmt() {
	line := p.cur.Line
	p.advance() // 'break'
	if loop := p.currentLoop(); loop == nil {
		p.errorf(diag.SynBreakOutsideLoop, "'break' outside of a loop")
	} else {
		idx := p.builder().EmitBreakPlaceholder(line)
		loop.breaks = append(loop.breaks, idx)
	}
	p.expectSemi()
}

func (p *Parser) parseReturnStmt() {
	line := p.cur.Line
	p.advance() // 'return'
	mark := p.tempMark()
	reg := p.pushTemp()
	if p.at(token.Semicolon) {
		p.builder().EmitABx(bytecode.OpLoadBasic, reg, int(bytecode.LoadBasicNil), line)
	} else {
		p.parseExpr(reg, PrecAssign)
	}
	p.builder().EmitABx(bytecode.OpReturn, 0, reg, line)
	p.releaseTemps(mark)
	p.expectSemi()
}

func (p *Parser) parseBlockStmt() {
	p.advance() // '{'
	p.builder().PushScope()
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.cur
		p.parseStmt()
		p.progressGuard(before)
	}
	p.builder().PopScope()
	p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}'")
}

func (p *Parser) parseExprStmt() {
	mark := p.tempMark()
	tmp := p.pushTemp()
	p.parseExpr(tmp, PrecAssign)
	p.releaseTemps(mark)
	p.expectSemi()
}

// parseImportStmt compiles `import "name" [for id [as newname][, ...]];`.
// With no `for` list, every non-nil variable the imported module declares
// is copied into the current module under its original name (§4.6).
func (p *Parser) parseImportStmt() {
	p.advance() // 'import'
	nameTok, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected a module name string after 'import'")
	if !ok {
		p.resyncToSemi()
		return
	}
	modName := string(unescapeString(nameTok.Text))
	modID, found := p.vm.ModuleLoad(modName)
	if !found {
		modID, found = p.loadModuleViaHost(modName, nameTok.Span)
	}
	if !found {
		p.bag.Add(diag.NewError(diag.SynImportNotFound, nameTok.Span, "imported module not found: "+modName))
		p.resyncToSemi()
		return
	}
	if _, err := p.vm.ExecModule(modID); err != nil {
		p.bag.Add(diag.NewError(diag.SynImportNotFound, nameTok.Span, "error executing imported module "+modName+": "+err.Error()))
	}

	if p.at(token.KwFor) {
		p.advance()
		for {
			origTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier in import list")
			if !ok {
				break
			}
			finalName := origTok.Text
			if p.at(token.KwAs) || p.at(token.Assign) {
				p.advance()
				if newTok, ok2 := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after 'as'/'='"); ok2 {
					finalName = newTok.Text
				}
			}
			origSym := p.vm.Intern(origTok.Text)
			val, exists := p.vm.ModuleVarGet(modID, origSym)
			if !exists {
				p.bag.Add(diag.NewError(diag.SynImportMemberNotFound, origTok.Span, "imported module has no member '"+origTok.Text+"'"))
			} else {
				newSym := p.vm.Intern(finalName)
				p.vm.ModuleDeclare(p.module, newSym, finalName, val)
			}
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	} else {
		p.vm.ModuleEachVar(modID, func(name string, v wruntime.Value) {
			if v.IsNil() {
				return
			}
			sym := p.vm.Intern(name)
			p.vm.ModuleDeclare(p.module, sym, name, v)
		})
	}
	p.expectSemi()
}

// loadModuleViaHost asks the embedding host's module-load callback (§6) for
// name's source text when the registry has never heard of it, compiles the
// result into a fresh module recursively with CompileModule, and registers
// it under name so a later `import` of the same name hits the registry
// directly. The new source is added to the same FileSet as the importing
// file, so diagnostics raised inside the dynamically loaded module carry
// real file/line/column information instead of collapsing onto the
// importer's span. Returns (0, false) when there is no fileSet (one-off
// compiles that opted out of the fallback) or no host callback, or when the
// host doesn't recognize name either.
func (p *Parser) loadModuleViaHost(name string, at source.Span) (wruntime.ObjectID, bool) {
	if p.fileSet == nil {
		return 0, false
	}
	src, ok := p.vm.LoadModuleSource(name)
	if !ok {
		return 0, false
	}
	modID, err := p.vm.ModuleMake(name)
	if err != nil {
		p.bag.Add(diag.NewError(diag.SynImportNotFound, at, "module "+name+" loaded by host but could not be registered: "+err.Error()))
		return 0, false
	}
	fileID := p.fileSet.AddVirtual(name, []byte(src))
	file := p.fileSet.Get(fileID)
	CompileModule(p.vm, file, p.bag, modID, p.fileSet)
	return modID, true
}
