package compiler

import (
	"fmt"

	"wisp/internal/diag"
	"wisp/internal/lexer"
	"wisp/internal/source"
	"wisp/internal/token"
	"wisp/internal/wruntime"
)

type loopCtx struct {
	breaks []int
}

type classCtx struct {
	classID wruntime.ObjectID
}

// Parser drives a single-pass compile of one source file into one module's
// top-level function plus whatever nested functions and classes it declares
// along the way (§4.6). There is no separate AST: every parse rule, on
// recognizing a construct, emits the construct's bytecode immediately
// against the FunctionBuilder currently on top of the builder stack.
type Parser struct {
	vm      *wruntime.VM
	lx      *lexer.Lexer
	bag     *diag.Bag
	file    *source.File
	fileSet *source.FileSet

	module wruntime.ObjectID

	cur      token.Token
	lastLine uint32

	builders   []*FunctionBuilder
	tempCounts []int

	classes []*classCtx
	loops   []*loopCtx
}

// NewParser begins tokenizing file for compilation into moduleID. fileSet
// may be nil for one-off compiles (tests) that never need to
// resolve an `import` against the host's module-load callback; CompileModule
// passes a real set whenever a compiled module might itself `import` a name
// the registry doesn't already hold, so a dynamically loaded module's spans
// land in the same FileSet as the module that pulled it in (§6, §4.6).
func NewParser(vm *wruntime.VM, file *source.File, bag *diag.Bag, moduleID wruntime.ObjectID, fileSet *source.FileSet) *Parser {
	lx := lexer.New(file, bag)
	p := &Parser{vm: vm, lx: lx, bag: bag, file: file, fileSet: fileSet, module: moduleID}
	p.cur = lx.Next()
	p.lastLine = p.cur.Line
	return p
}

// CompileModule parses file's entire top-level statement sequence into a
// fresh anonymous function and attaches it as moduleID's Init (§4.3, §4.6).
// fileSet is threaded through so an `import` of a name the module registry
// doesn't already hold can ask the host's module-load callback for source
// text and compile it into fileSet alongside file itself; pass nil when the
// caller never wants that fallback.
func CompileModule(vm *wruntime.VM, file *source.File, bag *diag.Bag, moduleID wruntime.ObjectID, fileSet *source.FileSet) wruntime.ObjectID {
	p := NewParser(vm, file, bag, moduleID, fileSet)
	fnID := vm.NewFunction(moduleID, "", 0)
	p.pushBuilder(NewFunctionBuilder(moduleID, 0))
	for !p.at(token.EOF) {
		before := p.cur
		p.parseTopStmt()
		p.progressGuard(before)
	}
	fb := p.popBuilder()
	fb.Finish(vm.GetFunction(fnID), p.lastLine)
	vm.SetModuleInit(moduleID, fnID)
	return fnID
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur
	p.lastLine = t.Line
	p.cur = p.lx.Next()
	return t
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorf(code, "%s (got %s)", msg, p.cur.Kind)
	return p.cur, false
}

func (p *Parser) errorf(code diag.Code, format string, args ...any) {
	p.bag.Add(diag.NewError(code, p.cur.Span, fmt.Sprintf(format, args...)))
}

func (p *Parser) expectSemi() {
	if p.at(token.Semicolon) {
		p.advance()
		return
	}
	insertAt := source.Span{File: p.file.ID, Start: p.cur.Span.Start, End: p.cur.Span.Start}
	d := diag.NewError(diag.SynExpectSemicolon, p.cur.Span, "expected ';'").
		WithFix("insert ';'", diag.FixEdit{Span: insertAt, NewText: ";"})
	p.bag.Add(d)
	p.resyncToSemi()
}

// resyncToSemi implements §7's error-recovery strategy: on a malformed
// statement, skip to the next statement boundary and keep compiling rather
// than aborting on the first diagnostic.
func (p *Parser) resyncToSemi() {
	for !p.at(token.EOF) && !p.at(token.Semicolon) && !p.at(token.RBrace) {
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// progressGuard forces the cursor forward when a statement's parse made no
// progress at all, so a malformed top-level or block construct can never
// wedge the compile loop.
func (p *Parser) progressGuard(before token.Token) {
	if p.cur.Kind == before.Kind && p.cur.Span == before.Span {
		p.advance()
	}
}

func (p *Parser) builder() *FunctionBuilder { return p.builders[len(p.builders)-1] }

func (p *Parser) pushBuilder(b *FunctionBuilder) {
	p.builders = append(p.builders, b)
	p.tempCounts = append(p.tempCounts, 0)
}

func (p *Parser) popBuilder() *FunctionBuilder {
	b := p.builders[len(p.builders)-1]
	p.builders = p.builders[:len(p.builders)-1]
	p.tempCounts = p.tempCounts[:len(p.tempCounts)-1]
	return b
}

// pushTemp/releaseTemps defer register reclamation to statement boundaries
// rather than popping immediately after each subexpression, so a postfix
// chain like `obj.field = v` can keep the receiver register alive across
// the assignment check that follows it without threading extra state
// through every parse function.
func (p *Parser) tempMark() int { return p.tempCounts[len(p.tempCounts)-1] }

func (p *Parser) pushTemp() int {
	i := len(p.tempCounts) - 1
	p.tempCounts[i]++
	return p.builder().PushTemp()
}

func (p *Parser) releaseTemps(mark int) {
	i := len(p.tempCounts) - 1
	n := p.tempCounts[i] - mark
	if n > 0 {
		p.builder().PopTemps(n)
	}
	p.tempCounts[i] = mark
}

func (p *Parser) pushLoop() *loopCtx {
	l := &loopCtx{}
	p.loops = append(p.loops, l)
	return l
}

func (p *Parser) popLoop() *loopCtx {
	l := p.loops[len(p.loops)-1]
	p.loops = p.loops[:len(p.loops)-1]
	return l
}

func (p *Parser) currentLoop() *loopCtx {
	if len(p.loops) == 0 {
		return nil
	}
	return p.loops[len(p.loops)-1]
}

func (p *Parser) currentClass() *classCtx {
	if len(p.classes) == 0 {
		return nil
	}
	return p.classes[len(p.classes)-1]
}
