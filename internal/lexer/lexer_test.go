package lexer_test

import (
	"testing"

	"wisp/internal/diag"
	"wisp/internal/lexer"
	"wisp/internal/source"
	"wisp/internal/token"
)

func newTestLexer(src string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wsp", []byte(src))
	bag := diag.NewBag(100)
	return lexer.New(fs.Get(fileID), bag), bag
}

func collectKinds(lx *lexer.Lexer) []token.Kind {
	var kinds []token.Kind
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return kinds
		}
		kinds = append(kinds, tok.Kind)
	}
}

func TestKeywordsAreRecognized(t *testing.T) {
	// The 17 reserved words of §4.5; every other identifier-shaped input
	// is a plain Ident (TestCapitalizedKeywordsAreIdents below).
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"true", token.KwTrue},
		{"false", token.KwFalse},
		{"return", token.KwReturn},
		{"if", token.KwIf},
		{"else", token.KwElse},
		{"for", token.KwFor},
		{"while", token.KwWhile},
		{"func", token.KwFunc},
		{"var", token.KwVar},
		{"nil", token.KwNil},
		{"class", token.KwClass},
		{"import", token.KwImport},
		{"break", token.KwBreak},
		{"new", token.KwNew},
		{"static", token.KwStatic},
		{"as", token.KwAs},
		{"super", token.KwSuper},
	}
	if len(tests) != len(token.Keywords) {
		t.Fatalf("test table covers %d keywords, token.Keywords has %d", len(tests), len(token.Keywords))
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lx, bag := newTestLexer(tt.src)
			tok := lx.Next()
			if tok.Kind != tt.kind {
				t.Errorf("Next() kind = %v, want %v", tok.Kind, tt.kind)
			}
			if bag.HasErrors() {
				t.Errorf("unexpected errors: %v", bag.Items())
			}
		})
	}
}

func TestCapitalizedKeywordsAreIdents(t *testing.T) {
	lx, _ := newTestLexer("Var Func True")
	kinds := collectKinds(lx)
	for _, k := range kinds {
		if k != token.Ident {
			t.Errorf("kind = %v, want Ident (keywords are case-sensitive)", k)
		}
	}
}

func TestTwoByteOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"==", token.EqEq},
		{"!=", token.BangEq},
		{"<=", token.LtEq},
		{">=", token.GtEq},
		{"+=", token.PlusAssign},
		{"-=", token.MinusAssign},
		{"&&", token.AndAnd},
		{"||", token.OrOr},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lx, _ := newTestLexer(tt.src)
			tok := lx.Next()
			if tok.Kind != tt.kind {
				t.Errorf("Next() kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Text != tt.src {
				t.Errorf("Next() text = %q, want %q", tok.Text, tt.src)
			}
		})
	}
}

func TestTwoByteOperatorsAreGreedy(t *testing.T) {
	// A two-char operator must not be split into two single-char ones, but
	// a lone '=' next to an unrelated '=' stays two separate tokens.
	lx, _ := newTestLexer("=== a")
	kinds := collectKinds(lx)
	want := []token.Kind{token.EqEq, token.Assign, token.Ident}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kind[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestNumberSuffixF(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"1", token.IntLit},
		{"1.5", token.FloatLit},
		{"1f", token.FloatLit},
		{"1F", token.FloatLit},
		{"1.5f", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lx, _ := newTestLexer(tt.src)
			tok := lx.Next()
			if tok.Kind != tt.kind {
				t.Errorf("Next() kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Text != tt.src {
				t.Errorf("Next() text = %q, want %q", tok.Text, tt.src)
			}
		})
	}
}

func TestUnterminatedStringReportsAndReachesEOF(t *testing.T) {
	// Nothing closes the string, so scanning consumes straight to
	// end-of-input; lexing resumes cleanly there rather than looping.
	lx, bag := newTestLexer(`"oops and never closes`)
	str := lx.Next()
	if str.Kind != token.StringLit {
		t.Fatalf("Next() kind = %v, want StringLit (unterminated string is still reported as one)", str.Kind)
	}
	if !bag.HasErrors() {
		t.Fatal("expected an error for an unterminated string literal")
	}
	got := bag.Items()[0].Code
	if got != diag.LexUnterminatedString {
		t.Errorf("diagnostic code = %v, want LexUnterminatedString", got)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Errorf("Next() after unterminated string = %v, want EOF", next.Kind)
	}
}

func TestEscapedQuoteDoesNotEndStringEarly(t *testing.T) {
	lx, bag := newTestLexer(`"a\"b" rest`)
	str := lx.Next()
	if str.Kind != token.StringLit {
		t.Fatalf("Next() kind = %v, want StringLit", str.Kind)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected errors: %v", bag.Items())
	}
	if want := `"a\"b"`; str.Text != want {
		t.Errorf("Next() text = %q, want %q", str.Text, want)
	}
	next := lx.Next()
	if next.Kind != token.Ident || next.Text != "rest" {
		t.Errorf("Next() after string = %v %q, want Ident \"rest\"", next.Kind, next.Text)
	}
}

func TestUnterminatedBlockCommentReportsAndConsumesToEOF(t *testing.T) {
	lx, bag := newTestLexer("/* never closed\nfoo")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Errorf("Next() kind = %v, want EOF (unterminated block comment eats the rest of the file)", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatal("expected an error for an unterminated block comment")
	}
	got := bag.Items()[0].Code
	if got != diag.LexUnterminatedBlockComment {
		t.Errorf("diagnostic code = %v, want LexUnterminatedBlockComment", got)
	}
}

func TestTerminatedBlockCommentReportsNothing(t *testing.T) {
	lx, bag := newTestLexer("/* fine */ foo")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "foo" {
		t.Errorf("Next() = %v %q, want Ident \"foo\"", tok.Kind, tok.Text)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected errors: %v", bag.Items())
	}
}

func TestUnknownCharacterReportsAndResumes(t *testing.T) {
	lx, bag := newTestLexer("# foo")
	bad := lx.Next()
	if bad.Kind != token.Invalid {
		t.Fatalf("Next() kind = %v, want Invalid", bad.Kind)
	}
	if !bag.HasErrors() {
		t.Fatal("expected an error for an unrecognized character")
	}
	got := bag.Items()[0].Code
	if got != diag.LexUnknownChar {
		t.Errorf("diagnostic code = %v, want LexUnknownChar", got)
	}

	next := lx.Next()
	if next.Kind != token.Ident || next.Text != "foo" {
		t.Errorf("Next() after unknown char = %v %q, want Ident \"foo\"", next.Kind, next.Text)
	}
}

func TestNilBagSwallowsLexErrorsWithoutPanicking(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wsp", []byte(`"oops`))
	lx := lexer.New(fs.Get(fileID), nil)
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Errorf("Next() kind = %v, want StringLit", tok.Kind)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := newTestLexer("a b")
	first := lx.Peek()
	second := lx.Peek()
	if first.Text != second.Text || first.Kind != second.Kind {
		t.Fatal("Peek() must be idempotent until Next() is called")
	}
	consumed := lx.Next()
	if consumed.Text != first.Text {
		t.Fatal("Next() after Peek() must return the peeked token")
	}
	tail := lx.Next()
	if tail.Text != "b" {
		t.Errorf("Next() = %q, want \"b\"", tail.Text)
	}
}

func TestLineTrackingAcrossNewlinesAndBlockComments(t *testing.T) {
	lx, _ := newTestLexer("a\nb\n/* x\ny */\nc")
	var lines []uint32
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		lines = append(lines, tok.Line)
	}
	want := []uint32{1, 2, 5}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %d, want %d", i, lines[i], want[i])
		}
	}
}

func TestSimpleStatementTokenStream(t *testing.T) {
	lx, _ := newTestLexer(`var x = 1 + 2;`)
	got := collectKinds(lx)
	want := []token.Kind{token.KwVar, token.Ident, token.Assign, token.IntLit, token.Plus, token.IntLit, token.Semicolon}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kind[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
