package lexer

import (
	"testing"

	"cinder/internal/diag"
	"cinder/internal/source"
	"cinder/internal/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cn", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})

	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, bag
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanFunctionHeader(t *testing.T) {
	toks, bag := scanAll(t, "fun add(a: i32, b: i32) -> i32 {")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	want := []token.Kind{
		token.KwFun, token.Ident, token.LParen,
		token.Ident, token.Colon, token.Ident, token.Comma,
		token.Ident, token.Colon, token.Ident, token.RParen,
		token.Arrow, token.Ident, token.LBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanOperators(t *testing.T) {
	toks, _ := scanAll(t, "== != <= >= << >> && || -> = < > & | ^ ~ !")
	want := []token.Kind{
		token.EqEq, token.BangEq, token.LtEq, token.GtEq, token.Shl, token.Shr,
		token.AndAnd, token.OrOr, token.Arrow, token.Assign, token.Lt, token.Gt,
		token.Amp, token.Pipe, token.Caret, token.Tilde, token.Bang, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanNumbersAndComments(t *testing.T) {
	toks, bag := scanAll(t, "42 3.25 // trailing comment\n7")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	if toks[0].Kind != token.IntLit || toks[0].Text != "42" {
		t.Fatalf("tok 0 = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.FloatLit || toks[1].Text != "3.25" {
		t.Fatalf("tok 1 = %v %q", toks[1].Kind, toks[1].Text)
	}
	if toks[2].Kind != token.IntLit || toks[2].Text != "7" {
		t.Fatalf("tok 2 = %v %q", toks[2].Kind, toks[2].Text)
	}
}

func TestScanReportsUnknownChar(t *testing.T) {
	_, bag := scanAll(t, "let x = @")
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	if bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("code = %v", bag.Items()[0].Code)
	}
}

func TestScanContinuesPastNulByte(t *testing.T) {
	toks, bag := scanAll(t, "fun a() { }\n\x00\nfun b() { }")

	funs := 0
	for _, tok := range toks {
		if tok.Kind == token.KwFun {
			funs++
		}
	}
	if funs != 2 {
		t.Fatalf("fun keywords = %d, want 2 (%v)", funs, kinds(toks))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected one LexUnknownChar for the NUL, got %d diags", bag.Len())
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		t.Fatalf("last token = %v, want EOF", last.Kind)
	}
}

func TestScanMalformedNumber(t *testing.T) {
	_, bag := scanAll(t, "12abc")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
		t.Fatalf("expected LexBadNumber, got %d diags", bag.Len())
	}
}
