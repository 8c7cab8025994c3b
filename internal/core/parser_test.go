package core

import "testing"

func TestParseDetectsIncompleteBrace(t *testing.T) {
	status, _ := Parse("set x {unterminated")
	if status != ParseIncomplete {
		t.Errorf("status = %v, want ParseIncomplete", status)
	}
}

func TestParseDetectsCompleteScript(t *testing.T) {
	status, msg := Parse("set x 1; puts $x")
	if status != ParseOK {
		t.Errorf("status = %v (%s), want ParseOK", status, msg)
	}
}

func TestParseScriptTokensVarAndCommand(t *testing.T) {
	toks, err := ParseScript("set x [foo $y]; puts $x")
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	var sawVar, sawCmd bool
	for _, tk := range toks {
		switch tk.Type {
		case TokVar:
			sawVar = true
		case TokCmd:
			sawCmd = true
		}
	}
	if !sawVar || !sawCmd {
		t.Errorf("expected VAR and CMD tokens, got %+v", toks)
	}
}

func TestParseListItems(t *testing.T) {
	items, err := ParseListItems(`a {b c} "d e"`)
	if err != nil {
		t.Fatalf("ParseListItems: %v", err)
	}
	want := []string{"a", "b c", "d e"}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i], want[i])
		}
	}
}

func TestParseSubstTokensLiteralSemicolon(t *testing.T) {
	toks, err := ParseSubstTokens("a;b $c")
	if err != nil {
		t.Fatalf("ParseSubstTokens: %v", err)
	}
	var text string
	for _, tk := range toks {
		if tk.Type == TokStr {
			text += tk.Text
		}
	}
	if text != "a;b " {
		t.Errorf("literal text = %q, want %q", text, "a;b ")
	}
}
