package asm6502

import "testing"

func mustLexParse(t *testing.T, source string) []Statement {
	t.Helper()
	lines, err := Lex(source)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, err := ParseLines(lines)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts
}

func TestParse_LabelAndInstructionShareALine(t *testing.T) {
	stmts := mustLexParse(t, "start: LDA #$01\n")
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	if stmts[0].Kind != StLabelDef || stmts[0].Name != "start" {
		t.Errorf("statement 0 = %+v, want LabelDef start", stmts[0])
	}
	if stmts[1].Kind != StInstruction || stmts[1].Mnemonic != "LDA" || stmts[1].Mode != IMM {
		t.Errorf("statement 1 = %+v, want Instruction LDA IMM", stmts[1])
	}
}

func TestParse_IgnoredDirectiveKeepsItsParam(t *testing.T) {
	stmts := mustLexParse(t, ".index 8\n")
	if len(stmts) != 1 || stmts[0].Kind != StDirective || stmts[0].Directive != ".INDEX" {
		t.Fatalf("got %+v, want a .INDEX directive statement", stmts)
	}
	if len(stmts[0].Params) != 1 {
		t.Fatalf("got %d params, want 1", len(stmts[0].Params))
	}
}

func TestParse_NamedConstantWithArithmetic(t *testing.T) {
	stmts := mustLexParse(t, "BASE = $10\nOFFSET = BASE + $05\n")
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	offset := stmts[1]
	if offset.Kind != StNamedConstantDef || offset.Name != "OFFSET" {
		t.Fatalf("got %+v", offset)
	}
	if len(offset.Formula.Operands) != 2 || len(offset.Formula.Operators) != 1 {
		t.Fatalf("formula = %+v, want two operands and one operator", offset.Formula)
	}
	if offset.Formula.Operators[0] != OpAdd {
		t.Errorf("operator = %v, want +", offset.Formula.Operators[0])
	}
}

func TestParse_UnmatchedLineFails(t *testing.T) {
	lines, err := Lex(",,,\n")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := ParseLines(lines); err == nil {
		t.Fatalf("expected a parser error, got none")
	}
}

func TestResolve_UndefinedConstantDuringSizing(t *testing.T) {
	stmts := mustLexParse(t, "FOO = BAR\n")
	if _, err := Resolve(stmts); err == nil {
		t.Fatalf("expected an error for reference to undefined constant BAR")
	}
}

func TestResolve_ForwardLabelReferenceInConstant(t *testing.T) {
	stmts := mustLexParse(t, "FOO = target\ntarget: NOP\n")
	syms, err := Resolve(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foo, ok := syms.Lookup("FOO")
	if !ok || foo.Value != 0 || foo.Size != 2 {
		t.Errorf("FOO = %+v, want value 0 size 2", foo)
	}
}

func TestResolve_ForwardConstantReferenceFails(t *testing.T) {
	stmts := mustLexParse(t, "A = B\nB = $01\n")
	if _, err := Resolve(stmts); err == nil {
		t.Fatalf("expected an error: constants may not forward-reference each other")
	}
}
