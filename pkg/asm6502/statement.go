package asm6502

import "fmt"

// StatementKind identifies a top-level parse result variant.
type StatementKind int

const (
	StComment StatementKind = iota
	StLabelDef
	StNamedConstantDef
	StDirective
	StInstruction
)

// Statement is a top-level parse result. Only the fields relevant to
// Kind are meaningful — mirroring the tagged-union data model rather
// than one struct per variant, since construction is driven by a
// single construct-from-values step per matched statement pattern.
type Statement struct {
	Kind StatementKind
	Line int

	Name string // LabelDef / NamedConstantDef

	Mnemonic string
	HasMode  bool
	Mode     AddressingMode
	Imm      bool
	Formula  *ConstantFormula // Instruction operand, or NamedConstantDef's formula

	Directive string
	Params    []ConstantFormula // Directive parameter list (.org: exactly one; .db/.dw: one or more; .index/.mem: any, unused)
}

// ParserError is raised when no statement pattern matches the
// remaining tokens of a line.
type ParserError struct {
	Line int
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("parser error at line %d: no statement pattern matched the remaining tokens", e.Line)
}

func firstString(values []Value) string {
	for _, v := range values {
		if v.Kind == VKString {
			return v.Str
		}
	}
	return ""
}

func dropFirstString(values []Value) []Value {
	for i, v := range values {
		if v.Kind == VKString {
			return append(append([]Value{}, values[:i]...), values[i+1:]...)
		}
	}
	return values
}

func addressingMode(values []Value) (AddressingMode, bool) {
	for _, v := range values {
		if v.Kind == VKAddressingMode {
			return v.Mode, true
		}
	}
	return ModeNone, false
}

// matchStatement tries each statement-level alternative in the
// declared priority order (comment, label, named-constant-def,
// directive [with a comma-repeated parameter list], then the four
// mnemonic forms from most to least specific) and returns the first
// that matches the head of tokens.
func matchStatement(tokens []Token) (*Statement, []Token, bool) {
	line := tokens[0].Line

	if _, rest, ok := matchExpression(EComment, tokens); ok {
		return &Statement{Kind: StComment, Line: line}, rest, true
	}

	if expr, rest, ok := matchExpression(ELabelDef, tokens); ok {
		return &Statement{Kind: StLabelDef, Line: line, Name: firstString(expr.Values)}, rest, true
	}

	if expr, rest, ok := matchExpression(ENamedConstantDef, tokens); ok {
		name := firstString(expr.Values)
		formula := buildFormula(dropFirstString(expr.Values))
		return &Statement{Kind: StNamedConstantDef, Line: line, Name: name, Formula: &formula}, rest, true
	}

	if dexpr, rest, ok := matchExpression(EDirective, tokens); ok {
		dirName := ""
		for _, v := range dexpr.Values {
			if v.Kind == VKDirective {
				dirName = v.Str
			}
		}
		var params []ConstantFormula
		cur := rest
		for {
			cexpr, rest2, ok2 := matchExpression(EConstant, cur)
			if !ok2 {
				break
			}
			params = append(params, buildFormula(cexpr.Values))
			cur = rest2
			if len(cur) > 0 && cur[0].Kind == TokComma {
				cur = cur[1:]
				continue
			}
			break
		}
		return &Statement{Kind: StDirective, Line: line, Directive: dirName, Params: params}, cur, true
	}

	mexpr, rest, ok := matchExpression(EMnemonic, tokens)
	if !ok {
		return nil, tokens, false
	}
	mnemonic := ""
	for _, v := range mexpr.Values {
		if v.Kind == VKMnemonic {
			mnemonic = v.Str
		}
	}

	if iexpr, rest2, ok2 := matchExpression(EImmValue, rest); ok2 {
		formula := buildFormula(iexpr.Values)
		return &Statement{Kind: StInstruction, Line: line, Mnemonic: mnemonic, HasMode: true, Mode: IMM, Imm: true, Formula: &formula}, rest2, true
	}

	if texpr, rest2, ok2 := matchExpression(ETarget, rest); ok2 {
		mode, _ := addressingMode(texpr.Values)
		formula := buildFormula(texpr.Values)
		return &Statement{Kind: StInstruction, Line: line, Mnemonic: mnemonic, HasMode: true, Mode: mode, Formula: &formula}, rest2, true
	}

	if cexpr, rest2, ok2 := matchExpression(EConstant, rest); ok2 {
		formula := buildFormula(cexpr.Values)
		return &Statement{Kind: StInstruction, Line: line, Mnemonic: mnemonic, Formula: &formula}, rest2, true
	}

	return &Statement{Kind: StInstruction, Line: line, Mnemonic: mnemonic}, rest, true
}

// Parse consumes the tokens of a single source line, repeatedly
// matching the next statement until no tokens remain.
func Parse(tokens []Token) ([]Statement, error) {
	var stmts []Statement
	cur := tokens
	for len(cur) > 0 {
		st, rest, ok := matchStatement(cur)
		if !ok {
			return nil, &ParserError{Line: cur[0].Line}
		}
		stmts = append(stmts, *st)
		cur = rest
	}
	return stmts, nil
}

// ParseLines parses every lexed line and concatenates their statements
// in source order.
func ParseLines(lines [][]Token) ([]Statement, error) {
	var all []Statement
	for _, line := range lines {
		stmts, err := Parse(line)
		if err != nil {
			return nil, err
		}
		all = append(all, stmts...)
	}
	return all, nil
}
