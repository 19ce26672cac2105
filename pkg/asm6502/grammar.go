package asm6502

// ExpressionKind identifies a grammar nonterminal at expression level.
type ExpressionKind int

const (
	EComment ExpressionKind = iota
	EMnemonic
	ELabelDef
	ENamedConstantDef
	EDirective
	EQWord
	EDWord
	EWord
	EMask
	ETarget
	ENumber
	EArithOp
	EConstant
	EImmValue
)

// patElem is one element of a pattern: either a terminal (token kind)
// or a nonterminal (expression kind), matched recursively.
type patElem struct {
	isToken bool
	tok     TokenKind
	expr    ExpressionKind
}

func t(k TokenKind) patElem      { return patElem{isToken: true, tok: k} }
func e(k ExpressionKind) patElem { return patElem{isToken: false, expr: k} }

// exprRule is one alternative right-hand side for an expression-level
// nonterminal, with any metadata values the rule contributes once its
// pattern has matched (e.g. the addressing mode a TARGET form denotes).
type exprRule struct {
	kind     ExpressionKind
	pattern  []patElem
	metadata []Value
}

// Expression is the result of matching an exprRule: the concatenation
// of child contributions (token values and child expression values, in
// left-to-right syntactic order) followed by the rule's own metadata.
type Expression struct {
	Kind   ExpressionKind
	Values []Value
	Line   int
}

func amMeta(m AddressingMode) []Value {
	return []Value{{Kind: VKAddressingMode, Mode: m}}
}

func sizeMeta(n int) []Value {
	return []Value{{Kind: VKOperandSize, Size: n}}
}

func maskMeta(m MaskKind) []Value {
	return []Value{{Kind: VKMask, Mask: m}}
}

// exprRules is the declarative expression grammar: for each nonterminal,
// an ordered list of alternative patterns. First successful match wins,
// so more specific alternatives must precede more general ones.
var exprRules = []exprRule{
	{EComment, []patElem{t(TokComment)}, nil},
	{EMnemonic, []patElem{t(TokMnemonic)}, nil},
	{ELabelDef, []patElem{t(TokIdentifier), t(TokColon)}, nil},
	{ENamedConstantDef, []patElem{t(TokIdentifier), t(TokEquals), e(EConstant)}, nil},
	{EDirective, []patElem{t(TokDirective)}, nil},

	// QWORD [size=4] := hex-qword | bin-qword
	{EQWord, []patElem{t(TokHexQWord)}, sizeMeta(4)},
	{EQWord, []patElem{t(TokBinQWord)}, sizeMeta(4)},

	// DWORD [size=2] := hex-dword | bin-dword
	{EDWord, []patElem{t(TokHexDWord)}, sizeMeta(2)},
	{EDWord, []patElem{t(TokBinDWord)}, sizeMeta(2)},

	// WORD [size=1] := hex-word | dec-word | bin-word | MASK DWORD
	{EWord, []patElem{t(TokHexWord)}, sizeMeta(1)},
	{EWord, []patElem{t(TokDec)}, sizeMeta(1)},
	{EWord, []patElem{t(TokBinWord)}, sizeMeta(1)},
	{EWord, []patElem{e(EMask), e(EDWord)}, sizeMeta(1)},

	// MASK [hi] := '>' ; MASK [lo] := '<'
	{EMask, []patElem{t(TokGreaterThan)}, maskMeta(MaskHigh)},
	{EMask, []patElem{t(TokLessThan)}, maskMeta(MaskLow)},

	// TARGET — composite (indexed / indirect) forms before bare ABS/ZRP.
	{ETarget, []patElem{e(EDWord), t(TokComma), t(TokX)}, amMeta(ABX)},
	{ETarget, []patElem{e(EDWord), t(TokComma), t(TokY)}, amMeta(ABY)},
	{ETarget, []patElem{e(EWord), t(TokComma), t(TokX)}, amMeta(ZPX)},
	{ETarget, []patElem{e(EWord), t(TokComma), t(TokY)}, amMeta(ZPY)},
	{ETarget, []patElem{t(TokLeftParen), e(EDWord), t(TokRightParen)}, amMeta(IND)},
	{ETarget, []patElem{t(TokLeftParen), e(EWord), t(TokComma), t(TokX), t(TokRightParen)}, amMeta(IZX)},
	{ETarget, []patElem{t(TokLeftParen), e(EWord), t(TokRightParen), t(TokComma), t(TokY)}, amMeta(IZY)},
	{ETarget, []patElem{e(EDWord)}, amMeta(ABS)},
	{ETarget, []patElem{e(EWord)}, amMeta(ZRP)},

	// NUMBER [size=1|2|4] := QWORD | DWORD | WORD
	{ENumber, []patElem{e(EQWord)}, nil},
	{ENumber, []patElem{e(EDWord)}, nil},
	{ENumber, []patElem{e(EWord)}, nil},

	// ARITH_OP := '+' | '-'
	{EArithOp, []patElem{t(TokPlus)}, []Value{{Kind: VKOperator, Op: OpAdd}}},
	{EArithOp, []patElem{t(TokMinus)}, []Value{{Kind: VKOperator, Op: OpSub}}},

	// CONSTANT — identifier/number followed by operator-chain first,
	// then bare identifier/number, then a leading mask.
	{EConstant, []patElem{t(TokIdentifier), e(EArithOp), e(EConstant)}, nil},
	{EConstant, []patElem{e(ENumber), e(EArithOp), e(EConstant)}, nil},
	{EConstant, []patElem{t(TokIdentifier)}, nil},
	{EConstant, []patElem{e(ENumber)}, nil},
	{EConstant, []patElem{e(EMask), e(EConstant)}, nil},

	// IMM_VALUE [imm] := '#' CONSTANT
	{EImmValue, []patElem{t(TokPound), e(EConstant)}, []Value{{Kind: VKImm, Imm: true}}},
}

var exprRulesByKind map[ExpressionKind][]exprRule

func init() {
	exprRulesByKind = make(map[ExpressionKind][]exprRule)
	for _, r := range exprRules {
		exprRulesByKind[r.kind] = append(exprRulesByKind[r.kind], r)
	}
}

// matchExpression tries every rule for kind, in declared order, against
// the head of tokens. The first pattern that matches wins; on success
// it returns the built Expression and the unconsumed token tail.
func matchExpression(kind ExpressionKind, tokens []Token) (Expression, []Token, bool) {
	line := 0
	if len(tokens) > 0 {
		line = tokens[0].Line
	}
	for _, rule := range exprRulesByKind[kind] {
		values, rest, ok := matchPattern(rule.pattern, tokens)
		if !ok {
			continue
		}
		values = append(append([]Value{}, values...), rule.metadata...)
		return Expression{Kind: kind, Values: values, Line: line}, rest, true
	}
	return Expression{}, tokens, false
}

// matchPattern attempts to consume tokens head-first against pattern.
// On failure no tokens are considered consumed (the caller discards
// the partial result since rest/ok report the outcome).
func matchPattern(pattern []patElem, tokens []Token) (values []Value, rest []Token, ok bool) {
	rest = tokens
	for _, pe := range pattern {
		if pe.isToken {
			if len(rest) == 0 || rest[0].Kind != pe.tok {
				return nil, tokens, false
			}
			if rest[0].Value.Kind != VKEmpty {
				values = append(values, rest[0].Value)
			}
			rest = rest[1:]
			continue
		}
		sub, rest2, matched := matchExpression(pe.expr, rest)
		if !matched {
			return nil, tokens, false
		}
		values = append(values, sub.Values...)
		rest = rest2
	}
	return values, rest, true
}
