package asm6502

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenRule matches the remaining text of a line at the current cursor
// position. It returns the number of runes consumed and the value the
// matched token contributes, or ok=false if the rule does not match.
// Rules are tried in declaration order — first match wins — so more
// specific/wider rules must precede narrower, more general ones.
type tokenRule struct {
	kind  TokenKind
	match func(s string) (length int, value Value, ok bool)
}

var identRunRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*`)
var directiveRunRe = regexp.MustCompile(`^\.[A-Za-z]+`)

var hexQWordRe = regexp.MustCompile(`^\$[0-9A-Fa-f]{5,8}`)
var hexDWordRe = regexp.MustCompile(`^\$[0-9A-Fa-f]{3,4}`)
var hexWordRe = regexp.MustCompile(`^\$[0-9A-Fa-f]{1,2}`)

var binQWordRe = regexp.MustCompile(`^%[01]{32}`)
var binDWordRe = regexp.MustCompile(`^%[01]{16}`)
var binWordRe = regexp.MustCompile(`^%[01]{8}`)

var decRe = regexp.MustCompile(`^[0-9]{1,3}`)

// tokenRules is the declarative, ordered list of lexical patterns.
// Longer/more specific patterns precede shorter, more general ones.
var tokenRules = []tokenRule{
	{TokComment, func(s string) (int, Value, bool) {
		if len(s) == 0 || s[0] != ';' {
			return 0, Value{}, false
		}
		return len(s), Value{Kind: VKEmpty}, true
	}},
	{TokDirective, func(s string) (int, Value, bool) {
		m := directiveRunRe.FindString(s)
		if m == "" {
			return 0, Value{}, false
		}
		name := strings.ToUpper(m)
		if _, ok := directiveNames[name]; !ok {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKDirective, Str: name}, true
	}},
	{TokMnemonic, func(s string) (int, Value, bool) {
		m := identRunRe.FindString(s)
		if len(m) != 3 {
			return 0, Value{}, false
		}
		name := strings.ToUpper(m)
		if !isKnownMnemonic(name) {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKMnemonic, Str: name}, true
	}},
	{TokX, func(s string) (int, Value, bool) {
		m := identRunRe.FindString(s)
		if !strings.EqualFold(m, "X") {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKEmpty}, true
	}},
	{TokY, func(s string) (int, Value, bool) {
		m := identRunRe.FindString(s)
		if !strings.EqualFold(m, "Y") {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKEmpty}, true
	}},
	{TokHexQWord, hexAdapter(hexQWordRe, 4)},
	{TokHexDWord, hexAdapter(hexDWordRe, 2)},
	{TokHexWord, hexAdapter(hexWordRe, 1)},
	{TokBinQWord, binAdapter(binQWordRe, 4)},
	{TokBinDWord, binAdapter(binDWordRe, 2)},
	{TokBinWord, binAdapter(binWordRe, 1)},
	{TokDec, func(s string) (int, Value, bool) {
		m := decRe.FindString(s)
		if m == "" {
			return 0, Value{}, false
		}
		v, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKNumber, Num: v, Size: 1}, true
	}},
	{TokIdentifier, func(s string) (int, Value, bool) {
		m := identRunRe.FindString(s)
		if m == "" {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKString, Str: m}, true
	}},
	{TokColon, literal(":")},
	{TokComma, literal(",")},
	{TokEquals, literal("=")},
	{TokPound, literal("#")},
	{TokLeftParen, literal("(")},
	{TokRightParen, literal(")")},
	{TokPlus, literal("+")},
	{TokMinus, literal("-")},
	{TokLessThan, literal("<")},
	{TokGreaterThan, literal(">")},
}

func literal(lit string) func(s string) (int, Value, bool) {
	return func(s string) (int, Value, bool) {
		if strings.HasPrefix(s, lit) {
			return len(lit), Value{Kind: VKEmpty}, true
		}
		return 0, Value{}, false
	}
}

func hexAdapter(re *regexp.Regexp, size int) func(s string) (int, Value, bool) {
	return func(s string) (int, Value, bool) {
		m := re.FindString(s)
		if m == "" {
			return 0, Value{}, false
		}
		v, err := strconv.ParseInt(m[1:], 16, 64)
		if err != nil {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKNumber, Num: v, Size: size}, true
	}
}

func binAdapter(re *regexp.Regexp, size int) func(s string) (int, Value, bool) {
	return func(s string) (int, Value, bool) {
		m := re.FindString(s)
		if m == "" {
			return 0, Value{}, false
		}
		v, err := strconv.ParseInt(m[1:], 2, 64)
		if err != nil {
			return 0, Value{}, false
		}
		return len(m), Value{Kind: VKNumber, Num: v, Size: size}, true
	}
}

// Lex converts raw source text into an ordered sequence of lines of
// tokens. Blank lines (and lines that lex to nothing but whitespace)
// are dropped.
func Lex(source string) ([][]Token, error) {
	var lines [][]Token
	for lineNum, text := range strings.Split(source, "\n") {
		toks, err := lexLine(text, lineNum+1)
		if err != nil {
			return nil, err
		}
		if len(toks) > 0 {
			lines = append(lines, toks)
		}
	}
	return lines, nil
}

func lexLine(text string, lineNum int) ([]Token, error) {
	var toks []Token
	rest := text
	col := 1
	for {
		// skip ASCII whitespace
		for len(rest) > 0 && (rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\r') {
			rest = rest[1:]
			col++
		}
		if len(rest) == 0 {
			break
		}
		matched := false
		for _, rule := range tokenRules {
			length, value, ok := rule.match(rest)
			if !ok || length == 0 {
				continue
			}
			if rule.kind != TokComment || len(toks) == 0 {
				toks = append(toks, Token{Kind: rule.kind, Value: value, Line: lineNum})
			}
			rest = rest[length:]
			col += length
			matched = true
			break
		}
		if !matched {
			return nil, &LexerError{Line: lineNum, Column: col, Text: text}
		}
	}
	return toks, nil
}
