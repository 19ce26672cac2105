package asm6502

// directiveNames is the set of assembler directives recognized by the
// lexer, keyed by upper-cased name (directives are case-insensitive).
var directiveNames = map[string]bool{
	".ORG":   true,
	".DB":    true,
	".DW":    true,
	".INDEX": true,
	".MEM":   true,
}
