package asm6502

import (
	"fmt"
	"os"
	"strings"
)

// AssemblerError is a semantic error detected after parsing: undefined
// constant reference, duplicate label, operand overflow, operand too
// wide for its addressing mode, unsupported mnemonic/mode combination,
// malformed .org, or a relative branch out of range. Err, when set, is
// the underlying cause and is reachable through errors.Is/errors.As via
// Unwrap — Message stays as the flattened human-readable text so
// Error() doesn't need Err to be non-nil.
type AssemblerError struct {
	Line    int
	Message string
	Err     error
}

func (e *AssemblerError) Error() string {
	return fmt.Sprintf("assembler error at line %d: %s", e.Line, e.Message)
}

func (e *AssemblerError) Unwrap() error {
	return e.Err
}

// ListingLine pairs one emitted instruction/directive's address and
// bytes with its source line, for callers that want a human-readable
// assembly listing (no listing file is ever written by this package —
// that remains the caller's concern). Only statements that actually
// emit bytes (instructions, .db/.dw) produce a ListingLine; comments,
// label definitions, and named-constant definitions don't.
type ListingLine struct {
	Address    int
	Bytes      []byte
	Line       int
	SourceLine string
}

// Result is everything produced by assembling one source unit.
type Result struct {
	Binary  []byte
	Origin  int
	Size    int
	Symbols map[string]NamedConstant
	Listing []ListingLine
}

// Assembler assembles x816-dialect 6502 source into a flat binary. It
// carries no mutable state between calls — AssembleString/AssembleFile
// may be called repeatedly and concurrently on the same value.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// AssembleString runs the full lex → parse → resolve → encode pipeline
// over source and returns the resulting binary and symbol table. The
// first error from any stage aborts the translation; no partial binary
// is returned on failure.
func (a *Assembler) AssembleString(source string) (*Result, error) {
	lines, err := Lex(source)
	if err != nil {
		return nil, err
	}
	stmts, err := ParseLines(lines)
	if err != nil {
		return nil, err
	}
	syms, err := Resolve(stmts)
	if err != nil {
		return nil, err
	}
	binary, listing, err := Encode(stmts, syms, strings.Split(source, "\n"))
	if err != nil {
		return nil, err
	}

	origin := 0
	for _, st := range stmts {
		if st.Kind == StDirective && st.Directive == ".ORG" {
			origin = int(st.Params[0].Operands[0].Num)
			break
		}
	}

	return &Result{
		Binary:  binary,
		Origin:  origin,
		Size:    len(binary),
		Symbols: syms.All(),
		Listing: listing,
	}, nil
}

// AssembleFile reads filename and assembles its contents.
func (a *Assembler) AssembleFile(filename string) (*Result, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return a.AssembleString(string(source))
}
