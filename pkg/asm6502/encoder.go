package asm6502

import "fmt"

// Encode walks the statement list once more, now with a fully resolved
// symbol table available, selecting a concrete addressing mode per
// instruction and writing opcode + operand bytes to the output buffer.
// sourceLines supplies the original source text (split on "\n", one
// entry per line number) so each emitted ListingLine can carry its
// source line alongside the address and bytes it produced.
func Encode(stmts []Statement, syms *SymbolTable, sourceLines []string) ([]byte, []ListingLine, error) {
	var out []byte
	var listing []ListingLine
	pc := 0
	orgOffset := 0

	sourceLineAt := func(n int) string {
		if n >= 1 && n <= len(sourceLines) {
			return sourceLines[n-1]
		}
		return ""
	}

	for _, st := range stmts {
		switch st.Kind {
		case StComment, StLabelDef, StNamedConstantDef:
			continue

		case StDirective:
			switch st.Directive {
			case ".ORG":
				if len(st.Params) != 1 || len(st.Params[0].Operands) != 1 ||
					st.Params[0].Operands[0].IsIdent || st.Params[0].Operands[0].Mask != MaskNone {
					return nil, nil, &AssemblerError{Line: st.Line, Message: "malformed .org: expected exactly one bare integer operand"}
				}
				orgOffset = int(st.Params[0].Operands[0].Num)
			case ".DB":
				start := pc
				var bytes []byte
				for _, p := range st.Params {
					val, _, err := p.Evaluate(syms)
					if err != nil {
						return nil, nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
					}
					bytes = append(bytes, byte(val&0xFF))
				}
				out = append(out, bytes...)
				pc += len(st.Params)
				listing = append(listing, ListingLine{Address: start, Bytes: bytes, Line: st.Line, SourceLine: sourceLineAt(st.Line)})
			case ".DW":
				start := pc
				var bytes []byte
				for _, p := range st.Params {
					val, _, err := p.Evaluate(syms)
					if err != nil {
						return nil, nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
					}
					bytes = append(bytes, byte(val&0xFF), byte((val>>8)&0xFF))
				}
				out = append(out, bytes...)
				pc += 2 * len(st.Params)
				listing = append(listing, ListingLine{Address: start, Bytes: bytes, Line: st.Line, SourceLine: sourceLineAt(st.Line)})
			default: // .INDEX, .MEM: parsed and ignored
			}

		case StInstruction:
			b, n, err := encodeInstruction(st, syms, pc, orgOffset)
			if err != nil {
				return nil, nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
			}
			out = append(out, b...)
			listing = append(listing, ListingLine{Address: pc, Bytes: b, Line: st.Line, SourceLine: sourceLineAt(st.Line)})
			pc += n
		}
	}
	return out, listing, nil
}

func encodeInstruction(st Statement, syms *SymbolTable, pc, orgOffset int) ([]byte, int, error) {
	var operand int64
	var size int
	if st.Formula != nil && len(st.Formula.Operands) > 0 {
		v, s, err := st.Formula.Evaluate(syms)
		if err != nil {
			return nil, 0, err
		}
		operand, size = v, s
	}

	mode := st.Mode
	switch {
	case st.HasMode:
		// use as given
	case st.Formula == nil || len(st.Formula.Operands) == 0:
		mode = IMP
	case classOf(st.Mnemonic) == ClassBranch:
		mode = REL
	case size == 1:
		mode = ZRP
	default:
		mode = ABS
	}

	if mode == ABX || mode == ABY {
		shrinkSize, err := st.Formula.indexShrinkSize(func(name string) (int, bool) {
			nc, ok := syms.Lookup(name)
			return nc.Size, ok
		})
		if err != nil {
			return nil, 0, err
		}
		if shrinkSize == 1 {
			zp := ZPX
			if mode == ABY {
				zp = ZPY
			}
			if hasMode(st.Mnemonic, zp) {
				mode = zp
				size = 1
			}
		}
	}

	if mode == REL {
		operand = operand - int64(pc+2)
		if operand < -128 || operand > 127 {
			return nil, 0, fmt.Errorf("relative branch out of range: offset %d", operand)
		}
		size = 1
	}

	if mode.Width() < size {
		return nil, 0, fmt.Errorf("operand too large for addressing mode %s", mode)
	}

	entry, ok := lookupOpcode(st.Mnemonic, mode)
	if !ok {
		return nil, 0, fmt.Errorf("instruction %s cannot be used with addressing mode %s", st.Mnemonic, mode)
	}

	if classOf(st.Mnemonic) == ClassJump && mode == ABS {
		operand += int64(orgOffset)
	}

	b := []byte{entry.opcode}
	switch mode.Width() {
	case 1:
		b = append(b, byte(operand&0xFF))
	case 2:
		b = append(b, byte(operand&0xFF), byte((operand>>8)&0xFF))
	}
	return b, 1 + mode.Width(), nil
}
