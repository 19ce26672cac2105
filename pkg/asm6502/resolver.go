package asm6502

import "fmt"

// sizer tracks what pass 2/3 know about a name's byte size, before any
// actual values (label offsets, constant results) have been computed.
type sizer struct {
	labels map[string]bool
	sizes  map[string]int
}

func (s *sizer) sizeOf(name string) (int, bool) {
	if s.labels[name] {
		return 2, true
	}
	if sz, ok := s.sizes[name]; ok {
		return sz, true
	}
	return 0, false
}

// Resolve runs the four-pass constant/label resolution described by
// the assembler's component design and returns the resulting symbol
// table, ready for the encoder.
func Resolve(stmts []Statement) (*SymbolTable, error) {
	sz := &sizer{labels: map[string]bool{}, sizes: map[string]int{}}

	// Pass 1 — discover labels.
	for _, st := range stmts {
		if st.Kind == StLabelDef {
			sz.labels[st.Name] = true
		}
	}

	// Pass 2 — size named constants, in source order.
	for _, st := range stmts {
		if st.Kind != StNamedConstantDef {
			continue
		}
		size, err := st.Formula.sizeOnly(sz.sizeOf)
		if err != nil {
			return nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
		}
		sz.sizes[st.Name] = size
	}

	// Pass 3 — assign label offsets by simulating the program counter.
	labelOffsets := make(map[string]int)
	pc := 0
	for _, st := range stmts {
		switch st.Kind {
		case StLabelDef:
			if _, exists := labelOffsets[st.Name]; exists {
				return nil, &AssemblerError{Line: st.Line, Message: fmt.Sprintf("duplicate label %q", st.Name)}
			}
			labelOffsets[st.Name] = pc
		case StInstruction:
			n, err := instructionOperandBytes(st, sz)
			if err != nil {
				return nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
			}
			pc += 1 + n
		case StDirective:
			n, newPC, err := directivePCEffect(st, pc)
			if err != nil {
				return nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
			}
			if newPC >= 0 {
				pc = newPC
			} else {
				pc += n
			}
		}
	}

	// Pass 4 — evaluate constants, merging labels into the working map.
	syms := NewSymbolTable()
	for name, off := range labelOffsets {
		if err := syms.Define(NamedConstant{Name: name, Value: int64(off), Size: 2}); err != nil {
			return nil, err
		}
	}
	for _, st := range stmts {
		if st.Kind != StNamedConstantDef {
			continue
		}
		val, size, err := st.Formula.Evaluate(syms)
		if err != nil {
			return nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
		}
		if err := syms.Define(NamedConstant{Name: st.Name, Value: val, Size: size}); err != nil {
			return nil, &AssemblerError{Line: st.Line, Message: err.Error(), Err: err}
		}
	}

	return syms, nil
}

// instructionOperandBytes computes how many operand bytes (beyond the
// opcode) an instruction statement occupies, for the pass-3 PC
// simulation — mirroring the addressing-mode/zero-page-shrink logic
// the encoder applies for real, but working from sizes only.
func instructionOperandBytes(st Statement, sz *sizer) (int, error) {
	if st.HasMode {
		mode := st.Mode
		width := mode.Width()
		if (mode == ABX || mode == ABY) && st.Formula != nil {
			size, err := st.Formula.indexShrinkSize(sz.sizeOf)
			if err != nil {
				return 0, err
			}
			if size == 1 {
				zp := ZPX
				if mode == ABY {
					zp = ZPY
				}
				if hasMode(st.Mnemonic, zp) {
					width = 1
				}
			}
		}
		return width, nil
	}
	if classOf(st.Mnemonic) == ClassBranch {
		return 1, nil
	}
	if st.Formula == nil || len(st.Formula.Operands) == 0 {
		return 0, nil
	}
	return st.Formula.sizeOnly(sz.sizeOf)
}

// directivePCEffect returns (pcDelta, newPC, err). A newPC >= 0 would
// replace the PC outright; no directive does so (.org included), and
// every case returns newPC -1.
func directivePCEffect(st Statement, pc int) (int, int, error) {
	switch st.Directive {
	case ".ORG":
		if len(st.Params) != 1 || len(st.Params[0].Operands) != 1 || st.Params[0].Operands[0].IsIdent || st.Params[0].Operands[0].Mask != MaskNone {
			return 0, -1, fmt.Errorf("malformed .org: expected exactly one bare integer operand")
		}
		// Per the documented (not "fixed") .org policy: label/branch
		// offsets use file position only. .org does not reset the
		// simulated PC here — only the encoder's separate org_offset,
		// added to absolute jump targets, sees this value.
		return 0, -1, nil
	case ".DB":
		return len(st.Params), -1, nil
	case ".DW":
		return 2 * len(st.Params), -1, nil
	default: // .INDEX, .MEM: parsed and ignored
		return 0, -1, nil
	}
}
