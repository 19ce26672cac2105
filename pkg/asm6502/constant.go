package asm6502

import "fmt"

// Operand is one position of a ConstantFormula: either an integer
// literal or a reference to an identifier (label or named constant),
// with an optional mask tag.
type Operand struct {
	IsIdent bool
	Num     int64
	Name    string
	Size    int // literal: lexical width; masked: forced to 1; identifier: resolved later
	Mask    MaskKind
}

// ConstantFormula is a flattened left-to-right add/subtract expression:
// len(Operands) == len(Operators) + 1.
type ConstantFormula struct {
	Operands  []Operand
	Operators []OperatorKind
}

// buildFormula interprets a flat Values list produced by the CONSTANT
// grammar (and anything built on top of it — IMM_VALUE, TARGET, WORD)
// into a ConstantFormula, ignoring tags that belong to the surrounding
// syntax rather than the arithmetic itself (addressing mode, immediate
// modifier, operand-size metadata, mnemonic/directive payloads).
func buildFormula(values []Value) ConstantFormula {
	var f ConstantFormula
	pending := MaskNone
	for _, v := range values {
		switch v.Kind {
		case VKMask:
			pending = v.Mask
		case VKNumber:
			size := v.Size
			if pending != MaskNone {
				size = 1
			}
			f.Operands = append(f.Operands, Operand{Num: v.Num, Size: size, Mask: pending})
			pending = MaskNone
		case VKString:
			size := 0
			if pending != MaskNone {
				size = 1
			}
			f.Operands = append(f.Operands, Operand{IsIdent: true, Name: v.Str, Size: size, Mask: pending})
			pending = MaskNone
		case VKOperator:
			f.Operators = append(f.Operators, v.Op)
		}
	}
	return f
}

// resolve looks up an operand's numeric value and byte size against a
// symbol table, applying its mask if present.
func (op Operand) resolve(syms *SymbolTable) (int64, int, error) {
	var val int64
	var size int
	if op.IsIdent {
		nc, ok := syms.Lookup(op.Name)
		if !ok {
			return 0, 0, fmt.Errorf("reference to undefined constant %q", op.Name)
		}
		val = nc.Value
		size = nc.Size
	} else {
		val = op.Num
		size = op.Size
	}
	switch op.Mask {
	case MaskLow:
		val &= 0xFF
		size = 1
	case MaskHigh:
		val = (val >> 8) & 0xFF
		size = 1
	}
	return val, size, nil
}

// Evaluate walks the formula left to right, accumulating with each
// operator in turn, and checks the result fits the widest operand size
// seen — as an unsigned ceiling, per the documented (not "fixed")
// overflow policy.
func (f ConstantFormula) Evaluate(syms *SymbolTable) (int64, int, error) {
	if len(f.Operands) == 0 {
		return 0, 0, nil
	}
	var acc int64
	maxSize := 0
	for i, op := range f.Operands {
		val, size, err := op.resolve(syms)
		if err != nil {
			return 0, 0, err
		}
		if size > maxSize {
			maxSize = size
		}
		if i == 0 {
			acc = val
			continue
		}
		switch f.Operators[i-1] {
		case OpAdd:
			acc += val
		case OpSub:
			acc -= val
		}
	}
	if maxSize == 0 {
		maxSize = 1
	}
	ceiling := int64(1)<<uint(8*maxSize) - 1
	if acc > ceiling {
		return 0, 0, fmt.Errorf("constant formula overflow: result %d does not fit in %d byte(s)", acc, maxSize)
	}
	return acc, maxSize, nil
}

// indexShrinkSize is the size used specifically to decide whether an
// ABX/ABY target shrinks to ZPX/ZPY. A single bare numeric literal
// shrinks by its actual magnitude (so `$0010,X` — written with four
// hex digits but worth 0x10 — still shrinks to zero page, matching
// how indexed operands are conventionally auto-sized); anything else
// (an identifier, a masked or multi-operand formula) keeps the
// declared/inferred size, since a forward-referenced label's value
// cannot be known yet during the resolver's PC simulation and the
// encoder must make the identical decision pass 3 already committed to.
func (f ConstantFormula) indexShrinkSize(sizer func(name string) (int, bool)) (int, error) {
	if len(f.Operands) == 1 && !f.Operands[0].IsIdent && f.Operands[0].Mask == MaskNone {
		v := f.Operands[0].Num
		if v >= 0 && v <= 0xFF {
			return 1, nil
		}
		return f.Operands[0].Size, nil
	}
	return f.sizeOnly(sizer)
}

// sizeOnly computes the formula's declared/inferred size without
// requiring identifiers to already have resolved numeric values — only
// their size, from sizer. Used by the resolver's sizing passes, which
// run before named constants (and, for labels, before offsets) have
// final values.
func (f ConstantFormula) sizeOnly(sizer func(name string) (int, bool)) (int, error) {
	max := 0
	for _, op := range f.Operands {
		var size int
		if op.Mask != MaskNone {
			size = op.Size // buildFormula already forced this to 1
		} else if op.IsIdent {
			s, ok := sizer(op.Name)
			if !ok {
				return 0, fmt.Errorf("reference to undefined constant %q", op.Name)
			}
			size = s
		} else {
			size = op.Size
		}
		if size > max {
			max = size
		}
	}
	return max, nil
}
