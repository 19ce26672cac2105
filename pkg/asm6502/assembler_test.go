package asm6502

import (
	"bytes"
	"errors"
	"testing"
)

func TestAssembler(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []byte
		wantErr  bool
	}{
		{
			name:     "immediate load",
			source:   "LDA #$05\n",
			expected: []byte{0xA9, 0x05},
		},
		{
			name:     "zero page via size inference",
			source:   "LDA $10\n",
			expected: []byte{0xA5, 0x10},
		},
		{
			name:     "explicit absolute via two-byte literal",
			source:   "LDA $0010\n",
			expected: []byte{0xAD, 0x10, 0x00},
		},
		{
			name: "org-offset absolute jump",
			source: ".org $8000\n" +
				"start: LDA #$01\n" +
				"JMP start\n",
			expected: []byte{0xA9, 0x01, 0x4C, 0x00, 0x80},
		},
		{
			name:     "db emits raw bytes",
			source:   ".db $01, $02, $03\n",
			expected: []byte{0x01, 0x02, 0x03},
		},
		{
			name: "backward branch",
			source: "back: NOP\n" +
				"NOP\n" +
				"BNE back\n",
			expected: []byte{0xEA, 0xEA, 0xD0, 0xFC},
		},
		{
			name: "low and high byte masks of a named constant",
			source: "FOO = $1234\n" +
				"LDA #<FOO\n" +
				"LDA #>FOO\n",
			expected: []byte{0xA9, 0x34, 0xA9, 0x12},
		},
		{
			name:     "absolute indexed shrinks to zero page indexed",
			source:   "LDA $0010,X\n",
			expected: []byte{0xB5, 0x10},
		},
		{
			name:     "dw emits little-endian words",
			source:   ".dw $1234\n",
			expected: []byte{0x34, 0x12},
		},
		{
			name:     "implicit instruction has no operand bytes",
			source:   "NOP\n",
			expected: []byte{0xEA},
		},
		{
			name:     "indexed indirect addressing",
			source:   "LDA ($10,X)\n",
			expected: []byte{0xA1, 0x10},
		},
		{
			name:     "indirect indexed addressing",
			source:   "LDA ($10),Y\n",
			expected: []byte{0xB1, 0x10},
		},
		{
			name:     "undefined constant reference",
			source:   "LDA #BAR\n",
			wantErr:  true,
		},
		{
			name:     "duplicate label",
			source:   "foo: NOP\nfoo: NOP\n",
			wantErr:  true,
		},
		{
			name:     "relative branch out of range",
			source:   "far: NOP\n" + rep("NOP\n", 200) + "BNE far\n",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm := NewAssembler()
			result, err := asm.AssembleString(tt.source)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(result.Binary, tt.expected) {
				t.Errorf("got % X, want % X", result.Binary, tt.expected)
			}
		})
	}
}

func rep(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestAssembler_Idempotent(t *testing.T) {
	source := ".org $8000\nstart: LDA #$01\nJMP start\n"
	asm := NewAssembler()
	r1, err := asm.AssembleString(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := asm.AssembleString(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(r1.Binary, r2.Binary) {
		t.Errorf("reassembly produced different output: % X vs % X", r1.Binary, r2.Binary)
	}
}

func TestAssembler_Symbols(t *testing.T) {
	source := "FOO = $1234\nstart: NOP\n"
	asm := NewAssembler()
	result, err := asm.AssembleString(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foo, ok := result.Symbols["FOO"]
	if !ok || foo.Value != 0x1234 || foo.Size != 2 {
		t.Errorf("FOO = %+v, want value 0x1234 size 2", foo)
	}
	start, ok := result.Symbols["start"]
	if !ok || start.Value != 0 || start.Size != 2 {
		t.Errorf("start = %+v, want value 0 size 2", start)
	}
}

func TestAssembler_Listing(t *testing.T) {
	source := "; a comment\nstart: LDA #$01\n.db $02\n"
	asm := NewAssembler()
	result, err := asm.AssembleString(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Comments and label definitions emit no bytes and get no listing
	// line; only the LDA instruction and the .db directive do.
	if len(result.Listing) != 2 {
		t.Fatalf("got %d listing lines, want 2: %+v", len(result.Listing), result.Listing)
	}
	lda := result.Listing[0]
	if lda.Address != 0 || !bytes.Equal(lda.Bytes, []byte{0xA9, 0x01}) || lda.SourceLine != "start: LDA #$01" {
		t.Errorf("listing[0] = %+v", lda)
	}
	db := result.Listing[1]
	if db.Address != 2 || !bytes.Equal(db.Bytes, []byte{0x02}) || db.SourceLine != ".db $02" {
		t.Errorf("listing[1] = %+v", db)
	}
}

func TestAssembler_ErrorUnwraps(t *testing.T) {
	_, err := NewAssembler().AssembleString("FOO = BAR\n")
	if err == nil {
		t.Fatalf("expected an error")
	}
	var asmErr *AssemblerError
	if !errors.As(err, &asmErr) {
		t.Fatalf("expected *AssemblerError, got %T", err)
	}
	if asmErr.Unwrap() == nil {
		t.Errorf("expected a wrapped underlying error, got nil")
	}
}
