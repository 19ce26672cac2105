package asm6502

import "testing"

func TestLex(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    []TokenKind
		wantErr bool
	}{
		{
			name:   "mnemonic and immediate literal",
			source: "LDA #$05",
			want:   []TokenKind{TokMnemonic, TokPound, TokHexWord},
		},
		{
			name:   "directive with comma-separated params",
			source: ".db $01, $02",
			want:   []TokenKind{TokDirective, TokHexWord, TokComma, TokHexWord},
		},
		{
			name:   "hex widths are widest-first",
			source: "$12 $1234 $123456",
			want:   []TokenKind{TokHexWord, TokHexDWord, TokHexQWord},
		},
		{
			name:   "binary literal widths",
			source: "%00000001 %0000000000000010",
			want:   []TokenKind{TokBinWord, TokBinDWord},
		},
		{
			name:   "label definition",
			source: "start:",
			want:   []TokenKind{TokIdentifier, TokColon},
		},
		{
			name:   "comment-only line yields a single comment token",
			source: "; a comment",
			want:   []TokenKind{TokComment},
		},
		{
			name:   "trailing comment is dropped, not tokenized",
			source: "NOP ; does nothing",
			want:   []TokenKind{TokMnemonic},
		},
		{
			name:   "index registers are case-insensitive",
			source: "$10,x $10,Y",
			want:   []TokenKind{TokHexWord, TokComma, TokX, TokHexWord, TokComma, TokY},
		},
		{
			name:   "masks",
			source: "<FOO >FOO",
			want:   []TokenKind{TokLessThan, TokIdentifier, TokGreaterThan, TokIdentifier},
		},
		{
			name:    "unknown character",
			source:  "@weird",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := Lex(tt.source)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(lines) != 1 {
				t.Fatalf("expected 1 line, got %d", len(lines))
			}
			got := lines[0]
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d (%v)", len(got), len(tt.want), got)
			}
			for i, k := range tt.want {
				if got[i].Kind != k {
					t.Errorf("token %d: got %s, want %s", i, got[i].Kind, k)
				}
			}
		})
	}
}

func TestLex_BlankLinesDropped(t *testing.T) {
	lines, err := Lex("NOP\n\n\nNOP\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 non-blank lines, got %d", len(lines))
	}
}

func TestLex_MnemonicBoundary(t *testing.T) {
	// "ADCX" is not the mnemonic ADC followed by X; it's one longer
	// identifier and must not be split.
	lines, err := Lex("ADCX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines[0]) != 1 || lines[0][0].Kind != TokIdentifier {
		t.Errorf("got %v, want a single Identifier token", lines[0])
	}
}
