package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroasm/m6502asm/pkg/asm6502"
	"github.com/retroasm/m6502asm/pkg/version"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	verbose     bool
	quiet       bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "m6502asm <input> [<output>]",
	Short: "6502 assembler " + version.GetVersion(),
	Long: `m6502asm - MOS 6502 Assembler
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
Lexer/parser/four-pass resolver/encoder pipeline producing raw
little-endian 6502 machine code.

INPUT:
  A single .asm file, or a directory — directory mode recursively
  assembles every .asm file found to a sibling .bin, ignoring any
  explicit output argument.

OUTPUT:
  If omitted for a single file, the output path is the input path
  with its final extension replaced by .bin (or .bin appended if the
  input has no extension).

EXAMPLES:
  m6502asm program.asm                # assemble to program.bin
  m6502asm program.asm game.rom       # assemble to game.rom
  m6502asm ./src                      # assemble every .asm under ./src
  m6502asm -v program.asm             # verbose: print origin/size/symbols
  m6502asm -q program.asm             # quiet: suppress the success banner`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAssemble,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print origin/size/symbol summary")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the success banner")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version information and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Println(version.GetFullVersion())
		return nil
	}

	input := args[0]

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	if info.IsDir() {
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "Warning: output argument ignored in directory mode\n")
		}
		return assembleDir(input)
	}

	output := outputPath(input)
	if len(args) > 1 {
		output = args[1]
	}
	return assembleFile(input, output)
}

// outputPath derives the sibling .bin path for a single input file: the
// final extension is replaced by .bin, or .bin is appended when there
// is no extension.
func outputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + ".bin"
}

func assembleDir(dir string) error {
	var assembled int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".asm" {
			return nil
		}
		if err := assembleFile(path, outputPath(path)); err != nil {
			return err
		}
		assembled++
		return nil
	})
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("Assembled %d file(s) under %s\n", assembled, dir)
	}
	return nil
}

func assembleFile(input, output string) error {
	asm := asm6502.NewAssembler()
	result, err := asm.AssembleFile(input)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", input, err)
	}

	if err := os.WriteFile(output, result.Binary, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	if !quiet {
		printBanner(input, output)
	}
	if verbose && !quiet {
		printSummary(result)
	}
	return nil
}

// printBanner prints the one-line success message; -q suppresses it.
func printBanner(input, output string) {
	bold := term.IsTerminal(int(os.Stdout.Fd()))
	label := "assembled"
	if bold {
		label = "\x1b[1massembled\x1b[0m"
	}
	fmt.Printf("%s %s -> %s\n", label, input, output)
}

// printSummary prints the origin/size/symbol detail added by -v.
func printSummary(result *asm6502.Result) {
	fmt.Printf("  Origin: $%04X\n", result.Origin)
	fmt.Printf("  Size:   %d bytes ($%04X)\n", result.Size, result.Size)
	fmt.Printf("  Symbols: %d\n", len(result.Symbols))
}
