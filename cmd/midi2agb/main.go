package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"midi2agb/pipeline"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: midi2agb [options] <input.mid> [<output.s>]\n\n")
	flag.PrintDefaults()
	os.Exit(1)
}

// fixSymbol replaces everything outside [A-Za-z0-9_] with '_'; a leading
// digit is replaced too, so the result is a valid assembler symbol.
func fixSymbol(s string) string {
	out := []byte(s)
	for i := range out {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

func outputName(input string) string {
	if strings.HasSuffix(strings.ToLower(input), ".mid") {
		return input[:len(input)-4] + ".s"
	}
	return input + ".s"
}

func main() {
	sym := flag.String("s", "", "symbol name for song header (default: file name)")
	mvl := flag.Int("v", 128, "master volume 0..128")
	vgr := flag.String("g", "voicegroup000", "voicegroup symbol name")
	pri := flag.Int("p", 0, "song priority 0..127")
	rev := flag.Int("r", 0, "song reverb 0..127")
	natural := flag.Bool("n", false, "apply natural volume scale")
	exact := flag.Bool("e", false, "exact note gate time (increases size by a few bytes)")
	debug := flag.Bool("d", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		usage()
	}
	input := args[0]
	output := outputName(input)
	if len(args) == 2 {
		output = args[1]
	}

	symbol := *sym
	if symbol == "" {
		base := input
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[i+1:]
		}
		symbol = strings.TrimSuffix(base, ".mid")
	}
	symbol = fixSymbol(symbol)

	cfg := pipeline.Config{
		Options: pipeline.Options{
			MasterVolume: clampArg(*mvl, 0, 128, "-v"),
			NaturalScale: *natural,
			ExactGate:    *exact,
		},
		Symbol:     symbol,
		Voicegroup: fixSymbol(*vgr),
		Priority:   clampArg(*pri, 0, 127, "-p"),
		Reverb:     clampArg(*rev, 0, 127, "-r"),
	}

	if err := pipeline.Run(input, output, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "midi2agb: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote: %s\n", output)
}

func clampArg(v, lo, hi int, name string) int {
	if v < lo || v > hi {
		fmt.Fprintf(os.Stderr, "%s: parameter %d out of range\n", name, v)
		os.Exit(1)
	}
	return v
}
