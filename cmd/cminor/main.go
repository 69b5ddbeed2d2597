// Command cminor runs the Cminor front end over a single translation
// unit: preprocessing, parsing, type resolution, and semantic
// analysis, printing every logged diagnostic.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cminorlang/cminor"
	"github.com/cminorlang/cminor/ascii"
)

type includeDirs []string

func (d *includeDirs) String() string { return strings.Join(*d, ",") }

func (d *includeDirs) Set(v string) error {
	*d = append(*d, v)
	return nil
}

func main() {
	var dirs includeDirs
	input := flag.String("input", "", "path to the translation unit to compile (required)")
	maxErrors := flag.Int("max-errors", 200, "stop emitting diagnostics after this many")
	noColor := flag.Bool("no-color", false, "disable ANSI diagnostic coloring")
	flag.Var(&dirs, "I", "additional include search directory (repeatable)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "cminor: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := cminor.NewConfig()
	cfg.IncludeDirs = dirs
	cfg.SetInt("diagnostics.max_errors", *maxErrors)

	_, diags, err := cminor.Compile(*input, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cminor: %s\n", err)
		os.Exit(1)
	}

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		return diags[i].Line < diags[j].Line
	})

	failed := len(diags) > 0
	if *maxErrors >= 0 && len(diags) > *maxErrors {
		diags = diags[:*maxErrors]
	}
	for _, d := range diags {
		printDiagnostic(d, *noColor)
	}
	if failed {
		os.Exit(1)
	}
}

func printDiagnostic(d cminor.Diagnostic, noColor bool) {
	if noColor {
		fmt.Fprintf(os.Stderr, "%s [%s]\n", d.String(), d.Code)
		return
	}
	theme := ascii.DefaultTheme
	severity := ascii.Color(theme.Error, "%s", d.Severity)
	location := ascii.Color(theme.Muted, "%s:%d", d.Path, d.Line)
	code := ascii.Color(theme.Comment, "[%s]", d.Code)
	fmt.Fprintf(os.Stderr, "%s: %s: %s %s\n", location, severity, d.Message, code)
}
