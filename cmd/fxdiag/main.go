// Command fxdiag is a thin diagnostic CLI over the fx pricing core: a
// small subcommand dispatcher plus a testable run(args, stdin, stdout,
// stderr) entry point.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/fxcore/dual"
	"github.com/meenmo/fxcore/fx"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "rates":
		return runRates(args[1:], stdin, stdout, stderr)
	case "convert":
		return runConvert(args[1:], stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fxdiag <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  rates    Solve and print the full cross-rate table from a spot rate JSON on stdin")
	fmt.Fprintln(w, "  convert  Convert an amount between two currencies using a spot rate JSON on stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `fxdiag <command> -h` for command-specific help.")
}

// runRates reads a {fx_rates, settlement, base} document, matching
// fx.Rates.ToJSON's format, and prints the solved q x q cross-rate table.
func runRates(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fxdiag rates", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "fxdiag rates: reading stdin: %v\n", err)
		return 1
	}
	rates, err := fx.RatesFromJSON(data)
	if err != nil {
		fmt.Fprintf(stderr, "fxdiag rates: %v\n", err)
		return 1
	}

	ccys := rates.Currencies()
	table := rates.RatesTable()
	fmt.Fprintf(stdout, "base: %s\n", rates.Base())
	fmt.Fprint(stdout, "      ")
	for _, c := range ccys {
		fmt.Fprintf(stdout, "%10s", c)
	}
	fmt.Fprintln(stdout)
	for i, row := range table {
		fmt.Fprintf(stdout, "%-6s", ccys[i])
		for _, v := range row {
			fmt.Fprintf(stdout, "%10.6f", v)
		}
		fmt.Fprintln(stdout)
	}
	return 0
}

type convertResult struct {
	Domestic string  `json:"domestic"`
	Foreign  string  `json:"foreign"`
	Amount   float64 `json:"amount"`
	Result   float64 `json:"result"`
}

// runConvert reads the same rates document as "rates" and prints the
// converted amount for --domestic/--foreign/--amount.
func runConvert(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fxdiag convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	domestic := fs.String("domestic", "", "domestic currency code")
	foreign := fs.String("foreign", "", "foreign currency code (defaults to the rates document's base)")
	amount := fs.Float64("amount", 0, "amount of domestic currency to convert")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *domestic == "" {
		fmt.Fprintln(stderr, "fxdiag convert: --domestic is required")
		return 2
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "fxdiag convert: reading stdin: %v\n", err)
		return 1
	}
	rates, err := fx.RatesFromJSON(data)
	if err != nil {
		fmt.Fprintf(stderr, "fxdiag convert: %v\n", err)
		return 1
	}

	converted, err := rates.Convert(dual.NewConstant(*amount), *domestic, *foreign, fx.OnErrorRaise)
	if err != nil {
		fmt.Fprintf(stderr, "fxdiag convert: %v\n", err)
		return 1
	}
	out := convertResult{Domestic: strings.ToLower(*domestic), Foreign: strings.ToLower(*foreign), Amount: *amount, Result: converted.Value()}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "fxdiag convert: %v\n", err)
		return 1
	}
	return 0
}
