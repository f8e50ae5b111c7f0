package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
)

// out and errOut are the sinks every print helper writes to. Tests
// swap them for buffers (see captureOutput); everything else leaves
// them alone.
var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "nxbin",
	Short: "Inspect and convert BYML, AAMP, SARC, and Yaz0 files",
	Long: `nxbin reads, writes, and round-trips the binary container and
parameter formats used by first-party Nintendo EAD/EPD titles: BYML
(tagged-tree documents), AAMP (parameter archives), SARC (name-hashed
file archives), and Yaz0 (LZ-style compression).`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// ANSI styles used by the dump and list commands: file and key names
// in cyan, AAMP structure names in yellow. Binary dumps are dense, and
// a little color is the difference between skimmable and not.
const (
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// colorize wraps s in an ANSI style unless --no-color is set. JSON
// output never goes through here, so it stays machine-readable.
func colorize(style, s string) string {
	if noColor {
		return s
	}
	return style + s + ansiReset
}

// printInfo prints an info message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(out, format, args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(errOut, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(out, format, args...)
	}
}

// printJSON outputs data as JSON.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
