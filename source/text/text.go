// Package text holds the small set of ANSI-coloring helpers the CLI, REPL,
// and Hub use to format output. The core toolchain (lexer through VM)
// never imports this package — the only text it ever emits is through
// the `print` builtin (spec.md §6).
//
// Grounded on the teacher's source/text/text.go, trimmed to the handful
// of helpers an interactive hub/REPL actually needs.
package text

import "strings"

const (
	VERSION = "0.1.0"
	BULLET  = "  ▪ "
	PROMPT  = "→ "
)

var (
	RESET = "\033[0m"
	RED   = "\033[31m"
	GREEN = "\033[32m"
	CYAN  = "\033[36m"

	OK = Green("OK")
)

func Red(s string) string   { return RED + s + RESET }
func Green(s string) string { return GREEN + s + RESET }
func Cyan(s string) string  { return CYAN + s + RESET }

// Emph wraps s the way the hub quotes a cartridge or identifier name in
// its messages.
func Emph(s string) string { return "'" + s + "'" }

// Logo is printed once at startup by cmd/kelp/main.go.
func Logo() string {
	titleText := " Kelp version " + VERSION + " "
	bar := strings.Repeat("═", len(titleText)/2)
	heart := Red("♥")
	return "\n" +
		"  ╔" + bar + heart + bar + "╗\n" +
		"  ║" + titleText + "║\n" +
		"  ╚" + bar + heart + bar + "╝\n\n"
}
