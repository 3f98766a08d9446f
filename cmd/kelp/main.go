// Command kelp is the CLI and REPL entry point (spec.md §4.14): it prints
// a logo, opens a Hub backed by the cartridge store, and either runs a
// one-shot hub command from os.Args or drops into an interactive
// readline loop — matching the teacher's main.go shape exactly (logo,
// then one-shot-or-REPL dispatch).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelp-lang/kelp/source/database"
	"github.com/kelp-lang/kelp/source/hub"
	"github.com/kelp-lang/kelp/source/repl"
	"github.com/kelp-lang/kelp/source/text"
)

func main() {
	fmt.Print(text.Logo())

	store, err := database.OpenSQLite(storePath())
	if err != nil {
		fmt.Println(text.Red("couldn't open cartridge store: " + err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	h := hub.New(store, os.Stdout)

	if len(os.Args) > 1 {
		h.Do(os.Args[1], os.Args[2:])
		return
	}

	repl.Start(h)
}

func storePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kelp.db"
	}
	dir := filepath.Join(home, ".kelp")
	os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "cartridges.db")
}
