// Package hub implements the session manager spec.md's driver model
// needs once more than one cartridge can be loaded: a map of named
// Drivers plus the cartridge store, dispatching a small set of verbs
// parsed from a command line.
//
// Grounded on the teacher's source/hub/hub.go (a Hub struct holding a
// map of named services plus a *sql.DB, and a big verb switch in
// DoHubCommand) and source/hub/repl.go. Unlike the teacher's hub, Kelp's
// hub never persists bytecode or VM memory — only source text and
// save-state (spec.md §4.12's non-goal on persistent compilation
// output).
package hub

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/kelp-lang/kelp/source/database"
	"github.com/kelp-lang/kelp/source/driver"
	"github.com/kelp-lang/kelp/source/game"
	"github.com/kelp-lang/kelp/source/text"
	"github.com/kelp-lang/kelp/source/vm"
)

// Hub owns zero or more running Drivers, one per loaded cartridge, plus
// the cartridge store they all share.
type Hub struct {
	store   *database.Store
	drivers map[string]*driver.Driver
	out     io.Writer
}

// New returns a Hub writing output to out and persisting cartridges
// through store.
func New(store *database.Store, out io.Writer) *Hub {
	return &Hub{store: store, drivers: make(map[string]*driver.Driver), out: out}
}

func (h *Hub) WriteString(s string) {
	fmt.Fprint(h.out, s)
}

func (h *Hub) WriteError(s string) {
	fmt.Fprint(h.out, text.Red(s)+"\n")
}

// ParseHubCommand splits a line into a verb and its arguments, exactly
// as the teacher's hub does before dispatching — a hub command line is
// always `<verb> <args...>`.
func ParseHubCommand(line string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// Do dispatches one verb/args pair, writing its result (or error) to the
// hub's out. It reports whether the hub should keep running — only
// `quit`/`exit` returns false.
func (h *Hub) Do(verb string, args []string) bool {
	var err error
	switch verb {
	case "load":
		err = h.load(args)
	case "run":
		err = h.run(args)
	case "step":
		err = h.step(args)
	case "pause":
		err = h.pause(args)
	case "stop":
		err = h.stop(args)
	case "list":
		err = h.list()
	case "save-as":
		err = h.saveAs(args)
	case "register":
		err = h.register(args)
	case "login":
		err = h.login(args)
	case "quit", "exit":
		return false
	case "":
		return true
	default:
		err = errors.New("unknown hub command '" + verb + "'")
	}
	if err != nil {
		h.WriteError(err.Error())
	}
	return true
}

// load ingests a cartridge into a live Driver. With one argument it
// instantiates an already-stored cartridge; with two, it first reads
// file and persists its contents under name via SaveCartridge, so
// `load <name> <file.kelp>` (the CLI's ingestion path) populates the
// store for any fresh user before ever constructing a VM.
func (h *Hub) load(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: load <cartridge> [file.kelp]")
	}
	name := args[0]

	if len(args) == 2 {
		src, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		if err := h.store.SaveCartridge(name, string(src)); err != nil {
			return err
		}
	}

	if _, err := h.newDriver(name); err != nil {
		return err
	}
	h.WriteString(text.OK + "\n")
	return nil
}

// newDriver loads name's source from the store, compiles it into a fresh
// VM, and registers the resulting Driver, so a cartridge that was loaded
// (or saved-as) in an earlier process can be run with a single `run
// <cartridge>` invocation, not just from the session that loaded it.
func (h *Hub) newDriver(name string) (*driver.Driver, error) {
	source, err := h.store.LoadCartridge(name)
	if err != nil {
		return nil, err
	}

	v := vm.New()
	v.SetConsole(func(line string) { h.WriteString(line + "\n") })
	rec := game.NewRecorder()
	v.AddLibrary("game", game.New(name, h.store, rec))
	if err := v.Load(source); err != nil {
		return nil, err
	}

	d := driver.New(v, driver.NewRealTicker())
	h.drivers[name] = d
	return d, nil
}

func (h *Hub) run(args []string) error {
	d, err := h.get(args)
	if err != nil {
		return err
	}
	d.Run()
	h.WriteString(text.OK + "\n")
	return nil
}

func (h *Hub) step(args []string) error {
	d, err := h.get(args)
	if err != nil {
		return err
	}
	d.VM().MultiStep(1)
	h.WriteString(text.OK + "\n")
	return nil
}

func (h *Hub) pause(args []string) error {
	d, err := h.get(args)
	if err != nil {
		return err
	}
	d.Pause()
	h.WriteString(text.OK + "\n")
	return nil
}

func (h *Hub) stop(args []string) error {
	d, err := h.get(args)
	if err != nil {
		return err
	}
	d.Stop()
	delete(h.drivers, args[0])
	h.WriteString(text.OK + "\n")
	return nil
}

func (h *Hub) list() error {
	names, err := h.store.ListCartridges()
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		state := "not loaded"
		if d, ok := h.drivers[name]; ok {
			state = d.VM().State().String()
		}
		h.WriteString(text.BULLET + name + " (" + state + ")\n")
	}
	return nil
}

func (h *Hub) saveAs(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: save-as <cartridge> <new-name>")
	}
	if err := h.store.SaveAs(args[0], args[1]); err != nil {
		return err
	}
	h.WriteString(text.OK + "\n")
	return nil
}

// get returns the named cartridge's Driver, constructing one on demand
// from the store if this process hasn't loaded it yet — so a one-shot
// `kelp run <cartridge>` invocation works without a prior `load` in the
// same process, and only fails if the cartridge was never saved at all.
func (h *Hub) get(args []string) (*driver.Driver, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: <verb> <cartridge>")
	}
	if d, ok := h.drivers[args[0]]; ok {
		return d, nil
	}
	return h.newDriver(args[0])
}

// register adds a new hub account, gating later logins behind a
// bcrypt-hashed password (database.Store.AddAccount).
func (h *Hub) register(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: register <username> <password>")
	}
	if err := h.store.AddAccount(args[0], args[1]); err != nil {
		return err
	}
	h.WriteString(text.OK + "\n")
	return nil
}

// login validates a username/password pair against the accounts table
// (database.Store.ValidateAccount), without itself changing any Driver
// state — the multi-tenant gate spec.md's accounts table exists for.
func (h *Hub) login(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <username> <password>")
	}
	if err := h.store.ValidateAccount(args[0], args[1]); err != nil {
		return err
	}
	h.WriteString(text.OK + "\n")
	return nil
}
