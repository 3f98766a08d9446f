package hub

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kelp-lang/kelp/source/database"
)

func newTestHub(t *testing.T) (*Hub, *bytes.Buffer) {
	t.Helper()
	store, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open store error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	var buf bytes.Buffer
	return New(store, &buf), &buf
}

func TestParseHubCommandSplitsVerbAndArgs(t *testing.T) {
	verb, args := ParseHubCommand("load demo")
	if verb != "load" || len(args) != 1 || args[0] != "demo" {
		t.Fatalf("got %q %v", verb, args)
	}
}

func TestLoadRunAndStepACartridge(t *testing.T) {
	h, buf := newTestHub(t)

	path := filepath.Join(t.TempDir(), "demo.kelp")
	if err := os.WriteFile(path, []byte(`(fun update () ((print "ticked")))`), 0o644); err != nil {
		t.Fatalf("write cartridge file: %v", err)
	}

	if !h.Do("load", []string{"demo", path}) {
		t.Fatalf("load should not quit the hub")
	}
	if !strings.Contains(buf.String(), "OK") {
		t.Fatalf("expected OK after load, got %q", buf.String())
	}

	stored, err := h.store.LoadCartridge("demo")
	if err != nil || stored != `(fun update () ((print "ticked")))` {
		t.Fatalf("load should have ingested the file into the store, got %q, %v", stored, err)
	}

	buf.Reset()
	h.Do("run", []string{"demo"})
	if !strings.Contains(buf.String(), "OK") {
		t.Fatalf("expected OK after run, got %q", buf.String())
	}

	d := h.drivers["demo"]
	d.VM().MultiStep(1000)
}

func TestRunConstructsADriverOnDemandFromTheStore(t *testing.T) {
	h, buf := newTestHub(t)
	h.store.SaveCartridge("demo", `(print 1)`)

	if !h.Do("run", []string{"demo"}) {
		t.Fatalf("run should not quit the hub")
	}
	if !strings.Contains(buf.String(), "OK") {
		t.Fatalf("expected OK after run, got %q", buf.String())
	}
	if _, ok := h.drivers["demo"]; !ok {
		t.Fatalf("run should have registered a Driver for demo")
	}
}

func TestStepOnUnknownCartridgeReportsError(t *testing.T) {
	h, buf := newTestHub(t)
	h.Do("step", []string{"nope"})
	if !strings.Contains(buf.String(), "no cartridge named") {
		t.Fatalf("expected 'no cartridge named' error, got %q", buf.String())
	}
}

func TestListShowsLoadedState(t *testing.T) {
	h, buf := newTestHub(t)
	h.store.SaveCartridge("demo", `(print 1)`)
	h.Do("load", []string{"demo"})
	buf.Reset()

	h.Do("list", nil)
	if !strings.Contains(buf.String(), "demo") || !strings.Contains(buf.String(), "paused") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestSaveAsCopiesCartridge(t *testing.T) {
	h, _ := newTestHub(t)
	h.store.SaveCartridge("demo", `(print 1)`)

	h.Do("save-as", []string{"demo", "demo2"})
	got, err := h.store.LoadCartridge("demo2")
	if err != nil || got != `(print 1)` {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestRegisterThenLoginSucceeds(t *testing.T) {
	h, buf := newTestHub(t)

	h.Do("register", []string{"ada", "secret"})
	if !strings.Contains(buf.String(), "OK") {
		t.Fatalf("expected OK after register, got %q", buf.String())
	}

	buf.Reset()
	h.Do("login", []string{"ada", "secret"})
	if !strings.Contains(buf.String(), "OK") {
		t.Fatalf("expected OK after login, got %q", buf.String())
	}
}

func TestLoginWithWrongPasswordFails(t *testing.T) {
	h, buf := newTestHub(t)
	h.Do("register", []string{"ada", "secret"})
	buf.Reset()

	h.Do("login", []string{"ada", "wrong"})
	if strings.Contains(buf.String(), "OK") {
		t.Fatalf("expected login to fail, got %q", buf.String())
	}
}

func TestQuitStopsTheLoop(t *testing.T) {
	h, _ := newTestHub(t)
	if h.Do("quit", nil) {
		t.Fatalf("expected quit to return false")
	}
}
