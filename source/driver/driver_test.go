package driver

import (
	"testing"
	"time"

	"github.com/kelp-lang/kelp/source/vm"
)

func TestFakeTickerScheduleFireCancel(t *testing.T) {
	ft := NewFakeTicker()
	calls := 0
	h := ft.Schedule(time.Millisecond, func() { calls++ })

	ft.Fire(h)
	ft.Fire(h)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}

	ft.Cancel(h)
	ft.Fire(h)
	if calls != 2 {
		t.Fatalf("fire after cancel should be a no-op, got %d calls", calls)
	}
}

func TestDriverRunSchedulesExactlyOneUpdateAndOneDrawTick(t *testing.T) {
	v := vm.New()
	if err := v.Load(`(let x 0)`); err != nil {
		t.Fatalf("load error: %v", err)
	}
	ft := NewFakeTicker()
	d := New(v, ft)
	d.Run()

	if ft.Scheduled() != 2 {
		t.Fatalf("expected 2 scheduled ticks, got %d", ft.Scheduled())
	}
}

func TestDriverUpdateTickStepsVMAndRunsUserUpdate(t *testing.T) {
	v := vm.New()
	var lines []string
	v.SetConsole(func(s string) { lines = append(lines, s) })
	src := `(let n 0) (fun update () ((+= n 1) (print n)))`
	if err := v.Load(src); err != nil {
		t.Fatalf("load error: %v", err)
	}
	ft := NewFakeTicker()
	d := New(v, ft)
	d.Run()

	ft.Fire(d.update)

	if len(lines) == 0 {
		t.Fatalf("expected update() to have run at least once, got no output")
	}
}

func TestDriverDrawTickOnlyTakesEffectOnNextUpdateBatch(t *testing.T) {
	v := vm.New()
	var lines []string
	v.SetConsole(func(s string) { lines = append(lines, s) })
	src := `(fun draw () ((print "drawn")))`
	if err := v.Load(src); err != nil {
		t.Fatalf("load error: %v", err)
	}
	ft := NewFakeTicker()
	d := New(v, ft)
	d.Run()

	ft.Fire(d.draw)
	if len(lines) != 0 {
		t.Fatalf("draw tick alone should not step the VM, got %v", lines)
	}

	ft.Fire(d.update)
	found := false
	for _, l := range lines {
		if l == "drawn" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected draw() to run once the update batch noticed needs_draw, got %v", lines)
	}
}

func TestPauseCancelsTicksWithoutStoppingVM(t *testing.T) {
	v := vm.New()
	if err := v.Load(`(let x 0)`); err != nil {
		t.Fatalf("load error: %v", err)
	}
	ft := NewFakeTicker()
	d := New(v, ft)
	d.Run()
	d.Pause()

	if ft.Scheduled() != 0 {
		t.Fatalf("expected both ticks canceled, got %d still scheduled", ft.Scheduled())
	}
	if v.State() != vm.Paused {
		t.Fatalf("expected Paused, got %v", v.State())
	}
}

func TestStopCancelsTicksAndStopsVM(t *testing.T) {
	v := vm.New()
	if err := v.Load(`(let x 0)`); err != nil {
		t.Fatalf("load error: %v", err)
	}
	ft := NewFakeTicker()
	d := New(v, ft)
	d.Run()
	d.Stop()

	if ft.Scheduled() != 0 {
		t.Fatalf("expected both ticks canceled, got %d still scheduled", ft.Scheduled())
	}
	if v.State() != vm.Stopped {
		t.Fatalf("expected Stopped, got %v", v.State())
	}
}
