package env

import (
	"testing"

	"github.com/kelp-lang/kelp/source/value"
)

func TestSetAndGet(t *testing.T) {
	e := New()
	if e.Has("x") {
		t.Fatal("should not have x yet")
	}
	e.Set("x", value.Number(1))
	if !e.Has("x") {
		t.Fatal("should have x")
	}
	if e.Get("x").AsNumber() != 1 {
		t.Fatalf("got %v", e.Get("x"))
	}
}

func TestGetAbsentIsUndefined(t *testing.T) {
	e := New()
	v := e.Get("nope")
	if v.Kind != value.KindUndefined {
		t.Fatalf("got %v", v)
	}
}

func TestInsertionOrderPreservedAcrossOverwrite(t *testing.T) {
	e := New()
	e.Set("a", value.Number(1))
	e.Set("b", value.Number(2))
	e.Set("a", value.Number(99)) // overwrite, should not move position
	names := e.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("got %v", names)
	}
	if e.Get("a").AsNumber() != 99 {
		t.Fatalf("got %v", e.Get("a"))
	}
}

func TestMergeFrom(t *testing.T) {
	lib := New()
	lib.Set("pi", value.Number(3))
	lib.Set("e", value.Number(2))

	dest := New()
	dest.Set("pi", value.Number(0)) // pre-existing binding should be overwritten, not duplicated
	dest.MergeFrom(lib)

	if dest.Get("pi").AsNumber() != 3 {
		t.Fatalf("got %v", dest.Get("pi"))
	}
	if dest.Get("e").AsNumber() != 2 {
		t.Fatalf("got %v", dest.Get("e"))
	}
	names := dest.Names()
	if len(names) != 2 {
		t.Fatalf("got %v", names)
	}
}
