package game

import (
	"testing"

	"github.com/kelp-lang/kelp/source/value"
)

type fakeStore struct {
	data map[string]value.Value
}

func newFakeStore() *fakeStore { return &fakeStore{data: make(map[string]value.Value)} }

func (f *fakeStore) SetSave(cartridge, key string, v value.Value) error {
	f.data[cartridge+"/"+key] = v
	return nil
}

func (f *fakeStore) GetSave(cartridge, key string) (value.Value, bool, error) {
	v, ok := f.data[cartridge+"/"+key]
	return v, ok, nil
}

func TestDrawRectAndDrawTextAppendCommands(t *testing.T) {
	rec := NewRecorder()
	lib := New("cart", nil, rec)

	lib.Get("fill_color").Call([]value.Value{value.Number(1), value.Number(2), value.Number(3)})
	lib.Get("draw_rect").Call([]value.Value{value.Number(1), value.Number(2), value.Number(10), value.Number(20)})
	lib.Get("draw_text").Call([]value.Value{value.Number(5), value.Number(6), value.String("hi")})

	if len(rec.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(rec.Commands))
	}
	if rec.Commands[0].Kind != "rect" || rec.Commands[0].W != 10 {
		t.Fatalf("bad rect command: %+v", rec.Commands[0])
	}
	if rec.Commands[1].Kind != "text" || rec.Commands[1].Text != "hi" {
		t.Fatalf("bad text command: %+v", rec.Commands[1])
	}
}

func TestClearEmptiesCommands(t *testing.T) {
	rec := NewRecorder()
	lib := New("cart", nil, rec)
	lib.Get("draw_rect").Call([]value.Value{value.Number(0), value.Number(0), value.Number(1), value.Number(1)})
	lib.Get("clear").Call(nil)
	if len(rec.Commands) != 0 {
		t.Fatalf("expected empty commands after clear, got %d", len(rec.Commands))
	}
}

func TestIsKeyPressedReadsHostWrittenState(t *testing.T) {
	rec := NewRecorder()
	lib := New("cart", nil, rec)
	if lib.Get("is_key_pressed").Call([]value.Value{value.String("ArrowUp")}).AsBool() {
		t.Fatalf("expected ArrowUp unpressed before host sets it")
	}
	rec.SetKey("ArrowUp", true)
	if !lib.Get("is_key_pressed").Call([]value.Value{value.String("ArrowUp")}).AsBool() {
		t.Fatalf("expected ArrowUp pressed after host sets it")
	}
}

func TestSaveLoadRoundTripsThroughStore(t *testing.T) {
	rec := NewRecorder()
	store := newFakeStore()
	lib := New("mycart", store, rec)

	result := lib.Get("save").Call([]value.Value{value.String("score"), value.Number(42)})
	if result.IsError() {
		t.Fatalf("save errored: %v", result)
	}
	loaded := lib.Get("load").Call([]value.Value{value.String("score")})
	if loaded.Kind != value.KindNumber || loaded.AsNumber() != 42 {
		t.Fatalf("got %v", loaded)
	}
}

func TestLoadMissingKeyReturnsUndefined(t *testing.T) {
	rec := NewRecorder()
	store := newFakeStore()
	lib := New("mycart", store, rec)
	loaded := lib.Get("load").Call([]value.Value{value.String("nope")})
	if loaded.Kind != value.KindUndefined {
		t.Fatalf("expected undefined, got %v", loaded)
	}
}

func TestSaveWithoutStoreReturnsError(t *testing.T) {
	rec := NewRecorder()
	lib := New("cart", nil, rec)
	result := lib.Get("save").Call([]value.Value{value.String("k"), value.Number(1)})
	if !result.IsError() {
		t.Fatalf("expected error, got %v", result)
	}
}
