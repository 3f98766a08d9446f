// Package game implements the §6 game library contract as a Library
// (spec.md §4.7: an Env of NativeFunctions) backed by an in-memory
// draw-command recorder and key-state map, so a host can swap in a real
// canvas while tests and the CLI drive the Recorder directly.
package game

import (
	"github.com/kelp-lang/kelp/source/env"
	"github.com/kelp-lang/kelp/source/value"
)

// Color is an RGB fill color set by fill_color.
type Color struct {
	R, G, B float64
}

// Font is the font state set by set_font_size/family/style.
type Font struct {
	Size   float64
	Family string
	Style  string
}

// DrawCommand is one recorded draw_rect or draw_text call, stamped with
// the fill color/font state in effect when it was issued.
type DrawCommand struct {
	Kind     string // "rect" or "text"
	X, Y     float64
	W, H     float64
	Text     string
	Color    Color
	ColorCSS string
	Font     Font
}

// Recorder is the host-independent backing store for one cartridge's
// game library calls. clear() truncates Commands; is_key_pressed only
// reads Keys, which the host writes from real input events (spec.md §5:
// "the VM reads (never writes) this map").
type Recorder struct {
	Commands []DrawCommand
	Keys     map[string]bool

	fill    Color
	fillCSS string
	font    Font
}

// NewRecorder returns an empty Recorder with no pending draw commands or
// pressed keys.
func NewRecorder() *Recorder {
	return &Recorder{Keys: make(map[string]bool)}
}

// SetKey records a key-state transition. Called by the host, never by
// Kelp code.
func (r *Recorder) SetKey(code string, pressed bool) {
	r.Keys[code] = pressed
}

// SaveStore is the persistence backend save/load defer to. The cartridge
// store (database.Store in source/database) satisfies this.
type SaveStore interface {
	SetSave(cartridge, key string, v value.Value) error
	GetSave(cartridge, key string) (value.Value, bool, error)
}

// New returns the game Library for one cartridge: the draw/input natives
// record into rec, and save/load read and write store under cartridge's
// name. store may be nil, in which case save/load return an Error.
func New(cartridge string, store SaveStore, rec *Recorder) *env.Environment {
	lib := env.New()

	def := func(name string, arity int, fn func(args []value.Value) value.Value) {
		lib.Set(name, value.Native(&value.NativeFunction{Name: name, Arity: arity, Fn: fn}))
	}

	def("fill_color", 3, func(args []value.Value) value.Value {
		rec.fill = Color{R: args[0].AsNumber(), G: args[1].AsNumber(), B: args[2].AsNumber()}
		rec.fillCSS = ""
		return value.Undefined
	})

	def("fill_color_css", 1, func(args []value.Value) value.Value {
		rec.fillCSS = args[0].AsString()
		return value.Undefined
	})

	def("draw_rect", 4, func(args []value.Value) value.Value {
		rec.Commands = append(rec.Commands, DrawCommand{
			Kind:     "rect",
			X:        args[0].AsNumber(),
			Y:        args[1].AsNumber(),
			W:        args[2].AsNumber(),
			H:        args[3].AsNumber(),
			Color:    rec.fill,
			ColorCSS: rec.fillCSS,
		})
		return value.Undefined
	})

	def("draw_text", 3, func(args []value.Value) value.Value {
		rec.Commands = append(rec.Commands, DrawCommand{
			Kind:     "text",
			X:        args[0].AsNumber(),
			Y:        args[1].AsNumber(),
			Text:     args[2].AsString(),
			Color:    rec.fill,
			ColorCSS: rec.fillCSS,
			Font:     rec.font,
		})
		return value.Undefined
	})

	def("set_font_size", 1, func(args []value.Value) value.Value {
		rec.font.Size = args[0].AsNumber()
		return value.Undefined
	})

	def("set_font_family", 1, func(args []value.Value) value.Value {
		rec.font.Family = args[0].AsString()
		return value.Undefined
	})

	def("set_font_style", 1, func(args []value.Value) value.Value {
		rec.font.Style = args[0].AsString()
		return value.Undefined
	})

	def("clear", 0, func(args []value.Value) value.Value {
		rec.Commands = rec.Commands[:0]
		return value.Undefined
	})

	def("is_key_pressed", 1, func(args []value.Value) value.Value {
		return value.Bool(rec.Keys[args[0].AsString()])
	})

	def("save", 2, func(args []value.Value) value.Value {
		if store == nil {
			return value.Err("save: no cartridge store configured")
		}
		if err := store.SetSave(cartridge, args[0].AsString(), args[1]); err != nil {
			return value.Err("save: " + err.Error())
		}
		return value.Undefined
	})

	def("load", 1, func(args []value.Value) value.Value {
		if store == nil {
			return value.Err("load: no cartridge store configured")
		}
		v, ok, err := store.GetSave(cartridge, args[0].AsString())
		if err != nil {
			return value.Err("load: " + err.Error())
		}
		if !ok {
			return value.Undefined
		}
		return v
	})

	return lib
}
