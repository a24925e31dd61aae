package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/palette"
)

// frameSource hands the grid module the frame being drawn, or nil outside
// draw().
type frameSource func() *grid.Frame

// registerGrid installs the global "grid" module.
func registerGrid(s *State, frame frameSource) {
	withFrame := func(fn func(L *lua.LState, f *grid.Frame) int) lua.LGFunction {
		return func(L *lua.LState) int {
			f := frame()
			if !f.Active() {
				L.RaiseError("%s", ErrNoFrame.Error())
				return 0
			}
			return fn(L, f)
		}
	}

	mod := s.RegisterModule("grid", map[string]lua.LGFunction{
		"width": withFrame(func(L *lua.LState, f *grid.Frame) int {
			L.Push(lua.LNumber(f.Width()))
			return 1
		}),
		"height": withFrame(func(L *lua.LState, f *grid.Frame) int {
			L.Push(lua.LNumber(f.Height()))
			return 1
		}),
		"clear": withFrame(func(L *lua.LState, f *grid.Frame) int {
			f.Clear(checkColour(L, 1, whiteInk), checkColour(L, 2, blackPaper))
			return 0
		}),
		"char": withFrame(func(L *lua.LState, f *grid.Frame) int {
			p := grid.Pt(L.CheckInt(1), L.CheckInt(2))
			f.DrawChar(p, checkCell(L, 3))
			return 0
		}),
		"print": withFrame(func(L *lua.LState, f *grid.Frame) int {
			p := grid.Pt(L.CheckInt(1), L.CheckInt(2))
			f.DrawString(p, L.CheckString(3), checkColour(L, 4, whiteInk), checkColour(L, 5, blackPaper))
			return 0
		}),
		"rect": withFrame(func(L *lua.LState, f *grid.Frame) int {
			p := grid.Pt(L.CheckInt(1), L.CheckInt(2))
			f.DrawRect(p, L.CheckInt(3), L.CheckInt(4), checkCell(L, 5))
			return 0
		}),
		"fill": withFrame(func(L *lua.LState, f *grid.Frame) int {
			p := grid.Pt(L.CheckInt(1), L.CheckInt(2))
			f.DrawRectFilled(p, L.CheckInt(3), L.CheckInt(4), checkCell(L, 5))
			return 0
		}),
		"get": withFrame(func(L *lua.LState, f *grid.Frame) int {
			c, ok := f.At(L.CheckInt(1), L.CheckInt(2))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(c.Code))
			L.Push(lua.LNumber(c.Ink))
			L.Push(lua.LNumber(c.Paper))
			return 3
		}),
		"rgb": func(L *lua.LState) int {
			L.Push(lua.LNumber(palette.Pack(checkByte(L, 1), checkByte(L, 2), checkByte(L, 3))))
			return 1
		},
		"colour": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkColour(L, 1, 0)))
			return 1
		},
		"blend": func(L *lua.LState) int {
			a := checkColour(L, 1, 0)
			b := checkColour(L, 2, 0)
			L.Push(lua.LNumber(palette.Blend(a, b, float64(L.CheckNumber(3)))))
			return 1
		},
		"gradient": func(L *lua.LState) int {
			a := checkColour(L, 1, 0)
			b := checkColour(L, 2, 0)
			n := L.CheckInt(3)
			if n < 0 || n > maxGradient {
				L.ArgError(3, "gradient length out of range")
			}
			t := L.CreateTable(n, 0)
			for _, c := range palette.Gradient(a, b, n) {
				t.Append(lua.LNumber(c))
			}
			L.Push(t)
			return 1
		},
	})

	for c := palette.Black; c <= palette.White; c++ {
		mod.RawSetString(strings.ToUpper(c.String()), lua.LNumber(c.Packed()))
	}
}

// maxGradient bounds the table a script can ask grid.gradient for.
const maxGradient = 4096

var (
	whiteInk   = palette.White.Packed()
	blackPaper = palette.Black.Packed()
)

// checkColour accepts a packed number, a colour name or a "#rrggbb" string.
// A missing argument yields def.
func checkColour(L *lua.LState, n int, def uint32) uint32 {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		return uint32(int64(v))
	case lua.LString:
		c, err := palette.Parse(string(v))
		if err != nil {
			L.ArgError(n, err.Error())
		}
		return c
	default:
		if v == lua.LNil {
			return def
		}
		L.TypeError(n, lua.LTNumber)
		return 0
	}
}

// checkCell reads (ch, ink, paper) starting at argument n. ch is a glyph
// code or a one-character string.
func checkCell(L *lua.LState, n int) grid.Cell {
	var code byte
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		code = byte(int64(v))
	case lua.LString:
		glyphs := grid.Encode(string(v))
		if len(glyphs) == 0 {
			L.ArgError(n, "empty character")
		}
		code = glyphs[0]
	default:
		L.TypeError(n, lua.LTString)
	}
	return grid.NewCell(code, checkColour(L, n+1, whiteInk), checkColour(L, n+2, blackPaper))
}

func checkByte(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
