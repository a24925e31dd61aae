// Package script runs gridterm programs written in Lua.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. The global grid module draws into the frame
// during draw():
//
//	grid.width(), grid.height()
//	grid.clear([ink], [paper])
//	grid.char(x, y, ch, [ink], [paper])
//	grid.print(x, y, text, [ink], [paper])
//	grid.rect(x, y, w, h, ch, [ink], [paper])
//	grid.fill(x, y, w, h, ch, [ink], [paper])
//	grid.get(x, y)                   -- code, ink, paper or nil
//	grid.rgb(r, g, b), grid.colour(name_or_hex), grid.blend(a, b, t)
//	grid.BLACK .. grid.WHITE
//
// Colours are packed numbers, colour names or "#rrggbb" strings. Characters
// are glyph codes or one-character strings encoded to code page 437.
package script
