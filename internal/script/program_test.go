package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/gridterm/internal/app"
	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/palette"
	"github.com/dshills/gridterm/internal/renderer/backend"
)

func writeScript(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "main.lua")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func load(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Load(writeScript(t, t.TempDir(), src))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

// draw runs one Draw into a fresh w x h image.
func draw(p *Program, w, h int) (app.DrawResult, *grid.Image) {
	img := grid.New(w, h)
	f := grid.NewFrame(img)
	res := p.Draw(f)
	f.Release()
	return res, img
}

func TestLoad_SyntaxError(t *testing.T) {
	path := writeScript(t, t.TempDir(), "function (")
	_, err := Load(path)
	var serr *ScriptError
	if !errors.As(err, &serr) || serr.Path != path {
		t.Errorf("Load error = %v, want ScriptError for %s", err, path)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.lua")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestProgram_EmptyScript(t *testing.T) {
	p := load(t, "-- nothing")

	if res := p.Update(app.TickInput{}); res != app.Continue {
		t.Errorf("Update() = %v, want continue", res)
	}
	if res, _ := draw(p, 4, 4); res != app.NoChanges {
		t.Errorf("Draw() = %v, want no changes", res)
	}
}

func TestProgram_UpdateResults(t *testing.T) {
	tests := []struct {
		name string
		ret  string
		want app.TickResult
	}{
		{"nil", "nil", app.Continue},
		{"true", "true", app.Continue},
		{"false", "false", app.Stop},
		{"stop", `"stop"`, app.Stop},
		{"other string", `"go"`, app.Continue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := load(t, "function update(input) return "+tt.ret+" end")
			if got := p.Update(app.TickInput{}); got != tt.want {
				t.Errorf("Update() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgram_InputTable(t *testing.T) {
	p := load(t, `
seen = {}
function update(input)
	seen.dt = input.dt
	seen.size = input.width .. "x" .. input.height
	seen.key = input.key.name
	seen.char = input.key.char
	seen.shift = input.key.shift
	seen.mouse = input.mouse ~= nil
	if input.mouse then seen.mx = input.mouse.x end
end
function draw()
	if seen.key == "rune" and seen.char == "q" and seen.shift and seen.size == "20x10" and seen.mx == 3 then
		grid.char(0, 0, "Y")
	end
	return true
end
`)

	p.Update(app.TickInput{
		DT:     500 * time.Millisecond,
		Width:  20,
		Height: 10,
		Key:    app.KeyState{Pressed: true, Shift: true, Key: backend.KeyRune, Char: 'q'},
		Mouse:  &app.MouseState{X: 3, Y: 1},
	})
	res, img := draw(p, 4, 2)
	if res != app.Changed {
		t.Errorf("Draw() = %v, want changed", res)
	}
	if c, _ := img.At(0, 0); c.Code != 'Y' {
		t.Errorf("script did not see the expected input, cell = %+v", c)
	}
}

func TestProgram_GridAPI(t *testing.T) {
	p := load(t, `
function draw()
	grid.clear(grid.WHITE, grid.BLUE)
	grid.print(1, 0, "hi", "red")
	grid.char(0, 1, 65, grid.rgb(1, 2, 3), "#000000")
	grid.fill(2, 1, 2, 1, "#", grid.GREEN, grid.BLACK)
	local code = grid.get(1, 0)
	if code == string.byte("h") and grid.width() == 4 and grid.height() == 2 then
		grid.char(3, 0, "!")
	end
	return true
end
`)

	_, img := draw(p, 4, 2)

	tests := []struct {
		x, y int
		want grid.Cell
	}{
		{0, 0, grid.NewCell(' ', palette.White.Packed(), palette.Blue.Packed())},
		{1, 0, grid.NewCell('h', palette.Red.Packed(), palette.Black.Packed())},
		{2, 0, grid.NewCell('i', palette.Red.Packed(), palette.Black.Packed())},
		{3, 0, grid.NewCell('!', palette.White.Packed(), palette.Black.Packed())},
		{0, 1, grid.NewCell('A', palette.Pack(1, 2, 3), palette.Pack(0, 0, 0))},
		{2, 1, grid.NewCell('#', palette.Green.Packed(), palette.Black.Packed())},
		{3, 1, grid.NewCell('#', palette.Green.Packed(), palette.Black.Packed())},
	}
	for _, tt := range tests {
		if c, _ := img.At(tt.x, tt.y); c != tt.want {
			t.Errorf("cell (%d, %d) = %+v, want %+v", tt.x, tt.y, c, tt.want)
		}
	}
}

func TestProgram_DrawingOutsideDrawStops(t *testing.T) {
	p := load(t, `function update() grid.char(0, 0, "x") end`)

	if res := p.Update(app.TickInput{}); res != app.Stop {
		t.Errorf("Update() = %v, want stop", res)
	}
	var serr *ScriptError
	if !errors.As(p.Err(), &serr) || serr.Func != "update" {
		t.Errorf("Err() = %v, want ScriptError in update", p.Err())
	}
}

func TestProgram_BadColour(t *testing.T) {
	p := load(t, `function draw() grid.clear("mauve") return true end`)

	if res, _ := draw(p, 2, 2); res != app.NoChanges {
		t.Errorf("Draw() = %v, want no changes after an error", res)
	}
	if p.Err() == nil {
		t.Error("Err() should report the bad colour")
	}
}

func TestProgram_ColourHelpers(t *testing.T) {
	p := load(t, `
function update()
	if grid.colour("red") ~= grid.RED then return false end
	if grid.blend(grid.BLACK, grid.WHITE, 0) ~= grid.BLACK then return false end
	if grid.rgb(300, -5, 0) ~= grid.colour("#ff0000") then return false end
	local g = grid.gradient("black", "#ffffff", 5)
	if #g ~= 5 or g[1] ~= grid.BLACK or g[5] ~= grid.WHITE then return false end
	if #grid.gradient(grid.RED, grid.BLUE, 0) ~= 0 then return false end
end
`)
	if res := p.Update(app.TickInput{}); res != app.Continue {
		t.Errorf("colour helpers disagree: %v", p.Err())
	}
}

func TestProgram_GradientRange(t *testing.T) {
	p := load(t, `
function update()
	grid.gradient(grid.RED, grid.BLUE, -1)
end
`)
	if res := p.Update(app.TickInput{}); res != app.Stop {
		t.Errorf("Update = %v, want Stop", res)
	}
	if p.Err() == nil || !strings.Contains(p.Err().Error(), "gradient length") {
		t.Errorf("Err = %v, want a gradient length error", p.Err())
	}
}

func TestProgram_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `function draw() grid.char(0, 0, "a") end`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer p.Close()

	writeScript(t, dir, `function draw() grid.char(0, 0, "b") end`)
	if err := p.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	res, img := draw(p, 1, 1)
	if res != app.Changed {
		t.Errorf("first Draw after reload = %v, want changed", res)
	}
	if c, _ := img.At(0, 0); c.Code != 'b' {
		t.Errorf("code = %q, want 'b'", rune(c.Code))
	}
	if res, _ := draw(p, 1, 1); res != app.NoChanges {
		t.Errorf("second Draw = %v, want no changes", res)
	}
	if p.Reloads() != 1 {
		t.Errorf("Reloads() = %d, want 1", p.Reloads())
	}

	writeScript(t, dir, "function (")
	if err := p.Reload(); err == nil {
		t.Error("Reload of a broken script should fail")
	}
	if _, img := draw(p, 1, 1); img.Code[0] != 'b' {
		t.Error("previous script should keep running after a failed reload")
	}
}

func TestProgram_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `function update() return "stop" end`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer p.Close()

	if err := p.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	writeScript(t, dir, `function update() return true end`)

	deadline := time.Now().Add(5 * time.Second)
	for !p.reload.Load() {
		if time.Now().After(deadline) {
			t.Fatal("change was not noticed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if res := p.Update(app.TickInput{}); res != app.Continue {
		t.Errorf("Update() after reload = %v, want continue", res)
	}
	if p.Reloads() != 1 {
		t.Errorf("Reloads() = %d, want 1", p.Reloads())
	}
}

func TestProgram_WatchKeepsRunningOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `function update() error("oops") end`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer p.Close()
	if err := p.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if res := p.Update(app.TickInput{}); res != app.Continue {
		t.Errorf("Update() = %v, want continue while watching", res)
	}
	if p.Err() != nil {
		t.Errorf("Err() = %v, want nil while watching", p.Err())
	}
	if res, _ := draw(p, 1, 1); res != app.NoChanges {
		t.Errorf("Draw() = %v, want no changes while failed", res)
	}
}
