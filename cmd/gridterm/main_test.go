package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/dshills/gridterm/internal/app"
	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/palette"
	"github.com/dshills/gridterm/internal/renderer/backend"
)

// emptyConfig writes a config file so the user's own configuration is never
// picked up.
func emptyConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridterm.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(-version) = %d, want 0", code)
	}
	if !strings.HasPrefix(stdout.String(), "gridterm dev") {
		t.Errorf("stdout = %q, want a version line", stdout.String())
	}
}

func TestRun_BadFlags(t *testing.T) {
	tests := [][]string{
		{"-no-such-flag"},
		{"extra"},
		{"-scale", "0"},
		{"-snapshot", "x.png"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 2 {
			t.Errorf("run(%v) = %d, want 2", args, code)
		}
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-h"}, &stdout, &stderr); code != 0 {
		t.Errorf("run(-h) = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "Usage: gridterm") {
		t.Errorf("usage not printed: %q", stderr.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := emptyConfig(t, "[loop]\ntarget_fps = -1\n")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", cfg, "-headless"}, &stdout, &stderr); code != 1 {
		t.Errorf("run = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "loop.target_fps") {
		t.Errorf("stderr = %q, want the offending setting", stderr.String())
	}
}

func TestRun_HeadlessSnapshot(t *testing.T) {
	cfg := emptyConfig(t, "[window]\nwidth = 200\nheight = 300\n")
	out := filepath.Join(t.TempDir(), "hello.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfg, "-headless", "-snapshot", out, "-scale", "2", "-log-level", "error"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run = %d, stderr: %s", code, stderr.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("snapshot is not a PNG: %v", err)
	}

	// 200x300 with the 7x13 default font fits 28x23 cells.
	if b := img.Bounds(); b.Dx() != 28*7*2 || b.Dy() != 23*13*2 {
		t.Errorf("snapshot size = %dx%d, want %dx%d", b.Dx(), b.Dy(), 28*7*2, 23*13*2)
	}
}

func TestRun_HeadlessScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "stop.lua")
	if err := os.WriteFile(script, []byte(`
frames = 0
function update() frames = frames + 1 if frames > 2 then return false end end
`), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", emptyConfig(t, ""), "-headless", "-frames", "10", "-script", script}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("run = %d, stderr: %s", code, stderr.String())
	}
}

func TestRun_ScriptError(t *testing.T) {
	script := filepath.Join(t.TempDir(), "bad.lua")
	if err := os.WriteFile(script, []byte(`function update() error("broken") end`), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", emptyConfig(t, ""), "-headless", "-script", script, "-log-level", "error"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("run = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "broken") {
		t.Errorf("stderr = %q, want the script error", stderr.String())
	}
}

func TestHello(t *testing.T) {
	h := &hello{}
	img := grid.New(20, 6)

	h.Update(app.TickInput{Width: 20, Height: 6})
	f := grid.NewFrame(img)
	if res := h.Draw(f); res != app.Changed {
		t.Errorf("first Draw = %v, want changed", res)
	}
	f.Release()

	if c, _ := img.At(1, 1); c != grid.NewCell('H', palette.Yellow.Packed(), palette.Blue.Packed()) {
		t.Errorf("cell (1, 1) = %+v, want yellow H on blue", c)
	}
	if c, _ := img.At(13, 4); c != grid.NewCell('W', palette.Blue.Packed(), palette.Yellow.Packed()) {
		t.Errorf("cell (13, 4) = %+v, want blue W on yellow", c)
	}
	if c, _ := img.At(0, 0); c != grid.NewCell(' ', palette.White.Packed(), palette.Black.Packed()) {
		t.Errorf("cell (0, 0) = %+v, want cleared", c)
	}

	h.Update(app.TickInput{Width: 20, Height: 6})
	if res := h.Draw(grid.NewFrame(img)); res != app.NoChanges {
		t.Errorf("second Draw = %v, want no changes", res)
	}

	h.Update(app.TickInput{Width: 30, Height: 6})
	if res := h.Draw(grid.NewFrame(grid.New(30, 6))); res != app.Changed {
		t.Errorf("Draw after resize = %v, want changed", res)
	}
}

func TestRun_PrintConfig(t *testing.T) {
	path := emptyConfig(t, "[render]\nfull_redraw_percent = 75\n")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-config", path, "-print-config", "-frames", "3"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(-print-config) = %d, stderr %q", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"render.full_redraw_percent = 75\n",
		"render.max_damage_regions = 32\n",
		"loop.max_frames = 3\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 15 {
		t.Errorf("printed %d settings, want 15", n)
	}
}

func TestForwardSignals(t *testing.T) {
	b := backend.NewNullBackend(80, 24, 1, 1)
	sigs := make(chan os.Signal, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		forwardSignals(ctx, sigs, b, cancel)
		close(done)
	}()

	sigs <- syscall.SIGINT
	deadline := time.Now().Add(2 * time.Second)
	for b.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first signal did not close the backend")
		}
		time.Sleep(time.Millisecond)
	}
	ev, _ := b.PollEvent()
	if ev.Type != backend.EventClose {
		t.Errorf("event = %v, want EventClose", ev.Type)
	}
	if ctx.Err() != nil {
		t.Error("first signal cancelled the run")
	}

	sigs <- syscall.SIGTERM
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second signal did not stop forwarding")
	}
	if ctx.Err() == nil {
		t.Error("second signal did not cancel the run")
	}
	if b.Pending() != 0 {
		t.Errorf("second signal queued %d more events", b.Pending())
	}
}
