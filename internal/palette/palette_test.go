package palette

import "testing"

func TestPack(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint32
	}{
		{0, 0, 0, 0xff000000},
		{255, 0, 0, 0xff0000ff},
		{0, 255, 0, 0xff00ff00},
		{0, 0, 255, 0xffff0000},
		{0x12, 0x34, 0x56, 0xff563412},
	}

	for _, tt := range tests {
		if got := Pack(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("Pack(%d, %d, %d) = %#08x, want %#08x", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestUnpack(t *testing.T) {
	r, g, b, a := Unpack(PackRGBA(1, 2, 3, 4))
	if r != 1 || g != 2 || b != 3 || a != 4 {
		t.Errorf("Unpack = (%d, %d, %d, %d), want (1, 2, 3, 4)", r, g, b, a)
	}
}

func TestNamedColours(t *testing.T) {
	if White.Packed() != 0xffffffff {
		t.Errorf("White = %#08x, want 0xffffffff", White.Packed())
	}
	if Yellow.Packed() != Pack(255, 255, 0) {
		t.Errorf("Yellow = %#08x", Yellow.Packed())
	}

	c, ok := Named("cyan")
	if !ok || c != Cyan {
		t.Errorf("Named(cyan) = %v, %v", c, ok)
	}
	if _, ok := Named("mauve"); ok {
		t.Error("Named(mauve) should not resolve")
	}
	if Magenta.String() != "magenta" {
		t.Errorf("Magenta.String() = %q", Magenta.String())
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("#ff8000")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if got != Pack(255, 128, 0) {
		t.Errorf("Parse(#ff8000) = %#08x, want %#08x", got, Pack(255, 128, 0))
	}

	got, err = Parse("blue")
	if err != nil || got != Blue.Packed() {
		t.Errorf("Parse(blue) = %#08x, %v", got, err)
	}

	if _, err := Parse("not-a-colour"); err == nil {
		t.Error("Parse should fail on garbage")
	}
}

func TestBlendEndpoints(t *testing.T) {
	a, b := Black.Packed(), White.Packed()
	if Blend(a, b, 0) != a {
		t.Error("Blend t=0 should return a")
	}
	if Blend(a, b, 1) != b {
		t.Error("Blend t=1 should return b")
	}
	mid := Blend(a, b, 0.5)
	r, g, bl, al := Unpack(mid)
	if al != 0xff {
		t.Errorf("blend alpha = %d, want 255", al)
	}
	if r < 64 || r > 192 || absDiff(r, g) > 1 || absDiff(g, bl) > 1 {
		t.Errorf("blend of black/white = (%d, %d, %d), want a mid grey", r, g, bl)
	}
}

func TestGradient(t *testing.T) {
	if Gradient(0, 0, 0) != nil {
		t.Error("Gradient(n=0) should be nil")
	}
	g := Gradient(Red.Packed(), Blue.Packed(), 5)
	if len(g) != 5 {
		t.Fatalf("len = %d, want 5", len(g))
	}
	if g[0] != Red.Packed() || g[4] != Blue.Packed() {
		t.Errorf("gradient endpoints = %#08x..%#08x", g[0], g[4])
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
