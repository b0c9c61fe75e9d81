package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/entropywalk/internal/walk"
)

func TestCanvasSetClear(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", c.SubWidth(), c.SubHeight())
	}

	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != 0x2800|0x1|0x80 {
		t.Errorf("expected dots 1 and 8 in first cell, got %U", c.Grid[0][0])
	}

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatalf("expected blank cells after clear, got %U", r)
			}
		}
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(4, 0)
	c.Set(0, 4)
	c.Fill(5, 5, "#ffffff")

	if strings.TrimSpace(strings.ReplaceAll(c.String(), "⠀", "")) != "" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x < 10; x++ {
		if !dotSet(c, x, 0) {
			t.Errorf("expected dot (%d,0) on line", x)
		}
	}

	c.Clear()
	c.DrawLine(3, 3, 0, 0)
	for i := 0; i < 4; i++ {
		if !dotSet(c, i, i) {
			t.Errorf("expected dot (%d,%d) on diagonal", i, i)
		}
	}
}

func TestCanvasRenderKeepsRows(t *testing.T) {
	c := NewCanvas(6, 3)
	c.Fill(2, 1, "#123456")
	c.Fill(3, 1, "#123456")
	out := c.Render("#ffffff")
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("expected 3 rows, got %d newlines", got)
	}
}

func TestTrailRing(t *testing.T) {
	tr := newTrail(3)
	mv := func(id int) walk.Move { return walk.Move{WalkerID: id} }

	tr.add([]walk.Move{mv(1), mv(2)})
	if tr.len() != 2 {
		t.Fatalf("expected 2 moves, got %d", tr.len())
	}

	tr.add([]walk.Move{mv(3), mv(4)})
	var ids []int
	tr.each(func(m walk.Move) { ids = append(ids, m.WalkerID) })
	if len(ids) != 3 || ids[0] != 2 || ids[2] != 4 {
		t.Errorf("expected oldest-first [2 3 4], got %v", ids)
	}

	tr.reset()
	if tr.len() != 0 {
		t.Errorf("expected empty trail after reset, got %d", tr.len())
	}
}

func TestProjectorRoundTrip(t *testing.T) {
	c := NewCanvas(10, 5)
	origin := walk.Point{X: 100, Y: -50}

	for _, scale := range []int{1, 2, 3} {
		proj := newProjector(origin, c, scale)
		x, y := proj.dot(origin)
		if x != 10 || y != 10 {
			t.Errorf("scale %d: origin should map to canvas centre, got (%d,%d)", scale, x, y)
		}
		for _, p := range []walk.Point{{X: 97, Y: -52}, {X: 104, Y: -49}, origin} {
			x, y := proj.dot(p)
			if got := proj.point(x, y); got != p {
				t.Errorf("scale %d: expected %v back, got %v", scale, p, got)
			}
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4, 0, 1); got != "────" {
		t.Errorf("expected flat line, got %q", got)
	}
	if got := Sparkline([]float64{0, 0.5, 1, 1}, 3, 0, 1); got != "▄██" {
		t.Errorf("expected last 3 values, got %q", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "classic" {
		t.Error("expected classic fallback")
	}
	if NextTheme(ThemeSunset).Name != "classic" {
		t.Error("expected themes to wrap")
	}
	if ThemeClassic.LaneColor(5) != ThemeClassic.Lanes[1] {
		t.Error("expected lane colours to wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("expected one name per theme")
	}
}

func dotSet(c *Canvas, x, y int) bool {
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}
