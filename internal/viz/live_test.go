package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/entropywalk/internal/entropy"
	"github.com/san-kum/entropywalk/internal/sim"
	"github.com/san-kum/entropywalk/internal/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	s, err := sim.NewFromSpecs([]sim.LaneSpec{
		{Name: "pseudo", Source: entropy.NewPseudo(1), Walkers: 5},
		{Name: "replay", Source: entropy.NewReplay([]walk.Direction{walk.Right}, true), Walkers: 2},
	}, sim.DefaultOptions(), nil)
	require.NoError(t, err)
	return NewModel(s, opts)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tick(m Model, n int) Model {
	for range n {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	return m
}

func TestModelTicksAndTrails(t *testing.T) {
	m := tick(newTestModel(t, Options{}), 5)

	assert.Equal(t, 5, m.sim.Ticks())
	assert.Equal(t, 25, m.lanes[0].trail.len())
	assert.Equal(t, 10, m.lanes[1].trail.len())
	assert.Len(t, m.lanes[0].entropy, 5)
}

func TestModelPause(t *testing.T) {
	m := press(newTestModel(t, Options{}), " ")
	assert.False(t, m.running)

	m = tick(m, 3)
	assert.Equal(t, 0, m.sim.Ticks())

	m = press(m, "n")
	assert.Equal(t, 1, m.sim.Ticks())

	m = press(m, " ")
	m = tick(m, 1)
	assert.Equal(t, 2, m.sim.Ticks())
}

func TestModelClearTrails(t *testing.T) {
	m := press(tick(newTestModel(t, Options{}), 4), "c")

	replay := m.sim.Lane("replay")
	assert.Equal(t, []walk.Point{{}, {}}, replay.Population().Positions())
	assert.Equal(t, 0, replay.Grid().Total())
	assert.Equal(t, 8, replay.Tracker().TotalMoves())
	assert.Equal(t, 0, m.lanes[1].trail.len())
}

func TestModelResetStats(t *testing.T) {
	m := press(tick(newTestModel(t, Options{}), 4), "r")

	replay := m.sim.Lane("replay")
	assert.Equal(t, 0, replay.Tracker().TotalMoves())
	assert.Equal(t, []walk.Point{{X: 4}, {X: 4}}, replay.Population().Positions())
	assert.Empty(t, m.lanes[1].entropy)
}

func TestModelToggles(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(m, "h")
	assert.True(t, m.showHeatmap)
	m = press(m, "g")
	assert.True(t, m.showCharts)
	m = press(m, "g")
	assert.False(t, m.showCharts)
	m = press(m, "t")
	assert.Equal(t, "retro", m.theme.Name)

	m = press(m, "+")
	m = press(m, "+")
	assert.Equal(t, 3, m.scale)
	for range 5 {
		m = press(m, "-")
	}
	assert.Equal(t, 1, m.scale)
}

func TestModelQuit(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		m := newTestModel(t, Options{})
		var msg tea.KeyMsg
		if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd, key)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "%s should quit", key)
	}
}

func TestModelExport(t *testing.T) {
	m := press(newTestModel(t, Options{}), "e")
	assert.Equal(t, "export not configured", m.notice)

	var got sim.Snapshot
	m = newTestModel(t, Options{OnExport: func(s sim.Snapshot) (string, error) {
		got = s
		return "wrote 2 files", nil
	}})
	m = press(tick(m, 2), "e")
	assert.Equal(t, "wrote 2 files", m.notice)
	assert.Equal(t, 2, got.Tick)

	m.opts.OnExport = func(sim.Snapshot) (string, error) { return "", errors.New("disk full") }
	m = press(m, "e")
	assert.Equal(t, "export failed: disk full", m.notice)
}

func TestModelView(t *testing.T) {
	m := tick(newTestModel(t, Options{}), 10)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 59, m.colWidth)
	assert.Equal(t, 40-panelLines-chromeLines, m.lanes[0].canvas.Height)

	view := m.View()
	assert.Contains(t, view, "PSEUDO")
	assert.Contains(t, view, "REPLAY")
	assert.Contains(t, view, "tick 10")
	assert.Contains(t, view, "[OK]")

	m = press(m, "h")
	assert.NotEmpty(t, m.View())

	m = press(m, "g")
	assert.Contains(t, m.View(), "DIRECTION DISTRIBUTION")

	m = press(m, "?")
	assert.True(t, strings.Contains(m.View(), "KEYBOARD SHORTCUTS"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
}
