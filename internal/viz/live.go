package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/entropywalk/internal/heatmap"
	"github.com/san-kum/entropywalk/internal/metrics"
	"github.com/san-kum/entropywalk/internal/sim"
	"github.com/san-kum/entropywalk/internal/walk"
)

const (
	DefaultFPS = 30
	// DefaultTrailLength is the number of recent steps drawn per walker.
	DefaultTrailLength = 1000

	defaultWidth   = 80
	defaultHeight  = 24
	panelLines     = 10
	chromeLines    = 3
	entropyHistory = 120
	maxScale       = 4
	heatDim        = 0.45
)

type TickMsg time.Time

type Options struct {
	FPS         int
	TrailLength int
	Theme       string
	// Scale is the number of dots per plane unit.
	Scale int
	// OnExport handles the export key. Its message is shown in the status
	// line.
	OnExport func(sim.Snapshot) (string, error)
}

type laneView struct {
	canvas  *Canvas
	trail   *trail
	entropy []float64
}

func (lv *laneView) pushEntropy(v float64) {
	lv.entropy = append(lv.entropy, v)
	if len(lv.entropy) > entropyHistory {
		lv.entropy = lv.entropy[1:]
	}
}

// Model is the live side-by-side view. It drives the simulation from its
// tick messages so key actions never race a tick.
type Model struct {
	sim           *sim.Simulation
	opts          Options
	theme         Theme
	lanes         []*laneView
	width, height int
	colWidth      int
	scale         int
	running       bool
	showHeatmap   bool
	showCharts    bool
	showHelp      bool
	notice        string
}

func NewModel(s *sim.Simulation, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.TrailLength <= 0 {
		opts.TrailLength = DefaultTrailLength
	}

	recorder := trailRecorder{}
	lanes := make([]*laneView, len(s.Lanes()))
	for i, lane := range s.Lanes() {
		t := newTrail(opts.TrailLength * lane.Population().Len())
		recorder[lane.Name()] = t
		lanes[i] = &laneView{trail: t}
	}
	s.AddObserver(recorder)

	m := Model{
		sim:     s,
		opts:    opts,
		theme:   GetTheme(opts.Theme),
		lanes:   lanes,
		width:   defaultWidth,
		height:  defaultHeight,
		scale:   max(1, min(opts.Scale, maxScale)),
		running: true,
	}
	m.layout()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "c":
		m.sim.ClearTrails()
		for _, lv := range m.lanes {
			lv.trail.reset()
		}
	case "h":
		m.showHeatmap = !m.showHeatmap
	case "r":
		m.sim.ResetStats()
		for _, lv := range m.lanes {
			lv.entropy = nil
		}
	case "g":
		m.showCharts = !m.showCharts
	case "t":
		m.theme = NextTheme(m.theme)
	case "+", "=":
		m.scale = min(m.scale+1, maxScale)
	case "-", "_":
		m.scale = max(m.scale-1, 1)
	case "n":
		if !m.running {
			m.step()
		}
	case "e":
		m.export()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// step advances the simulation one tick. Trails are fed by the observer.
func (m *Model) step() {
	m.sim.Tick()
	for i, lane := range m.sim.Lanes() {
		m.lanes[i].pushEntropy(lane.Tracker().WindowedEntropy())
	}
}

func (m *Model) export() {
	if m.opts.OnExport == nil {
		m.notice = "export not configured"
		return
	}
	msg, err := m.opts.OnExport(m.sim.Snapshot())
	if err != nil {
		m.notice = "export failed: " + err.Error()
		return
	}
	m.notice = msg
}

func (m *Model) layout() {
	n := max(len(m.lanes), 1)
	m.colWidth = max((m.width-(n-1))/n, 12)
	canvasH := max(m.height-panelLines-chromeLines, 4)
	for _, lv := range m.lanes {
		lv.canvas = NewCanvas(m.colWidth, canvasH)
	}
}

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	var body string
	if m.showCharts {
		body = RenderCharts(m.sim.Charts(), m.theme, m.width)
	} else {
		snap := m.sim.Snapshot()
		divider := lipgloss.NewStyle().Foreground(m.theme.Divider).
			Render(strings.TrimSuffix(strings.Repeat("│\n", m.lanes[0].canvas.Height+panelLines), "\n"))

		cols := make([]string, 0, 2*len(snap.Lanes))
		for i, ls := range snap.Lanes {
			lv := m.lanes[i]
			m.drawLane(lv, ls)
			col := lipgloss.JoinVertical(lipgloss.Left,
				lv.canvas.Render(m.theme.LaneColor(i)),
				m.panel(i, ls, lv),
			)
			if i > 0 {
				cols = append(cols, divider)
			}
			cols = append(cols, col)
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m Model) header() string {
	status := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Success).Render("RUNNING")
	if !m.running {
		status = lipgloss.NewStyle().Bold(true).Foreground(m.theme.Warning).Render("PAUSED")
	}
	parts := []string{
		headerStyle.Render("ENTROPY WALK"),
		status,
		valueStyle.Render(fmt.Sprintf("tick %d", m.sim.Ticks())),
		helpStyle.Render(fmt.Sprintf("zoom x%d", m.scale)),
	}
	if m.showHeatmap {
		parts = append(parts, helpStyle.Render("heatmap"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) footer() string {
	hint := helpStyle.Render("SPC pause  C clear trails  H heatmap  R reset stats  G charts  T theme  +/- zoom  E export  ? help  Q quit")
	if m.notice != "" {
		return noticeStyle.Render(m.notice) + "\n" + hint
	}
	return hint
}

func (m Model) drawLane(lv *laneView, ls sim.LaneSnapshot) {
	c := lv.canvas
	c.Clear()
	proj := newProjector(ls.Origin, c, m.scale)

	if m.showHeatmap {
		paintHeatmap(c, ls.Heatmap, proj)
	}

	lv.trail.each(func(mv walk.Move) {
		x0, y0 := proj.dot(mv.From)
		x1, y1 := proj.dot(mv.To)
		c.DrawLine(x0, y0, x1, y1)
	})

	for _, p := range ls.Positions {
		x, y := proj.dot(p)
		c.Set(x, y)
		c.Set(x+1, y)
		c.Set(x, y+1)
		c.Set(x+1, y+1)
	}
}

// paintHeatmap colours each character cell by the density of the grid cell
// under its centre.
func paintHeatmap(c *Canvas, snap heatmap.Snapshot, proj projector) {
	if snap.Total() == 0 {
		return
	}
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if v := snap.Normalized(snap.CellOf(proj.point(col*2+1, row*4+2))); v > 0 {
				c.Fill(col, row, dim(heatmap.HeatColor(v), heatDim).Hex())
			}
		}
	}
}

func (m Model) panel(i int, ls sim.LaneSnapshot, lv *laneView) string {
	color := m.theme.LaneColor(i)
	status := ls.Health.Status()
	barWidth := max(m.colWidth-labelStyle.GetWidth()-18, 4)

	line := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(strings.ToUpper(ls.Name)) + " " +
			helpStyle.Render(ls.Source) + " " +
			healthStyle(m.theme, status).Render("["+status+"]"),
		line("Dispersion", fmt.Sprintf("%.2f", ls.Stats.Dispersion)),
		line("Return rate", fmt.Sprintf("%.3f%%", ls.Stats.ReturnRate*100)),
		line("Entropy", fmt.Sprintf("%.4f / %.1f ", ls.Stats.Entropy, metrics.MaxEntropy)) +
			ProgressBar(ls.Stats.Entropy/metrics.MaxEntropy, barWidth, color),
		line("Window H", fmt.Sprintf("%.4f ", ls.Stats.WindowedEntropy)) +
			graphStyle.Render(Sparkline(lv.entropy, barWidth, 1.5, metrics.MaxEntropy)),
		line("Moves", fmt.Sprintf("%d", ls.Stats.TotalMoves)),
		line("Max dist", fmt.Sprintf("%.1f", ls.Metrics["max_distance"])),
		line("Persistence", fmt.Sprintf("%.3f", ls.Metrics["persistence"])),
		line("Quality", fmt.Sprintf("%.2f  skipped %d", ls.Health.Quality, ls.Health.SkippedTicks)),
	}
	if ls.Health.LastFailed {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Error).Render(truncate(ls.Health.LastError, m.colWidth-2)))
	}
	return panelStyle.Width(m.colWidth).Height(panelLines).Render(strings.Join(lines, "\n"))
}

func (m Model) helpView() string {
	return `
KEYBOARD SHORTCUTS

  Space    Pause / resume
  N        Single step while paused
  C        Clear trails and return walkers to origin
  H        Toggle heatmap overlay
  R        Reset statistics
  G        Toggle distribution charts
  T        Cycle themes
  + / -    Zoom in / out
  E        Export heatmaps
  ?        Toggle this help
  Q / Esc  Quit
`
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Run starts the live view in the alternate screen and blocks until quit.
func Run(s *sim.Simulation, opts Options) error {
	_, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen()).Run()
	return err
}
