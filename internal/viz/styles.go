package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/entropywalk/internal/heatmap"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(13)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	panelStyle  = lipgloss.NewStyle().Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00"))
)

// ProgressBar renders a filled bar for a ratio in [0,1].
func ProgressBar(ratio float64, width int, fg lipgloss.Color) string {
	filled := int(ratio * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(fg).Render(bar)
}

// Sparkline renders the most recent values as block characters scaled
// between lo and hi.
func Sparkline(values []float64, width int, lo, hi float64) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// dim scales a colour toward black so dots stay readable over it.
func dim(c heatmap.RGB, f float64) heatmap.RGB {
	return heatmap.RGB{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

func healthStyle(t Theme, status string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch status {
	case "OK":
		return s.Foreground(t.Success)
	case "DEGRADED":
		return s.Foreground(t.Warning)
	default:
		return s.Foreground(t.Error)
	}
}
