package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/entropywalk/internal/metrics"
	"github.com/san-kum/entropywalk/internal/sim"
	"github.com/san-kum/entropywalk/internal/walk"
)

const (
	DistanceBins = 30
	// idealShare is the per-direction share of a uniform source, in percent.
	idealShare = 100.0 / walk.NumDirections
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Orange,
	asciigraph.Magenta,
	asciigraph.Yellow,
}

// DirectionBars renders each lane's direction distribution as horizontal
// bars with a marker at the ideal 25%.
func DirectionBars(lanes []sim.LaneCharts, theme Theme, width int) string {
	width = max(width, 10)
	// bars span 0..50% so the ideal marker sits in the middle
	scale := float64(width) / (2 * idealShare)
	marker := int(idealShare * scale)

	var b strings.Builder
	b.WriteString(headerStyle.Render("DIRECTION DISTRIBUTION") + "  " + helpStyle.Render("| = ideal 25%") + "\n")
	for i, lane := range lanes {
		color := theme.LaneColor(i)
		b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(lane.Name) + "\n")
		for _, d := range walk.Directions {
			pct := lane.Distribution[d]
			filled := max(0, min(int(pct*scale), width))

			bar := []rune(strings.Repeat("█", filled) + strings.Repeat(" ", width-filled))
			if marker < len(bar) {
				bar[marker] = '|'
			}
			fmt.Fprintf(&b, "  %-6s %s %5.1f%%  %d\n",
				d, lipgloss.NewStyle().Foreground(color).Render(string(bar)), pct, lane.Histogram[d])
		}
	}
	return b.String()
}

// DistanceChart plots every lane's distance-from-origin distribution on a
// shared set of bins, as the percentage of samples per bin.
func DistanceChart(lanes []sim.LaneCharts, width, height int) string {
	var all []float64
	for _, lane := range lanes {
		all = append(all, lane.Distances...)
	}
	bins := metrics.BinDistances(all, DistanceBins)
	if len(bins.Counts) == 0 {
		return helpStyle.Render("no distance samples yet")
	}

	series := make([][]float64, 0, len(lanes))
	colors := make([]asciigraph.AnsiColor, 0, len(lanes))
	names := make([]string, 0, len(lanes))
	for i, lane := range lanes {
		names = append(names, lane.Name)
		counts := bins.Count(lane.Distances)
		if n := float64(len(lane.Distances)); n > 0 {
			for j := range counts {
				counts[j] = counts[j] / n * 100
			}
		}
		series = append(series, counts)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}

	lo, hi := bins.Dividers[0], bins.Dividers[len(bins.Dividers)-1]
	chart := asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
		asciigraph.Caption(fmt.Sprintf("distance from origin %.1f..%.1f (%% of samples per bin)", lo, hi)),
	)
	return graphStyle.Render(chart)
}

// ComparisonTable lists the headline statistics of each lane, each scaled
// against the best lane so they compare at a glance.
func ComparisonTable(lanes []sim.LaneCharts, theme Theme) string {
	var maxDisp, maxRet float64
	for _, lane := range lanes {
		maxDisp = max(maxDisp, lane.Stats.Dispersion)
		maxRet = max(maxRet, lane.Stats.ReturnRate)
	}
	norm := func(v, top float64) float64 {
		if top == 0 {
			return 0
		}
		return v / top
	}

	const barWidth = 16
	var b strings.Builder
	b.WriteString(headerStyle.Render("NORMALIZED COMPARISON") + "\n")
	row := func(label string, ratio float64, value string, color lipgloss.Color) {
		fmt.Fprintf(&b, "  %s %s %s\n", labelStyle.Render(label), ProgressBar(ratio, barWidth, color), valueStyle.Render(value))
	}
	for i, lane := range lanes {
		color := theme.LaneColor(i)
		b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(lane.Name) + "\n")
		row("Dispersion", norm(lane.Stats.Dispersion, maxDisp), fmt.Sprintf("%.2f", lane.Stats.Dispersion), color)
		row("Entropy", lane.Stats.Entropy/metrics.MaxEntropy, fmt.Sprintf("%.4f / %.1f", lane.Stats.Entropy, metrics.MaxEntropy), color)
		row("Return rate", norm(lane.Stats.ReturnRate, maxRet), fmt.Sprintf("%.3f%%", lane.Stats.ReturnRate*100), color)
	}
	return b.String()
}

// RenderCharts is the full chart screen of the live view.
func RenderCharts(lanes []sim.LaneCharts, theme Theme, width int) string {
	chartWidth := max(width-12, 20)
	return lipgloss.JoinVertical(lipgloss.Left,
		DirectionBars(lanes, theme, min(chartWidth/2, 50)),
		DistanceChart(lanes, chartWidth, 10),
		"",
		ComparisonTable(lanes, theme),
	)
}

// SeriesChart plots one metric of a sampled series, one line per lane.
// field selects the metric: entropy, windowed_entropy, dispersion or
// return_rate.
func SeriesChart(series []sim.Sample, field string, width, height int) (string, error) {
	pick, err := seriesField(field)
	if err != nil {
		return "", err
	}

	var order []string
	byLane := make(map[string][]float64)
	for _, s := range series {
		if _, ok := byLane[s.Lane]; !ok {
			order = append(order, s.Lane)
		}
		byLane[s.Lane] = append(byLane[s.Lane], pick(s))
	}
	if len(order) == 0 {
		return "", fmt.Errorf("series is empty")
	}

	data := make([][]float64, len(order))
	colors := make([]asciigraph.AnsiColor, len(order))
	for i, lane := range order {
		data[i] = byLane[lane]
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	chart := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(order...),
		asciigraph.Caption(field+" ("+strings.Join(order, ", ")+")"),
	)
	return chart, nil
}

func seriesField(name string) (func(sim.Sample) float64, error) {
	switch name {
	case "entropy":
		return func(s sim.Sample) float64 { return s.Entropy }, nil
	case "windowed_entropy":
		return func(s sim.Sample) float64 { return s.WindowedEntropy }, nil
	case "dispersion":
		return func(s sim.Sample) float64 { return s.Dispersion }, nil
	case "return_rate":
		return func(s sim.Sample) float64 { return s.ReturnRate }, nil
	case "quality":
		return func(s sim.Sample) float64 { return s.Quality }, nil
	}
	return nil, fmt.Errorf("unknown series field %q", name)
}
