package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/entropywalk/internal/heatmap"
	"github.com/san-kum/entropywalk/internal/walk"
)

const DefaultScale = 12

type SVGOptions struct {
	// Scale is the edge length of one heatmap cell in pixels.
	Scale int
	Title string
	// Positions are drawn as dots over the heatmap.
	Positions []walk.Point
	DotColor  string
}

// HeatmapToSVG renders a heatmap snapshot as an SVG document. An empty
// snapshot with no positions yields an empty string.
func HeatmapToSVG(snap heatmap.Snapshot, opts SVGOptions) string {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.DotColor == "" {
		opts.DotColor = "#ffffff"
	}

	lo, hi, ok := bounds(snap, opts.Positions)
	if !ok {
		return ""
	}

	scale := float64(opts.Scale)
	cols := hi.X - lo.X + 1
	rows := hi.Y - lo.Y + 1
	width := float64(cols) * scale
	height := float64(rows) * scale
	top := 0.0
	if opts.Title != "" {
		top = 20
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height+top, width, height+top)

	if opts.Title != "" {
		fmt.Fprintf(&sb, `<text x="4" y="14" fill="#969696" font-family="monospace" font-size="12">%s</text>
`, escape(opts.Title))
	}

	sb.WriteString("<g>\n")
	for _, c := range snap.Cells() {
		x := float64(c.X-lo.X) * scale
		y := top + float64(c.Y-lo.Y)*scale
		fill := heatmap.HeatColor(snap.Normalized(c.Cell)).Hex()
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.8"><title>%d</title></rect>
`, x, y, scale, scale, fill, c.Count)
	}
	sb.WriteString("</g>\n")

	if len(opts.Positions) > 0 {
		cs := float64(snap.CellSize())
		fmt.Fprintf(&sb, "<g fill=\"%s\">\n", opts.DotColor)
		for _, p := range opts.Positions {
			cx := (float64(p.X)/cs - float64(lo.X)) * scale
			cy := top + (float64(p.Y)/cs-float64(lo.Y))*scale
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, scale*0.25)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteHeatmapSVG writes HeatmapToSVG output to w.
func WriteHeatmapSVG(w io.Writer, snap heatmap.Snapshot, opts SVGOptions) error {
	doc := HeatmapToSVG(snap, opts)
	if doc == "" {
		return fmt.Errorf("export: nothing to render")
	}
	_, err := io.WriteString(w, doc)
	return err
}

func SaveHeatmapSVG(path string, snap heatmap.Snapshot, opts SVGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteHeatmapSVG(f, snap, opts)
}

func bounds(snap heatmap.Snapshot, positions []walk.Point) (lo, hi heatmap.Cell, ok bool) {
	lo, hi, ok = snap.Bounds()
	if snap.CellSize() <= 0 {
		return lo, hi, ok
	}
	for _, p := range positions {
		c := snap.CellOf(p)
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Y)
		hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Y)
	}
	return lo, hi, ok
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
