package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/sim"
	"github.com/san-kum/collisim/internal/viz"
	"gonum.org/v1/gonum/floats"
)

const (
	background = "#0a0a0a"
	frameColor = "#0064ff"
)

// DefaultPalette colours the first two bodies red and blue.
var DefaultPalette = []string{"#ff0000", "#0064ff", "#00d26a", "#ffd400", "#ff66cc", "#00e5ff", "#ff8c00", "#b388ff"}

func colorOf(palette []string, id int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	i := id % len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i]
}

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// BodiesToSVG draws the box and every body at its true position and
// radius, one unit per SVG pixel.
func BodiesToSVG(bounds dynamo.Bounds, bodies []dynamo.Body, palette []string) string {
	var sb strings.Builder
	header(&sb, bounds.Width, bounds.Height)
	sb.WriteString(fmt.Sprintf(`<rect x="0.5" y="0.5" width="%.1f" height="%.1f" fill="none" stroke="%s"/>
`, bounds.Width-1, bounds.Height-1, frameColor))

	for _, b := range bodies {
		sb.WriteString(fmt.Sprintf(`<circle id="body-%d" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, b.ID, b.Position.X, b.Position.Y, b.Radius, colorOf(palette, b.ID)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one dot per sub-pixel,
// coloured by the body that owns each cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64, palette []string) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.SubWidth())*scale, float64(canvas.SubHeight())*scale)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern == 0 {
				continue
			}
			fill := frameColor
			if idx := canvas.Colors[row][col]; idx != viz.NoColor {
				fill = colorOf(palette, idx)
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots ys against xs as a single polyline with 10% padding.
// It returns "" when there are fewer than two points or the lengths differ.
func SeriesToSVG(xs, ys []float64, width, height int, stroke string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// EnergyToSVG plots total kinetic energy over time.
func EnergyToSVG(samples []sim.Sample, width, height int) string {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i], ys[i] = s.Time, s.Energy
	}
	return SeriesToSVG(xs, ys, width, height, "#00ff88")
}
