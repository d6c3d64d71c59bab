package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls Plot output.
type PlotOptions struct {
	Title  string
	Width  int
	Height int
	// Color forces ANSI colors even when w is not a terminal.
	Color bool
	// PerScale scales every series to its own min/max instead of a shared axis.
	PerScale bool
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 4
	axisSeparator       = " │ "
	perScaleNote        = "Scaled per series; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
	"\x1b[32m", // green
}

type valueRange struct {
	lo, hi float64
}

// Plot renders series as a braille line chart, one dot column pair per cell.
func Plot(w io.Writer, opts PlotOptions, series []Series) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	resampled := make([][]float64, len(series))
	ranges := make([]valueRange, len(series))
	shared := valueRange{lo: math.Inf(1), hi: math.Inf(-1)}
	for i, s := range series {
		resampled[i] = resample(s.Values, width)
		r := rangeOf(resampled[i])
		ranges[i] = r
		shared.lo = math.Min(shared.lo, r.lo)
		shared.hi = math.Max(shared.hi, r.hi)
	}
	if !opts.PerScale {
		if shared.lo > 0 {
			shared.lo = 0
		}
		for i := range ranges {
			ranges[i] = shared
		}
	}
	for i := range ranges {
		if ranges[i].hi-ranges[i].lo < 1e-9 {
			ranges[i].lo--
			ranges[i].hi++
		}
	}

	layers := make([][][]uint8, len(series))
	for i, values := range resampled {
		layers[i] = newGrid(height, width)
		drawSeries(layers[i], values, ranges[i], height*4)
	}

	useColor := shouldUseColor(w, opts.Color)
	var labels []string
	if opts.PerScale {
		labels = axisLabels(height, "100%", "50%", "0%")
	} else {
		r := ranges[0]
		labels = axisLabels(height,
			fmt.Sprintf("%.0f", r.hi),
			fmt.Sprintf("%.0f", (r.hi+r.lo)/2),
			fmt.Sprintf("%.0f", r.lo))
	}

	var out []string
	if opts.Title != "" {
		out = append(out, opts.Title)
	}
	if opts.PerScale {
		out = append(out, perScaleNote)
		for i, s := range series {
			out = append(out, fmt.Sprintf("%s: min=%.2f max=%.2f", s.Name, ranges[i].lo, ranges[i].hi))
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := mergeCell(layers, x, y)
			if useColor && owner >= 0 {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(braille(mask))
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(braille(mask))
		}
		out = append(out, row.String())
	}
	out = append(out, legend(series, useColor), "")
	for _, line := range out {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func axisLabels(height int, top, mid, bottom string) []string {
	labels := make([]string, height)
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

func newGrid(height, width int) [][]uint8 {
	grid := make([][]uint8, height)
	for y := range grid {
		grid[y] = make([]uint8, width)
	}
	return grid
}

func drawSeries(grid [][]uint8, values []float64, r valueRange, dotRows int) {
	prevX, prevY := -1, -1
	for x, v := range values {
		pos := (v - r.lo) / (r.hi - r.lo)
		y := int(math.Round((1 - pos) * float64(dotRows-1)))
		y = max(0, min(y, dotRows-1))
		px := x * 2
		if prevX < 0 {
			setDot(grid, px, y)
		} else {
			line(prevX, prevY, px, y, func(dx, dy int) { setDot(grid, dx, dy) })
		}
		prevX, prevY = px, y
	}
}

func mergeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, grid := range layers {
		if m := grid[y][x]; m != 0 {
			if owner < 0 {
				owner = i
			}
			mask |= m
		}
	}
	return mask, owner
}

// resample stretches or averages values into exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := max((i+1)*n/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func rangeOf(values []float64) valueRange {
	r := valueRange{lo: math.Inf(1), hi: math.Inf(-1)}
	for _, v := range values {
		r.lo = math.Min(r.lo, v)
		r.hi = math.Max(r.hi, v)
	}
	if math.IsInf(r.lo, 1) {
		return valueRange{}
	}
	return r
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s", braille(0x01), s.Name)
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// line walks a Bresenham segment between two dot coordinates.
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Braille cells are 2 dots wide and 4 dots tall.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(grid [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(grid) || cx >= len(grid[cy]) {
		return
	}
	grid[cy][cx] |= dotBits[x%2][y%4]
}

func braille(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
