package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xyston/caseload/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return style.Render(buf.String())
}

// yAxis is the vertical scale shared by the bar and trajectory charts.
type yAxis struct {
	ceiling float64
	rows    int
	labelW  int
	ticks   map[int]string
}

func newYAxis(maxVal float64, height int) yAxis {
	if maxVal <= 0 {
		maxVal = 1
	}
	step := chartTickStep(maxVal)
	maxIntervals := max(height/2, 2)
	for int(math.Ceil(maxVal/step)) > maxIntervals {
		step *= 2
	}
	ceiling := math.Ceil(maxVal/step) * step
	intervals := max(int(math.Round(ceiling/step)), 1)
	rowsPerTick := max(height/intervals, 2)

	ax := yAxis{
		ceiling: ceiling,
		rows:    rowsPerTick * intervals,
		labelW:  max(len(formatChartLabel(ceiling))+1, 4),
		ticks:   make(map[int]string, intervals),
	}
	for i := 1; i <= intervals; i++ {
		ax.ticks[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}
	return ax
}

// bounds returns the value range covered by a chart row (1 = bottom).
func (ax yAxis) bounds(row int) (top, bottom float64) {
	return ax.ceiling * float64(row) / float64(ax.rows),
		ax.ceiling * float64(row-1) / float64(ax.rows)
}

// columnLayout fits n columns into width, sampling when they do not fit.
func columnLayout(n, chartW int) (barW, gap, shown int) {
	gap = 1
	if n <= 1 {
		return min(chartW, 6), 0, n
	}
	barW = (chartW - (n - 1)) / n
	shown = n
	if barW < 2 {
		shown = max((chartW+1)/3, 2)
		barW = 2
	}
	return min(barW, 6), gap, shown
}

func sample(values []float64, labels []string, shown int) ([]float64, []string) {
	n := len(values)
	if shown >= n {
		return values, labels
	}
	out := make([]float64, shown)
	var outLabels []string
	if len(labels) == n {
		outLabels = make([]string, shown)
	}
	for i := range out {
		src := i * (n - 1) / (shown - 1)
		out[i] = values[src]
		if outLabels != nil {
			outLabels[i] = labels[src]
		}
	}
	return out, outLabels
}

// partialBlock picks the eighth-block glyph for a value inside a row.
func partialBlock(v, top, bottom float64) string {
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	idx := int((v - bottom) / (top - bottom) * 8)
	return string(blocks[max(1, min(idx, 8))])
}

// BarChart renders a bar chart with a labelled y axis.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	ax := newYAxis(peak, height)

	barW, gap, shown := columnLayout(len(values), max(width-ax.labelW-1, 5))
	values, labels = sample(values, labels, shown)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := ax.rows; row >= 1; row-- {
		top, bottom := ax.bounds(row)
		barColor := color
		if float64(row)/float64(ax.rows) > 0.8 {
			barColor = t.AccentBright
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", ax.labelW, ax.ticks[row])))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				b.WriteString(barStyle.Render(strings.Repeat(partialBlock(v, top, bottom), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(xAxis(ax, len(values), barW, gap, labels))
	return b.String()
}

// TrajectoryChart plots a projected balance as bars with the ideal
// straight-line spend overlaid as dots. Bars turn red once the balance
// falls below the ideal line.
func TrajectoryChart(actual, ideal []float64, labels []string, width, height int) string {
	if len(actual) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		return Sparkline(actual, t.Accent)
	}

	peak := 0.0
	for i := range actual {
		peak = math.Max(peak, actual[i])
		if i < len(ideal) {
			peak = math.Max(peak, ideal[i])
		}
	}
	ax := newYAxis(peak, height)

	barW, gap, shown := columnLayout(len(actual), max(width-ax.labelW-1, 5))
	if shown < len(actual) && len(ideal) == len(actual) {
		ideal, _ = sample(ideal, nil, shown)
	}
	actual, labels = sample(actual, labels, shown)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	aheadStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	behindStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	idealStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	for row := ax.rows; row >= 1; row-- {
		top, bottom := ax.bounds(row)
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", ax.labelW, ax.ticks[row])))
		for i, v := range actual {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			style := aheadStyle
			var iv float64
			hasIdeal := i < len(ideal)
			if hasIdeal {
				iv = ideal[i]
				if v < iv {
					style = behindStyle
				}
			}
			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				b.WriteString(style.Render(strings.Repeat(partialBlock(v, top, bottom), barW)))
			case hasIdeal && iv > bottom && iv <= top:
				b.WriteString(idealStyle.Render(strings.Repeat("·", barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(xAxis(ax, len(actual), barW, gap, labels))
	return b.String()
}

// xAxis renders the zero line and the column labels beneath it.
func xAxis(ax yAxis, n, barW, gap int, labels []string) string {
	t := theme.Active
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	axisLen := n*barW + max(0, n-1)*gap

	var b strings.Builder
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└", ax.labelW, "0")))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) != n || n == 0 {
		return b.String()
	}

	buf := []byte(strings.Repeat(" ", axisLen))
	labelStep := max(1, (n*8)/(axisLen+1))
	lastEnd := -1
	for i := 0; i < n; i += labelStep {
		pos := i * (barW + gap)
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd {
			continue
		}
		if end > axisLen {
			end = axisLen
			if end-pos < 3 {
				continue
			}
			lbl = lbl[:end-pos]
		}
		copy(buf[pos:end], lbl)
		lastEnd = end + 1
	}
	if n > 1 {
		lbl := labels[n-1]
		pos := (n - 1) * (barW + gap)
		end := pos + len(lbl)
		if end > axisLen {
			pos = axisLen - len(lbl)
			end = axisLen
		}
		if pos >= 0 && pos > lastEnd {
			copy(buf[pos:end], lbl)
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", ax.labelW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))
	return b.String()
}

// chartTickStep computes a round tick interval targeting about five ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel renders an axis dollar amount compactly ($12k, $1.5M).
func formatChartLabel(v float64) string {
	scaled := func(div float64, suffix string) string {
		if v == math.Trunc(v/div)*div {
			return fmt.Sprintf("$%.0f%s", v/div, suffix)
		}
		return fmt.Sprintf("$%.1f%s", v/div, suffix)
	}
	switch {
	case v >= 1e6:
		return scaled(1e6, "M")
	case v >= 1e3:
		return scaled(1e3, "k")
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
