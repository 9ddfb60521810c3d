// Package chart renders balance projections to PNG.
package chart

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Series is one line on the chart.
type Series struct {
	Label  string
	Color  string // "#rrggbb"
	Values []float64
	Dashed bool
}

// Options controls canvas size and labelling.
type Options struct {
	Width   int
	Height  int
	Title   string
	XLabels []string // one per value; thinned automatically
}

const (
	marginLeft   = 80.0
	marginRight  = 24.0
	marginTop    = 56.0
	marginBottom = 48.0
	gridLines    = 5
)

var (
	bgColor   = mustHex("#100F0F")
	gridColor = mustHex("#282726")
	textColor = mustHex("#CECDC3")
	dimColor  = mustHex("#6F6E69")
)

var (
	fontOnce sync.Once
	fontErr  error
	regular  *truetype.Font
	bold     *truetype.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		if regular, fontErr = truetype.Parse(goregular.TTF); fontErr != nil {
			fontErr = fmt.Errorf("parsing regular font: %w", fontErr)
			return
		}
		if bold, fontErr = truetype.Parse(gobold.TTF); fontErr != nil {
			fontErr = fmt.Errorf("parsing bold font: %w", fontErr)
		}
	})
	return fontErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 6 hex chars, got %q", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex %q", s)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, nil
}

func mustHex(s string) color.NRGBA {
	c, err := parseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}

func axisLabel(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 10_000:
		return fmt.Sprintf("$%.0fk", v/1000)
	default:
		return "$" + humanize.Comma(int64(v))
	}
}

// Render draws the series on a shared y axis starting at zero and encodes
// the result as PNG.
func Render(w io.Writer, opts Options, series ...Series) error {
	if opts.Width <= 0 {
		opts.Width = 960
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	if err := loadFonts(); err != nil {
		return err
	}

	n := 0
	peak := 0.0
	for _, s := range series {
		n = max(n, len(s.Values))
		for _, v := range s.Values {
			peak = math.Max(peak, v)
		}
	}
	if n == 0 {
		return fmt.Errorf("no data to plot")
	}
	top := niceCeil(peak)

	W, H := float64(opts.Width), float64(opts.Height)
	plotW := W - marginLeft - marginRight
	plotH := H - marginTop - marginBottom

	x := func(i int) float64 {
		if n == 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(n-1)
	}
	y := func(v float64) float64 { return marginTop + plotH*(1-v/top) }

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(bgColor)
	dc.DrawRectangle(0, 0, W, H)
	dc.Fill()

	if opts.Title != "" {
		dc.SetFontFace(face(bold, 18))
		dc.SetColor(textColor)
		dc.DrawString(opts.Title, marginLeft, 28)
	}

	// Grid and y labels.
	dc.SetFontFace(face(regular, 12))
	dc.SetLineWidth(1)
	for i := 0; i <= gridLines; i++ {
		v := top * float64(i) / gridLines
		gy := y(v)
		dc.SetColor(gridColor)
		dc.DrawLine(marginLeft, gy, W-marginRight, gy)
		dc.Stroke()
		dc.SetColor(dimColor)
		dc.DrawStringAnchored(axisLabel(v), marginLeft-8, gy, 1, 0.5)
	}

	// X labels, thinned to roughly one per 80px.
	if len(opts.XLabels) > 0 {
		step := max(1, int(math.Ceil(float64(n)*80/plotW)))
		dc.SetColor(dimColor)
		for i := 0; i < n && i < len(opts.XLabels); i += step {
			dc.DrawStringAnchored(opts.XLabels[i], x(i), H-marginBottom+18, 0.5, 0.5)
		}
	}

	for _, s := range series {
		c, err := parseHex(s.Color)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Label, err)
		}
		dc.SetColor(c)
		dc.SetLineWidth(2.5)
		if s.Dashed {
			dc.SetDash(8, 6)
		} else {
			dc.SetDash()
		}
		for i, v := range s.Values {
			if i == 0 {
				dc.MoveTo(x(i), y(v))
			} else {
				dc.LineTo(x(i), y(v))
			}
		}
		dc.Stroke()
	}
	dc.SetDash()

	// Legend, top right.
	lx := W - marginRight
	dc.SetFontFace(face(regular, 13))
	for i := len(series) - 1; i >= 0; i-- {
		s := series[i]
		tw, _ := dc.MeasureString(s.Label)
		lx -= tw
		dc.SetColor(textColor)
		dc.DrawStringAnchored(s.Label, lx, 28, 0, 0.5)
		lx -= 22
		c, _ := parseHex(s.Color)
		dc.SetColor(c)
		dc.DrawRectangle(lx, 23, 14, 10)
		dc.Fill()
		lx -= 18
	}

	return dc.EncodePNG(w)
}
