package view

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var palette = []color.NRGBA{
	{0x6C, 0x9E, 0xF8, 0xFF},
	{0xFF, 0xB8, 0x6B, 0xFF},
	{0x7A, 0xE5, 0x82, 0xFF},
	{0xF4, 0x72, 0xB6, 0xFF},
	{0x9C, 0xA3, 0xAF, 0xFF},
	{0xA7, 0x8B, 0xFA, 0xFF},
	{0xFA, 0xCC, 0x15, 0xFF},
	{0x38, 0xBD, 0xF8, 0xFF},
	{0xFB, 0x71, 0x85, 0xFF},
	{0x34, 0xD3, 0x99, 0xFF},
}

var (
	faceOnce sync.Once
	faces    map[float64]font.Face
	faceErr  error
)

func loadFaces() (map[float64]font.Face, error) {
	faceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			faceErr = fmt.Errorf("parse font: %w", err)
			return
		}
		faces = map[float64]font.Face{
			12: truetype.NewFace(f, &truetype.Options{Size: 12}),
			16: truetype.NewFace(f, &truetype.Options{Size: 16}),
		}
	})
	return faces, faceErr
}

const (
	chartPad    = 48.0
	chartHeader = 40.0
)

// RenderPNG draws c onto a width x height canvas.
func RenderPNG(c Chart, w io.Writer, width, height int) error {
	if width < 200 || height < 150 {
		return fmt.Errorf("chart size %dx%d too small", width, height)
	}
	fs, err := loadFaces()
	if err != nil {
		return err
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetFontFace(fs[16])
	dc.SetColor(color.NRGBA{0x1F, 0x29, 0x37, 0xFF})
	dc.DrawStringAnchored(c.Title, float64(width)/2, chartHeader/2, 0.5, 0.5)
	dc.SetFontFace(fs[12])

	switch c.Kind {
	case ChartPie, ChartDoughnut:
		drawPie(dc, c, c.Kind == ChartDoughnut)
	case ChartHBar:
		drawHBars(dc, c)
	case ChartLine:
		drawLine(dc, c)
	default:
		drawBars(dc, c)
	}
	return dc.EncodePNG(w)
}

func maxValue(c Chart) float64 {
	m := 0.0
	for _, b := range c.Buckets {
		m = math.Max(m, b.Value)
	}
	if m == 0 {
		return 1
	}
	return m
}

func plotArea(dc *gg.Context) (x0, y0, w, h float64) {
	x0, y0 = chartPad, chartHeader+8
	w = float64(dc.Width()) - 2*chartPad
	h = float64(dc.Height()) - y0 - chartPad
	return
}

func drawAxes(dc *gg.Context, x0, y0, w, h float64) {
	dc.SetColor(color.NRGBA{0xD1, 0xD5, 0xDB, 0xFF})
	dc.SetLineWidth(1)
	dc.DrawLine(x0, y0+h, x0+w, y0+h)
	dc.DrawLine(x0, y0, x0, y0+h)
	dc.Stroke()
}

func drawBars(dc *gg.Context, c Chart) {
	x0, y0, w, h := plotArea(dc)
	drawAxes(dc, x0, y0, w, h)
	n := len(c.Buckets)
	if n == 0 {
		return
	}
	top := maxValue(c)
	slot := w / float64(n)
	for i, b := range c.Buckets {
		bh := b.Value / top * (h - 16)
		x := x0 + float64(i)*slot + slot*0.15
		dc.SetColor(palette[0])
		dc.DrawRectangle(x, y0+h-bh, slot*0.7, bh)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(b.Label, x+slot*0.35, y0+h+14, 0.5, 0.5)
		dc.DrawStringAnchored(formatValue(b.Value), x+slot*0.35, y0+h-bh-8, 0.5, 0.5)
	}
}

func drawHBars(dc *gg.Context, c Chart) {
	x0, y0, w, h := plotArea(dc)
	labelW := w * 0.3
	n := len(c.Buckets)
	if n == 0 {
		return
	}
	top := maxValue(c)
	slot := h / float64(n)
	for i, b := range c.Buckets {
		bw := b.Value / top * (w - labelW - 32)
		y := y0 + float64(i)*slot + slot*0.15
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(b.Label, x0+labelW-6, y+slot*0.35, 1, 0.5)
		dc.SetColor(palette[i%len(palette)])
		dc.DrawRectangle(x0+labelW, y, bw, slot*0.7)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(formatValue(b.Value), x0+labelW+bw+6, y+slot*0.35, 0, 0.5)
	}
}

func drawLine(dc *gg.Context, c Chart) {
	x0, y0, w, h := plotArea(dc)
	drawAxes(dc, x0, y0, w, h)
	n := len(c.Buckets)
	if n == 0 {
		return
	}
	top := maxValue(c)
	step := w
	if n > 1 {
		step = w / float64(n-1)
	}
	dc.SetColor(palette[0])
	dc.SetLineWidth(2)
	for i, b := range c.Buckets {
		x := x0 + float64(i)*step
		y := y0 + h - b.Value/top*(h-16)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
	// Label at most ten ticks.
	every := (n + 9) / 10
	dc.SetColor(color.Black)
	for i := 0; i < n; i += every {
		dc.DrawStringAnchored(c.Buckets[i].Label, x0+float64(i)*step, y0+h+14, 0.5, 0.5)
	}
}

func drawPie(dc *gg.Context, c Chart, hole bool) {
	total := 0.0
	for _, b := range c.Buckets {
		total += b.Value
	}
	cx := float64(dc.Width()) * 0.38
	cy := chartHeader + (float64(dc.Height())-chartHeader)/2
	r := math.Min(cx-chartPad/2, (float64(dc.Height())-chartHeader)/2-chartPad/2)
	if total == 0 {
		dc.SetColor(palette[4])
		dc.DrawCircle(cx, cy, r)
		dc.Fill()
	} else {
		angle := -math.Pi / 2
		for i, b := range c.Buckets {
			if b.Value <= 0 {
				continue
			}
			sweep := b.Value / total * 2 * math.Pi
			dc.SetColor(palette[i%len(palette)])
			dc.MoveTo(cx, cy)
			dc.DrawArc(cx, cy, r, angle, angle+sweep)
			dc.ClosePath()
			dc.Fill()
			angle += sweep
		}
	}
	if hole {
		dc.SetColor(color.White)
		dc.DrawCircle(cx, cy, r*0.55)
		dc.Fill()
	}
	lx := cx + r + 24
	for i, b := range c.Buckets {
		ly := chartHeader + 16 + float64(i)*20
		dc.SetColor(palette[i%len(palette)])
		dc.DrawRectangle(lx, ly-6, 12, 12)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%s)", b.Label, formatValue(b.Value)), lx+18, ly, 0, 0.5)
	}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
