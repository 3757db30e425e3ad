package charts

import (
	"fmt"
	"html"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

const (
	width        = 1000
	height       = 600
	marginLeft   = 90.0
	marginRight  = 30.0
	marginTop    = 60.0
	marginBottom = 110.0
)

// palette runs from dark blue to green, like a viridis ramp.
var palette = []string{"#46327e", "#365c8d", "#277f8e", "#1fa187", "#4ac16d", "#a0da39"}

// canvas accumulates SVG elements for one chart with a shared plot area.
type canvas struct {
	b    strings.Builder
	minY float64
	maxY float64
}

func newCanvas(title string) *canvas {
	c := &canvas{}
	fmt.Fprintf(&c.b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&c.b, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", width, height)
	c.text(width/2, marginTop/2+6, 20, "middle", "bold", title)
	return c
}

func (c *canvas) plotWidth() float64  { return width - marginLeft - marginRight }
func (c *canvas) plotHeight() float64 { return height - marginTop - marginBottom }

// setYRange fixes the value range of the y axis, padded to a round top.
func (c *canvas) setYRange(lo, hi float64) {
	if hi <= lo {
		hi = lo + 1
	}
	c.minY = lo
	c.maxY = niceCeil(hi)
}

// y maps a value onto the vertical pixel position.
func (c *canvas) y(v float64) float64 {
	frac := (v - c.minY) / (c.maxY - c.minY)
	return marginTop + c.plotHeight()*(1-frac)
}

func (c *canvas) rect(x, y, w, h float64, fill, stroke string) {
	fmt.Fprintf(&c.b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s"/>`+"\n",
		x, y, math.Max(w, 0), math.Max(h, 0), fill, stroke)
}

func (c *canvas) line(x1, y1, x2, y2 float64, stroke string, w float64) {
	fmt.Fprintf(&c.b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		x1, y1, x2, y2, stroke, w)
}

func (c *canvas) circle(x, y, r float64, fill string) {
	fmt.Fprintf(&c.b, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n", x, y, r, fill)
}

func (c *canvas) polyline(points [][2]float64, stroke string) {
	c.b.WriteString(`<polyline fill="none" stroke="` + stroke + `" stroke-width="2" points="`)
	for i, p := range points {
		if i > 0 {
			c.b.WriteByte(' ')
		}
		fmt.Fprintf(&c.b, "%.2f,%.2f", p[0], p[1])
	}
	c.b.WriteString("\"/>\n")
}

func (c *canvas) polygon(points [][2]float64, fill string, opacity float64) {
	c.b.WriteString(`<polygon fill="` + fill + `" fill-opacity="` + fmt.Sprintf("%.2f", opacity) + `" points="`)
	for i, p := range points {
		if i > 0 {
			c.b.WriteByte(' ')
		}
		fmt.Fprintf(&c.b, "%.2f,%.2f", p[0], p[1])
	}
	c.b.WriteString("\"/>\n")
}

func (c *canvas) text(x, y float64, size int, anchor, weight, s string) {
	fmt.Fprintf(&c.b, `<text x="%.2f" y="%.2f" font-size="%d" text-anchor="%s" font-weight="%s">%s</text>`+"\n",
		x, y, size, anchor, weight, html.EscapeString(s))
}

// rotatedLabel writes an x-axis label tilted 45 degrees.
func (c *canvas) rotatedLabel(x float64, s string) {
	y := marginTop + c.plotHeight() + 16
	fmt.Fprintf(&c.b, `<text x="%.2f" y="%.2f" font-size="12" text-anchor="end" transform="rotate(-45 %.2f %.2f)">%s</text>`+"\n",
		x, y, x, y, html.EscapeString(s))
}

// axes draws both axes, horizontal grid lines and the axis titles.
func (c *canvas) axes(xTitle, yTitle string, format func(float64) string) {
	left, bottom := marginLeft, marginTop+c.plotHeight()
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		v := c.minY + (c.maxY-c.minY)*float64(i)/ticks
		y := c.y(v)
		c.line(left, y, left+c.plotWidth(), y, "#e5e5e5", 1)
		c.text(left-8, y+4, 12, "end", "normal", format(v))
	}
	c.line(left, marginTop, left, bottom, "#333333", 1.5)
	c.line(left, bottom, left+c.plotWidth(), bottom, "#333333", 1.5)

	c.text(left+c.plotWidth()/2, height-12, 14, "middle", "normal", xTitle)
	fmt.Fprintf(&c.b, `<text x="20" y="%.2f" font-size="14" text-anchor="middle" transform="rotate(-90 20 %.2f)">%s</text>`+"\n",
		marginTop+c.plotHeight()/2, marginTop+c.plotHeight()/2, html.EscapeString(yTitle))
}

func (c *canvas) bytes() []byte {
	c.b.WriteString("</svg>\n")
	return []byte(c.b.String())
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}

func dollars(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

func plain(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
