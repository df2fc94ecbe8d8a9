// Package barcode draws scannable barcodes for the detail view as SVG.
package barcode

import (
	"fmt"
	"html"
	"image/color"
	"strings"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/pasjesplank/plank/internal/model"
)

// Symbology names an encoding.
type Symbology string

const (
	EAN13   Symbology = "EAN13"
	CODE128 Symbology = "CODE128"
	Blank   Symbology = ""
)

// Options controls the drawing.
type Options struct {
	ModuleWidth  int // width of one bar module
	Height       int // bar height
	Margin       int
	DisplayValue bool // print the number under the bars
	Background   string
	LineColor    string
}

// DefaultOptions matches the detail view.
func DefaultOptions() Options {
	return Options{
		ModuleWidth: 2,
		Height:      80,
		Margin:      10,
		Background:  "#ffffff",
		LineColor:   "#000000",
	}
}

// OptionsFrom converts the persisted barcode settings.
func OptionsFrom(c model.BarcodeConfig) Options {
	o := DefaultOptions()
	if c.Width > 0 {
		o.ModuleWidth = c.Width
	}
	if c.Height > 0 {
		o.Height = c.Height
	}
	if c.Margin != nil && *c.Margin >= 0 {
		o.Margin = *c.Margin
	}
	o.DisplayValue = c.DisplayValue
	return o
}

// Result is a drawn barcode. A Blank result has an empty SVG.
type Result struct {
	Symbology Symbology `json:"symbology"`
	SVG       string    `json:"svg"`
}

// IsBlank reports whether nothing could be encoded.
func (r Result) IsBlank() bool {
	return r.Symbology == Blank
}

// Encoder turns a number into bars.
type Encoder struct {
	Symbology Symbology
	Encode    func(content string) (bc.Barcode, error)
}

// Renderer draws numbers, trying each encoder in order.
type Renderer struct {
	opts     Options
	encoders []Encoder
}

// NewRenderer creates a renderer that tries EAN-13, then CODE128.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts: opts,
		encoders: []Encoder{
			{Symbology: EAN13, Encode: encodeEAN13},
			{Symbology: CODE128, Encode: encodeCode128},
		},
	}
}

// WithEncoders replaces the fallback chain.
func (r *Renderer) WithEncoders(encoders ...Encoder) *Renderer {
	r.encoders = encoders
	return r
}

// Render draws number with the first encoder that accepts it. When none does,
// the result is blank; that is not an error.
func (r *Renderer) Render(number string) Result {
	number = strings.TrimSpace(number)
	if number == "" {
		return Result{}
	}
	for _, enc := range r.encoders {
		code, err := enc.Encode(number)
		if err != nil || code == nil {
			continue
		}
		return Result{Symbology: enc.Symbology, SVG: r.svg(code, number)}
	}
	return Result{}
}

func encodeEAN13(content string) (bc.Barcode, error) {
	// ean.Encode also accepts EAN-8, which EAN-13 rendering must reject.
	if n := len(content); n != 12 && n != 13 {
		return nil, fmt.Errorf("ean-13 needs 12 or 13 digits, got %d", n)
	}
	return ean.Encode(content)
}

func encodeCode128(content string) (bc.Barcode, error) {
	return code128.Encode(content)
}

func (r *Renderer) svg(code bc.Barcode, number string) string {
	o := r.opts
	bounds := code.Bounds()
	modules := bounds.Dx()

	width := modules*o.ModuleWidth + 2*o.Margin
	height := o.Height + 2*o.Margin
	textSize := 20
	if o.DisplayValue {
		height += textSize + 2
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, width, height, o.Background)
	fmt.Fprintf(&b, `<g fill="%s">`, o.LineColor)

	// Merge adjacent dark modules into one bar.
	for x := 0; x < modules; {
		if !isDark(code.At(bounds.Min.X+x, bounds.Min.Y)) {
			x++
			continue
		}
		run := 1
		for x+run < modules && isDark(code.At(bounds.Min.X+x+run, bounds.Min.Y)) {
			run++
		}
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d"/>`,
			o.Margin+x*o.ModuleWidth, o.Margin, run*o.ModuleWidth, o.Height)
		x += run
	}
	b.WriteString(`</g>`)

	if o.DisplayValue {
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="monospace" font-size="%d">%s</text>`,
			width/2, o.Margin+o.Height+textSize, textSize, html.EscapeString(number))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}
