// Package barcode dibuja el código Code128 de un producto como PNG, con los dígitos debajo.
package barcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Medidas por defecto en píxeles.
const (
	DefaultWidth     = 320
	DefaultBarHeight = 90
	captionHeight    = 22
	margin           = 10
)

// Renderer implementa inventory.BarcodeRenderer.
type Renderer struct {
	Width     int
	BarHeight int
}

// NewRenderer renderer con las medidas por defecto.
func NewRenderer() *Renderer {
	return &Renderer{Width: DefaultWidth, BarHeight: DefaultBarHeight}
}

// Render codifica el código en Code128 y devuelve el PNG.
func (r *Renderer) Render(code string) ([]byte, error) {
	if code == "" {
		return nil, fmt.Errorf("barcode: código vacío")
	}
	raw, err := code128.Encode(code)
	if err != nil {
		return nil, fmt.Errorf("barcode: codificar %q: %w", code, err)
	}
	barWidth := r.Width - 2*margin
	if barWidth < raw.Bounds().Dx() {
		barWidth = raw.Bounds().Dx()
	}
	scaled, err := bc.Scale(raw, barWidth, r.BarHeight)
	if err != nil {
		return nil, fmt.Errorf("barcode: escalar: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, barWidth+2*margin, r.BarHeight+captionHeight+2*margin))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	barRect := image.Rect(margin, margin, margin+barWidth, margin+r.BarHeight)
	draw.Draw(canvas, barRect, scaled, scaled.Bounds().Min, draw.Over)
	drawCaption(canvas, code, margin+r.BarHeight+captionHeight-6)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("barcode: codificar PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCaption centra el texto en la línea base y.
func drawCaption(dst *image.RGBA, caption string, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(caption).Ceil()
	x := (dst.Bounds().Dx() - width) / 2
	d.Dot = fixed.P(x, y)
	d.DrawString(caption)
}
