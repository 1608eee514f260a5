// Package pdf genera la etiqueta imprimible de un producto con Maroto v2.
//
// Layout de la etiqueta (100 x 60 mm):
//
//	┌──────────────────────────────────────┐
//	│  NOMBRE DEL PRODUCTO                 │
//	│  Clasificación                       │
//	│  ║║│║║│║│║║│║║║│║│║║│║ (Code128)     │
//	│            12345678                  │
//	│  Umbral: 5        Pedido sugerido: 20│
//	└──────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/fiecl/barcode-inventory-management/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Medidas de la etiqueta en milímetros.
const (
	labelWidth  = 100.0
	labelHeight = 60.0
)

// LabelGenerator implementa inventory.LabelGenerator usando Maroto v2.
type LabelGenerator struct{}

// NewLabelGenerator construye el generador.
func NewLabelGenerator() *LabelGenerator { return &LabelGenerator{} }

// GenerateLabel genera el PDF y devuelve sus bytes.
func (g *LabelGenerator) GenerateLabel(_ context.Context, item *entity.Item) ([]byte, error) {
	if item == nil {
		return nil, fmt.Errorf("pdf: producto nil")
	}
	cfg := config.NewBuilder().
		WithDimensions(labelWidth, labelHeight).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(2).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+item.Barcode, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(barcodeRow(item))
	m.AddRows(footerRows(item)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(item *entity.Item) core.Row {
	classification := ""
	if item.Classification != nil {
		classification = *item.Classification
	}
	return row.New(11).Add(
		col.New(12).Add(
			text.New(item.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary,
			}),
			text.New(classification, props.Text{
				Size: 7, Top: 6, Color: colorGray,
			}),
		),
	)
}

// barcodeRow Code128 con los dígitos legibles debajo.
func barcodeRow(item *entity.Item) core.Row {
	return row.New(28).Add(
		col.New(12).Add(
			code.NewBar(item.Barcode, props.Barcode{Percent: 80, Center: true}),
		),
	)
}

func footerRows(item *entity.Item) []core.Row {
	reorder := "-"
	if item.ReorderQuantity != nil && *item.ReorderQuantity > 0 {
		reorder = strconv.Itoa(*item.ReorderQuantity)
	}
	return []core.Row{
		row.New(5).Add(
			col.New(12).Add(text.New(item.Barcode, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center,
			})),
		),
		row.New(5).Add(
			col.New(6).Add(text.New("Umbral: "+strconv.Itoa(item.Threshold), props.Text{Size: 7, Top: 1, Color: colorGray})),
			col.New(6).Add(text.New("Pedido sugerido: "+reorder, props.Text{Size: 7, Top: 1, Align: align.Right, Color: colorGray})),
		),
	}
}
