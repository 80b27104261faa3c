// Package pdf implementa la generación de la Guía de Traslado imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Guía de Traslado  │  N° Traslado + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: sede que despacha                                   │
//	│  DESTINO: sede que recibe                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Variación | Seriales               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado + firmas de despacho y recepción             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Traslados-api/internal/application/document"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ document.PDFGenerator = (*MarotoNoteGenerator)(nil)

// MarotoNoteGenerator implementa document.PDFGenerator usando Maroto v2.
type MarotoNoteGenerator struct{}

// NewMarotoNoteGenerator construye el generador.
func NewMarotoNoteGenerator() *MarotoNoteGenerator { return &MarotoNoteGenerator{} }

// TransferNote genera el PDF de la guía y devuelve sus bytes.
func (g *MarotoNoteGenerator) TransferNote(note *document.TransferNote) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de Traslado "+note.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(note.Items) {
		m.AddRows(r)
	}

	if note.Notes != "" {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(notesRow(note.Notes))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(signatureRow(note))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar guía: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y número + fecha (der).
func headerRow(note *document.TransferNote) core.Row {
	fecha := note.TransferDate.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("GUÍA DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento interno de movimiento entre sedes", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(note.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("Estado: "+note.Status, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// routeRow: sede origen y sede destino.
func routeRow(note *document.TransferNote) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("ORIGEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(note.FromLocation, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(6).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(note.ToLocation, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Variación", 3, align.Left),
		h("Seriales", 4, align.Left),
	)
}

// tableItemRows: una fila por línea del traslado.
func tableItemRows(items []document.TransferNoteItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		serials := "—"
		if len(it.SerialCodes) > 0 {
			serials = strings.Join(it.SerialCodes, ", ")
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				it.VariationName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				serials,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
		))
	}
	return result
}

// notesRow: observaciones del traslado.
func notesRow(notes string) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("OBSERVACIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

// signatureRow: espacios de firma de despacho y recepción.
func signatureRow(note *document.TransferNote) core.Row {
	generado := note.GeneratedAt.Format("02/01/2006 15:04")
	return row.New(20).Add(
		col.New(5).Add(
			text.New("_______________________", props.Text{Size: 9, Top: 8, Align: align.Center}),
			text.New("Despacha", props.Text{Size: 8, Top: 14, Align: align.Center, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("_______________________", props.Text{Size: 9, Top: 8, Align: align.Center}),
			text.New("Recibe", props.Text{Size: 8, Top: 14, Align: align.Center, Color: colorGray}),
		),
		col.New(2).Add(
			text.New("Generado", props.Text{Size: 7, Top: 8, Align: align.Right, Color: colorGray}),
			text.New(generado, props.Text{Size: 7, Top: 12, Align: align.Right, Color: colorGray}),
		),
	)
}
