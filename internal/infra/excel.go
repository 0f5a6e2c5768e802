package infra

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LibroTabular builds a single-sheet xlsx with a styled header row. The board
// exports and any future tabular download go through it.
type LibroTabular struct {
	f     *excelize.File
	hoja  string
	fila  int
	ancho int
}

func NewLibroTabular(hoja string, encabezados []string, anchos []float64) (*LibroTabular, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", hoja); err != nil {
		return nil, err
	}

	estilo, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2F5496"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range encabezados {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		celda := fmt.Sprintf("%s1", col)
		if err := f.SetCellValue(hoja, celda, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(hoja, celda, celda, estilo); err != nil {
			return nil, err
		}
		ancho := 18.0
		if i < len(anchos) && anchos[i] > 0 {
			ancho = anchos[i]
		}
		if err := f.SetColWidth(hoja, col, col, ancho); err != nil {
			return nil, err
		}
	}

	return &LibroTabular{f: f, hoja: hoja, fila: 1, ancho: len(encabezados)}, nil
}

func (l *LibroTabular) AgregarFila(valores []any) error {
	l.fila++
	celda, err := excelize.CoordinatesToCellName(1, l.fila)
	if err != nil {
		return err
	}
	return l.f.SetSheetRow(l.hoja, celda, &valores)
}

func (l *LibroTabular) Bytes() ([]byte, error) {
	buf, err := l.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
