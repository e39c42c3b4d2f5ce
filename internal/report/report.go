// Package report renders task lists as PDF documents.
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"gtodo/internal/tasklist"
)

// BuildTaskReport renders rows as a numbered checklist under title.
// Row numbers are 1-based positions in the unfiltered list.
func BuildTaskReport(title string, rows []tasklist.Row) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	tr := p.UnicodeTranslatorFromDescriptor("")
	p.SetTitle(title, true)
	p.AddPage()

	p.SetFont("Arial", "B", 14)
	p.Cell(40, 10, tr(title))
	p.Ln(12)

	p.SetFont("Arial", "", 12)
	if len(rows) == 0 {
		p.Cell(40, 8, "no tasks found")
		p.Ln(8)
	}
	for _, row := range rows {
		mark := "[ ]"
		if row.Task.IsCompleted {
			mark = "[x]"
		}
		p.MultiCell(0, 8, tr(fmt.Sprintf("%4d  %s %s", row.Index+1, mark, row.Task.Text)), "", "L", false)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
