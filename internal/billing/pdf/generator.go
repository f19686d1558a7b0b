// Package pdf renders quotations as PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/tenders-netizen/quotedesk/internal/billing/models"
)

type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate renders q as an A4 portrait PDF and returns the bytes.
func (g *Generator) Generate(q models.Quotation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quotation", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Quotation")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("No. %s dated %s", q.QuotationNumber, q.Date))
	pdf.Ln(6)

	if q.PartyName != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Party: %s", q.PartyName))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", q.Status))
	pdf.Ln(6)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, "Item")
	pdf.Cell(20, 7, "Qty")
	pdf.Cell(25, 7, "Price")
	pdf.Cell(25, 7, "Disc %")
	pdf.Cell(25, 7, "Tax %")
	pdf.Cell(25, 7, "Amount")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range q.Items {
		pdf.Cell(70, 6, trim(it.Item, 38))
		pdf.Cell(20, 6, fmt.Sprintf("%g", it.Quantity))
		pdf.Cell(25, 6, fmt.Sprintf("%.2f", it.Price))
		pdf.Cell(25, 6, fmt.Sprintf("%g", it.Discount))
		pdf.Cell(25, 6, fmt.Sprintf("%g", it.TaxRate))
		pdf.Cell(25, 6, fmt.Sprintf("%.2f", it.Amount))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total: %.2f", q.Total))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", time.Now().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
