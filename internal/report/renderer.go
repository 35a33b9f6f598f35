package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/clearlabel/transparency-api/internal/models"
)

// Renderer produces PDF transparency reports. Rendering is synchronous and
// writes the fully materialized document to the given writer.
type Renderer struct{}

// NewRenderer constructs a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes a transparency report for the product and its answered
// questions as a PDF document.
func (r *Renderer) Render(w io.Writer, product *models.Product, answers []models.AnsweredQuestion) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Transparency Report — %s", product.Name), true)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Generated %s — page %d", time.Now().UTC().Format("2006-01-02 15:04 UTC"), pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(33, 33, 33)
	pdf.CellFormat(0, 12, "Product Transparency Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Product metadata
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, product.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, 5, product.Description, "", "L", false)
	pdf.CellFormat(0, 6, fmt.Sprintf("Submitted: %s", product.CreatedAt.Format("2 January 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Answered questions
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(33, 33, 33)
	pdf.CellFormat(0, 8, "Disclosures", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	if len(answers) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(0, 6, "No follow-up questions were answered for this product.", "", 1, "L", false, 0, "")
	}

	for _, a := range answers {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(33, 33, 33)
		pdf.MultiCell(0, 5, a.QuestionText, "", "L", false)

		value := a.Value
		if value == "" {
			value = "Not provided"
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 5, value, "", "L", false)
		pdf.Ln(2)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report rendering failed: %w", err)
	}
	return pdf.Output(w)
}
