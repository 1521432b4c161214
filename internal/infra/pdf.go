package infra

// Work order traveler generation using go-pdf/fpdf.
// A4 portrait sheet with:
//   - Order number, product and status header
//   - Quantity / yield summary
//   - One row per reported unit (serial, result, defect, machine, time)

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// TravelerUnit is one reported unit printed on the traveler.
type TravelerUnit struct {
	SerialNo   string
	Result     string
	DefectCode string
	MachineID  string
	ProducedAt time.Time
}

// TravelerData is everything printed on a work order traveler.
type TravelerData struct {
	WorkOrderNo string
	ProductCode string
	Status      string
	MachineID   string
	TargetQty   int
	CurrentQty  int
	OKCount     int64
	NGCount     int64
	YieldPct    decimal.Decimal
	Units       []TravelerUnit
	GeneratedAt time.Time
}

// WriteTravelerPDF renders the traveler into w.
func WriteTravelerPDF(w io.Writer, data TravelerData) error {
	pdf := buildTraveler(data)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render traveler: %w", err)
	}
	return nil
}

// GenerateTravelerPDF writes the traveler to storagePath/traveler_<order>.pdf
// and returns the file path.
func GenerateTravelerPDF(data TravelerData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("traveler_%s.pdf", data.WorkOrderNo))

	pdf := buildTraveler(data)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func buildTraveler(data TravelerData) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Work Order Traveler", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Generated "+data.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Order info ────────────────────────────────────────────────────────────
	labelW := contentW * 0.25
	valueW := contentW * 0.25
	row := func(l1, v1, l2, v2 string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, l1, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(valueW, 6, v1, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, l2, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(valueW, 6, v2, "", 1, "L", false, 0, "")
	}
	machine := data.MachineID
	if machine == "" {
		machine = "-"
	}
	row("Order", data.WorkOrderNo, "Product", data.ProductCode)
	row("Status", data.Status, "Machine", machine)
	row("Target", fmt.Sprintf("%d", data.TargetQty), "Produced", fmt.Sprintf("%d", data.CurrentQty))
	row("OK / NG", fmt.Sprintf("%d / %d", data.OKCount, data.NGCount), "Yield", data.YieldPct.StringFixed(2)+"%")

	pdf.Ln(3)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Units ─────────────────────────────────────────────────────────────────
	cols := []struct {
		title string
		width float64
		align string
	}{
		{"#", contentW * 0.06, "R"},
		{"Serial", contentW * 0.30, "L"},
		{"Result", contentW * 0.10, "C"},
		{"Defect", contentW * 0.14, "L"},
		{"Machine", contentW * 0.16, "L"},
		{"Produced at", contentW * 0.24, "L"},
	}
	pdf.SetFont("Helvetica", "B", 8)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 6, c.title, "B", ln, c.align, false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for i, u := range data.Units {
		defect := u.DefectCode
		if defect == "" {
			defect = "-"
		}
		values := []string{
			fmt.Sprintf("%d", i+1),
			u.SerialNo,
			u.Result,
			defect,
			u.MachineID,
			u.ProducedAt.Format("2006-01-02 15:04:05"),
		}
		for j, c := range cols {
			ln := 0
			if j == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.width, 5, values[j], "", ln, c.align, false, 0, "")
		}
	}

	if len(data.Units) == 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 6, "No units reported yet.", "", 1, "C", false, 0, "")
	}
	return pdf
}
