package infra

import (
	"fmt"
	"io"

	"shopfloor/internal/model"

	"github.com/xuri/excelize/v2"
)

const productionLogSheet = "Production Log"

var productionLogHeader = []interface{}{
	"ID", "Work Order", "Product", "Machine", "Serial", "Result", "Defect", "Produced At",
}

// ProductionLogWorkbook builds a single-sheet .xlsx row by row through the
// excelize stream writer, so exports of any size are never held as a slice.
type ProductionLogWorkbook struct {
	f    *excelize.File
	sw   *excelize.StreamWriter
	next int
}

func NewProductionLogWorkbook() (*ProductionLogWorkbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", productionLogSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(productionLogSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: stream writer: %w", err)
	}
	if err := sw.SetRow("A1", productionLogHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: header: %w", err)
	}
	return &ProductionLogWorkbook{f: f, sw: sw, next: 2}, nil
}

// Append writes logs below the rows already added.
func (b *ProductionLogWorkbook) Append(logs []model.ProductionLog) error {
	for _, l := range logs {
		defect := ""
		if l.DefectCode != nil {
			defect = *l.DefectCode
		}
		cell, _ := excelize.CoordinatesToCellName(1, b.next)
		row := []interface{}{
			l.ID, l.WorkOrderNo, l.ProductCode, l.MachineID, l.SerialNo, l.Result, defect,
			l.ProducedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := b.sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", b.next, err)
		}
		b.next++
	}
	return nil
}

// WriteTo flushes the sheet and writes the finished workbook to w.
func (b *ProductionLogWorkbook) WriteTo(w io.Writer) (int64, error) {
	if err := b.sw.Flush(); err != nil {
		return 0, fmt.Errorf("xlsx: flush: %w", err)
	}
	n, err := b.f.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("xlsx: write: %w", err)
	}
	return n, nil
}

// Close releases the workbook's temporary files.
func (b *ProductionLogWorkbook) Close() error { return b.f.Close() }
