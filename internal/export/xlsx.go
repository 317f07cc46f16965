package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nhle/order-tracker/internal/model"
)

const (
	ordersSheet = "Orders"
	codesSheet  = "Codes"
)

// SaveWorkbook writes orders and codes to an XLSX workbook with one
// sheet each.
func SaveWorkbook(path string, orders []model.Order, codes []model.XboxCode) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(codesSheet); err != nil {
		return fmt.Errorf("adding sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	orderRows := make([][]string, 0, len(orders))
	for _, o := range orders {
		orderRows = append(orderRows, orderRecord(o))
	}
	if err := writeSheet(f, ordersSheet, OrderColumns, orderRows, header); err != nil {
		return err
	}

	codeRows := make([][]string, 0, len(codes))
	for _, c := range codes {
		codeRows = append(codeRows, codeRecord(c))
	}
	if err := writeSheet(f, codesSheet, CodeColumns, codeRows, header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]string, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", toCells(columns)); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, toCells(row)); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 22)
}

func toCells(values []string) *[]interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return &cells
}
