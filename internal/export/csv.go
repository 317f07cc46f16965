package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nhle/order-tracker/internal/model"
)

// WriteOrdersCSV writes orders with a header row.
func WriteOrdersCSV(w io.Writer, orders []model.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRecord(o))
	}
	return writeCSV(w, OrderColumns, rows)
}

// WriteCodesCSV writes codes with a header row.
func WriteCodesCSV(w io.Writer, codes []model.XboxCode) error {
	rows := make([][]string, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, codeRecord(c))
	}
	return writeCSV(w, CodeColumns, rows)
}

// SaveOrdersCSV replaces the file at path with the orders export.
func SaveOrdersCSV(path string, orders []model.Order) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteOrdersCSV(w, orders)
	})
}

// SaveCodesCSV replaces the file at path with the codes export.
func SaveCodesCSV(path string, codes []model.XboxCode) error {
	return saveFile(path, func(w io.Writer) error {
		return WriteCodesCSV(w, codes)
	})
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	return nil
}

func saveFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return f.Close()
}
