package spreadsheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet to write. Records hold values in Headers order;
// nil values are left empty.
type Sheet struct {
	Name    string
	Headers []string
	Records [][]any
}

// Write streams the sheets into a new xlsx container, header row first.
func Write(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.New("write workbook: no sheets")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for idx, sheet := range sheets {
		if idx == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("add sheet %q: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet); err != nil {
			return fmt.Errorf("write sheet %q: %w", sheet.Name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return err
	}

	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for idx, record := range sheet.Records {
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, record); err != nil {
			return err
		}
	}
	return sw.Flush()
}
