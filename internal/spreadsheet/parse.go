package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// Parse opens an xlsx container and reads every worksheet. The first
// non-blank row of a sheet is its header; fully blank rows are dropped.
func Parse(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.AddSheet(name, rows)
	}
	return wb, nil
}

func readSheet(f *excelize.File, sheet string) ([]Row, error) {
	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	headerIdx := -1
	for idx, record := range records {
		if !isBlank(record) {
			headerIdx = idx
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil
	}

	headers := headerKeys(records[headerIdx])
	rows := make([]Row, 0, len(records)-headerIdx-1)
	for idx := headerIdx + 1; idx < len(records); idx++ {
		record := records[idx]
		if isBlank(record) {
			continue
		}

		line := idx + 1
		values := make(map[string]*Cell, len(headers))
		for col, key := range headers {
			if key == "" {
				continue
			}
			var cell *Cell
			if col < len(record) && record[col] != "" {
				axis, err := excelize.CoordinatesToCellName(col+1, line)
				if err != nil {
					return nil, err
				}
				cell, err = typedCell(f, sheet, axis, record[col])
				if err != nil {
					return nil, err
				}
			}
			values[key] = cell
		}
		rows = append(rows, Row{Line: line, Values: values})
	}
	return rows, nil
}

func typedCell(f *excelize.File, sheet, axis, raw string) (*Cell, error) {
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, fmt.Errorf("cell %s type: %w", axis, err)
	}

	switch cellType {
	case excelize.CellTypeError:
		return nil, nil
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if t, ok := parseISOTime(raw); ok {
			return DateCell(t), nil
		}
		return TextCell(raw), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(n), nil
		}
		return TextCell(raw), nil
	default:
		return TextCell(raw), nil
	}
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseISOTime(raw string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// headerKeys trims and NFC-normalizes labels. Blank labels yield "" and the
// column is ignored; repeated labels get _1, _2 suffixes.
func headerKeys(record []string) []string {
	keys := make([]string, len(record))
	seen := make(map[string]int, len(record))
	for idx, label := range record {
		key := norm.NFC.String(strings.TrimSpace(strings.TrimPrefix(label, "\ufeff")))
		if key == "" {
			continue
		}
		count := seen[key]
		seen[key] = count + 1
		if count > 0 {
			key = fmt.Sprintf("%s_%d", key, count)
		}
		keys[idx] = key
	}
	return keys
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
