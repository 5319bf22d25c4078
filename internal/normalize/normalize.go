// Package normalize turns raw spreadsheet cells into canonical values.
// Every function is total: input it cannot interpret yields an absent value
// (nil pointer or an invalid decimal.NullDecimal), never an error.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/soge-platform/api/internal/spreadsheet"
)

const dateLayout = "2006-01-02"

var (
	brDatePattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Field is an ordered list of header aliases for one logical column.
type Field []string

// Lookup returns the cell of the first alias present as a key in the row.
// A present key holding an empty cell still wins over later aliases.
func Lookup(row spreadsheet.Row, field Field) *spreadsheet.Cell {
	for _, alias := range field {
		if cell, ok := row.Values[alias]; ok {
			return cell
		}
	}
	return nil
}

func Text(c *spreadsheet.Cell) *string {
	if c == nil {
		return nil
	}
	var s string
	switch c.Kind {
	case spreadsheet.KindNumber:
		s = strconv.FormatFloat(c.Number, 'f', -1, 64)
	case spreadsheet.KindDate:
		s = c.Time.UTC().Format(dateLayout)
	case spreadsheet.KindBool:
		s = strconv.FormatBool(c.Bool)
	default:
		s = strings.TrimSpace(c.Text)
	}
	if s == "" {
		return nil
	}
	return &s
}

// Int accepts native numbers and decimal-comma text, truncating toward zero.
func Int(c *spreadsheet.Cell) *int32 {
	if c == nil {
		return nil
	}
	var f float64
	switch c.Kind {
	case spreadsheet.KindNumber:
		f = c.Number
	case spreadsheet.KindText:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Trunc(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}
	v := int32(f)
	return &v
}

// Money reads pt-BR formatted amounts: dots are thousands separators and the
// first comma is the decimal separator.
func Money(c *spreadsheet.Cell) decimal.NullDecimal {
	if c == nil {
		return decimal.NullDecimal{}
	}
	switch c.Kind {
	case spreadsheet.KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(c.Number))
	case spreadsheet.KindText:
		s := strings.TrimSpace(c.Text)
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		if s == "" {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

// Date returns a YYYY-MM-DD string. Numbers are spreadsheet serials in the
// 1900 date system; text must be DD/MM/YYYY or YYYY-MM-DD and a real date.
func Date(c *spreadsheet.Cell) *string {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case spreadsheet.KindDate:
		return formatDate(c.Time)
	case spreadsheet.KindNumber:
		if c.Number <= 0 || math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return nil
		}
		t, err := excelize.ExcelDateToTime(c.Number, false)
		if err != nil {
			return nil
		}
		return formatDate(t)
	case spreadsheet.KindText:
		s := strings.TrimSpace(c.Text)
		var layout string
		switch {
		case brDatePattern.MatchString(s):
			layout = "02/01/2006"
		case isoDatePattern.MatchString(s):
			layout = dateLayout
		default:
			return nil
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil
		}
		return formatDate(t)
	default:
		return nil
	}
}

func formatDate(t time.Time) *string {
	s := t.UTC().Format(dateLayout)
	return &s
}

// Time accepts H:MM or HH:MM text and returns HH:MM.
func Time(c *spreadsheet.Cell) *string {
	if c == nil || c.Kind != spreadsheet.KindText {
		return nil
	}
	m := timePattern.FindStringSubmatch(strings.TrimSpace(c.Text))
	if m == nil {
		return nil
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return nil
	}
	s := m[1] + ":" + m[2]
	if len(m[1]) == 1 {
		s = "0" + s
	}
	return &s
}
