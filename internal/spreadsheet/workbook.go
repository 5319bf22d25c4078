// Package spreadsheet reads uploaded workbooks into header-keyed rows and
// resolves which sheet holds each kind of record.
package spreadsheet

import (
	"strings"
	"time"
)

type Kind int

const (
	KindText Kind = iota + 1
	KindNumber
	KindDate
	KindBool
)

// Cell is one non-empty cell value. A nil *Cell stands for an empty cell.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
	Bool   bool
}

func TextCell(value string) *Cell {
	return &Cell{Kind: KindText, Text: value}
}

func NumberCell(value float64) *Cell {
	return &Cell{Kind: KindNumber, Number: value}
}

func DateCell(value time.Time) *Cell {
	return &Cell{Kind: KindDate, Time: value}
}

func BoolCell(value bool) *Cell {
	return &Cell{Kind: KindBool, Bool: value}
}

// Row maps header labels to cells. Every header of the sheet is present as a
// key; empty cells are stored as nil values.
type Row struct {
	Line   int
	Values map[string]*Cell
}

type Workbook struct {
	SheetNames []string
	sheets     map[string][]Row
}

func NewWorkbook() *Workbook {
	return &Workbook{sheets: map[string][]Row{}}
}

// AddSheet appends a sheet, replacing the rows of an existing sheet with the
// same name.
func (w *Workbook) AddSheet(name string, rows []Row) {
	if _, ok := w.sheets[name]; !ok {
		w.SheetNames = append(w.SheetNames, name)
	}
	w.sheets[name] = rows
}

func (w *Workbook) Rows(name string) []Row {
	return w.sheets[name]
}

// Find returns the first sheet matching one of the candidates, see Resolve.
func (w *Workbook) Find(candidates ...string) (string, bool) {
	return Resolve(w.SheetNames, candidates...)
}

// Resolve walks candidates in order and returns the first sheet name that
// equals the candidate ignoring case and surrounding whitespace.
func Resolve(names []string, candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		want := strings.ToLower(candidate)
		for _, name := range names {
			if strings.ToLower(strings.TrimSpace(name)) == want {
				return name, true
			}
		}
	}
	return "", false
}
