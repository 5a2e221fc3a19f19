package entity

import (
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar date without time zone, as stored in DATE columns.
type Date = civil.Date

// Timestamp is an absolute instant, as stored in TIMESTAMP columns.
type Timestamp = time.Time

// Dataset is an in-memory table parsed from a spreadsheet.
//
// Cells hold nil, string, int64, float64, bool, Timestamp or Date. Every row
// has exactly len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of the named column or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, col := range d.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// SetColumn assigns value to the named column on every row. An existing column
// of that name is overwritten in place, otherwise the column is appended.
func (d *Dataset) SetColumn(name string, value any) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		d.Columns = append(d.Columns, name)
		for i := range d.Rows {
			d.Rows[i] = append(d.Rows[i], value)
		}
		return
	}

	for i := range d.Rows {
		d.Rows[i][idx] = value
	}
}

// Kinds infers one ColumnKind per column. Integer and float mix to FLOAT, any
// other mix falls back to STRING and an all-null column is STRING.
func (d *Dataset) Kinds() []ColumnKind {
	kinds := make([]ColumnKind, len(d.Columns))
	for i := range kinds {
		kinds[i] = ColumnKindNull
	}

	for _, row := range d.Rows {
		for i, v := range row {
			kinds[i] = widen(kinds[i], KindOf(v))
		}
	}

	for i, k := range kinds {
		if k == ColumnKindNull {
			kinds[i] = ColumnKindString
		}
	}

	return kinds
}
