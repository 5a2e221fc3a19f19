package sheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/shandysiswandi/vendasload/internal/vendas/entity"
	"github.com/tealeg/xlsx/v3"
)

var (
	ErrNoSheet  = errors.New("workbook has no worksheet")
	ErrNoHeader = errors.New("worksheet has no header row")
)

// XLSX parses Office Open XML workbooks. The first non-empty row of the
// selected worksheet is the header; every following non-empty row is data.
type XLSX struct {
	sheetName string
}

// NewXLSX returns a parser reading the named worksheet, or the first worksheet
// when sheetName is empty.
func NewXLSX(sheetName string) *XLSX {
	return &XLSX{sheetName: sheetName}
}

func (p *XLSX) Parse(ctx context.Context, content []byte) (entity.Dataset, error) {
	wb, err := xlsx.OpenBinary(content)
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("xlsx: open workbook: %w", err)
	}

	sh, err := p.pick(wb)
	if err != nil {
		return entity.Dataset{}, err
	}

	width := sh.MaxCol
	var (
		ds        entity.Dataset
		haveHead  bool
		emptyRows int
	)

	err = sh.ForEachRow(func(row *xlsx.Row) error {
		values := make([]any, width)
		empty := true
		for col := 0; col < width; col++ {
			v, err := cellValue(row.GetCell(col), wb.Date1904)
			if err != nil {
				return fmt.Errorf("row %d column %d: %w", row.GetCoordinate()+1, col+1, err)
			}
			if v != nil {
				empty = false
			}
			values[col] = v
		}

		switch {
		case empty:
			emptyRows++
		case !haveHead:
			ds.Columns = headerNames(values)
			haveHead = true
		default:
			ds.Rows = append(ds.Rows, values)
		}
		return nil
	})
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("xlsx: read sheet %q: %w", sh.Name, err)
	}

	if !haveHead {
		return entity.Dataset{}, fmt.Errorf("xlsx: sheet %q: %w", sh.Name, ErrNoHeader)
	}

	slog.DebugContext(ctx, "worksheet parsed",
		"sheet", sh.Name,
		"columns", len(ds.Columns),
		"rows", ds.Len(),
		"skipped_empty_rows", emptyRows,
	)

	return ds, nil
}

func (p *XLSX) pick(wb *xlsx.File) (*xlsx.Sheet, error) {
	if p.sheetName != "" {
		sh, ok := wb.Sheet[p.sheetName]
		if !ok {
			return nil, fmt.Errorf("xlsx: worksheet %q not found", p.sheetName)
		}
		return sh, nil
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: %w", ErrNoSheet)
	}
	return wb.Sheets[0], nil
}

// headerNames turns the header row into column names. Blank headers become
// "Unnamed: <index>" and repeated names get ".1", ".2"... suffixes.
func headerNames(values []any) []string {
	names := make([]string, len(values))
	used := make(map[string]bool, len(values))
	dups := make(map[string]int)

	for i, v := range values {
		base := strings.TrimSpace(headerText(v))
		if base == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}

		name := base
		for used[name] {
			dups[base]++
			name = base + "." + strconv.Itoa(dups[base])
		}
		used[name] = true
		names[i] = name
	}

	return names
}

func headerText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case entity.Timestamp:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(val)
	}
}

// maxExactFloat is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactFloat = 1 << 53

func cellValue(c *xlsx.Cell, date1904 bool) (any, error) {
	switch c.Type() {
	case xlsx.CellTypeBool:
		if c.Value == "" {
			return nil, nil
		}
		return c.Bool(), nil
	case xlsx.CellTypeNumeric:
		if c.Value == "" {
			return nil, nil
		}
		if c.IsTime() {
			return c.GetTime(date1904)
		}
		f, err := c.Float()
		if err != nil {
			return nil, err
		}
		if f == math.Trunc(f) && math.Abs(f) < maxExactFloat {
			return int64(f), nil
		}
		return f, nil
	case xlsx.CellTypeDate:
		if c.Value == "" {
			return nil, nil
		}
		if t, err := c.GetTime(date1904); err == nil {
			return t, nil
		}
		return c.Value, nil
	default:
		if c.Value == "" {
			return nil, nil
		}
		return c.Value, nil
	}
}
