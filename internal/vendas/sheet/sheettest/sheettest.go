// Package sheettest builds xlsx workbooks for tests.
package sheettest

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/tealeg/xlsx/v3"
)

// Workbook encodes rows into a single-sheet xlsx file named sheetName.
// Supported cell values: nil, string, int, int64, float64, bool, time.Time.
func Workbook(t testing.TB, sheetName string, rows [][]any) []byte {
	t.Helper()

	f := xlsx.NewFile()
	sh, err := f.AddSheet(sheetName)
	if err != nil {
		t.Fatalf("add sheet: %v", err)
	}

	for _, values := range rows {
		row := sh.AddRow()
		for _, v := range values {
			cell := row.AddCell()
			switch val := v.(type) {
			case nil:
			case string:
				cell.SetString(val)
			case int:
				cell.SetInt(val)
			case int64:
				cell.SetInt64(val)
			case float64:
				cell.SetFloat(val)
			case bool:
				cell.SetBool(val)
			case time.Time:
				cell.SetDate(val)
			default:
				t.Fatalf("unsupported cell value %T", v)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// Vendas returns a workbook with a header and n sales rows.
func Vendas(t testing.TB, n int) []byte {
	t.Helper()

	rows := [][]any{{"id_venda", "produto", "quantidade", "valor"}}
	for i := 1; i <= n; i++ {
		rows = append(rows, []any{i, "produto-" + strconv.Itoa(i), i * 2, float64(i) * 9.9})
	}
	return Workbook(t, "vendas", rows)
}
