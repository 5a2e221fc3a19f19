package warehouse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shandysiswandi/vendasload/internal/vendas/entity"
)

// timestampLayout keeps microsecond precision, the finest BigQuery stores.
const timestampLayout = "2006-01-02T15:04:05.999999Z07:00"

// encodeNDJSON renders ds as newline-delimited JSON, one object per row.
// Null cells are left out of the object so the column loads as NULL.
func encodeNDJSON(ds entity.Dataset, kinds []entity.ColumnKind) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	for n, row := range ds.Rows {
		record := make(map[string]any, len(ds.Columns))
		for i, col := range ds.Columns {
			v := cellValue(row[i], kinds[i])
			if v == nil {
				continue
			}
			record[col] = v
		}

		if err := enc.Encode(record); err != nil {
			return nil, fmt.Errorf("encode row %d: %w", n, err)
		}
	}

	return buf, nil
}

// cellValue converts a dataset cell into the representation the warehouse
// expects for a column of the given kind.
func cellValue(v any, kind entity.ColumnKind) any {
	if v == nil {
		return nil
	}

	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}

	if kind == entity.ColumnKindString {
		return stringify(v)
	}

	switch val := v.(type) {
	case entity.Timestamp:
		return val.UTC().Format(timestampLayout)
	case entity.Date:
		return val.String()
	default:
		return val
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(timestampLayout)
	case entity.Date:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
