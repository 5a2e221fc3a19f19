package entity

// ColumnKind is the warehouse type inferred for a dataset column.
type ColumnKind string

const (
	ColumnKindNull      ColumnKind = "NULL"
	ColumnKindString    ColumnKind = "STRING"
	ColumnKindInteger   ColumnKind = "INTEGER"
	ColumnKindFloat     ColumnKind = "FLOAT"
	ColumnKindBoolean   ColumnKind = "BOOLEAN"
	ColumnKindTimestamp ColumnKind = "TIMESTAMP"
	ColumnKindDate      ColumnKind = "DATE"
)

// KindOf reports the column kind of a single cell value.
func KindOf(v any) ColumnKind {
	switch v.(type) {
	case nil:
		return ColumnKindNull
	case int64:
		return ColumnKindInteger
	case float64:
		return ColumnKindFloat
	case bool:
		return ColumnKindBoolean
	case Date:
		return ColumnKindDate
	case Timestamp:
		return ColumnKindTimestamp
	default:
		return ColumnKindString
	}
}

// widen returns the narrowest kind able to hold values of both a and b.
func widen(a, b ColumnKind) ColumnKind {
	switch {
	case a == ColumnKindNull:
		return b
	case b == ColumnKindNull, a == b:
		return a
	case a == ColumnKindInteger && b == ColumnKindFloat, a == ColumnKindFloat && b == ColumnKindInteger:
		return ColumnKindFloat
	default:
		return ColumnKindString
	}
}
