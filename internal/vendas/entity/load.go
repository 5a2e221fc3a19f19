package entity

// LoadJob describes a finished append into the warehouse.
type LoadJob struct {
	ID    string
	Table string
	Rows  int64
}
