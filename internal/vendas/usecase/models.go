package usecase

import (
	"time"
)

// LoadInput is the request to load one spreadsheet object.
type LoadInput struct {
	// FileName is the object name inside the bucket. Blank selects the default.
	FileName string
}

// LoadResult reports a successful append.
type LoadResult struct {
	FileName string
	Table    string
	JobID    string
	Rows     int64
}

// Settings are the fixed coordinates of the ingestion.
type Settings struct {
	Bucket         string
	DefaultFile    string
	LoadDateColumn string
	Location       *time.Location
}
