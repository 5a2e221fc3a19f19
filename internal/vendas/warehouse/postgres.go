package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkguid"
	"github.com/shandysiswandi/vendasload/internal/vendas/entity"
)

// Postgres appends datasets to schema.table with COPY FROM STDIN. Each append
// runs in its own transaction, so a failed load leaves no rows behind.
type Postgres struct {
	db     *sql.DB
	schema string
	table  string
	jobID  pkguid.StringID
}

// OpenPostgres opens a lib/pq connection pool and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func NewPostgres(db *sql.DB, schema, table string, jobID pkguid.StringID) *Postgres {
	return &Postgres{db: db, schema: schema, table: table, jobID: jobID}
}

func (p *Postgres) Table() string {
	return p.schema + "." + p.table
}

func (p *Postgres) Append(ctx context.Context, ds entity.Dataset) (entity.LoadJob, error) {
	kinds := ds.Kinds()
	id := p.jobID.Generate()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.LoadJob{}, fmt.Errorf("begin %s: %w", id, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, createTableSQL(p.schema, p.table, ds.Columns, kinds)); err != nil {
		return entity.LoadJob{}, fmt.Errorf("create table %s: %w", p.Table(), err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyInSchema(p.schema, p.table, ds.Columns...))
	if err != nil {
		return entity.LoadJob{}, fmt.Errorf("prepare copy %s: %w", p.Table(), err)
	}
	defer stmt.Close()

	args := make([]any, len(ds.Columns))
	for n, row := range ds.Rows {
		for i, v := range row {
			args[i] = cellValue(v, kinds[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return entity.LoadJob{}, fmt.Errorf("copy row %d: %w", n, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return entity.LoadJob{}, fmt.Errorf("flush copy %s: %w", p.Table(), err)
	}

	if err := tx.Commit(); err != nil {
		return entity.LoadJob{}, fmt.Errorf("commit %s: %w", id, err)
	}

	return entity.LoadJob{ID: id, Table: p.Table(), Rows: int64(ds.Len())}, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func createTableSQL(schema, table string, columns []string, kinds []entity.ColumnKind) string {
	defs := make([]string, 0, len(columns))
	for i, col := range columns {
		defs = append(defs, pq.QuoteIdentifier(col)+" "+columnType(kinds[i]))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (%s)",
		pq.QuoteIdentifier(schema),
		pq.QuoteIdentifier(table),
		strings.Join(defs, ", "),
	)
}

func columnType(kind entity.ColumnKind) string {
	switch kind {
	case entity.ColumnKindInteger:
		return "BIGINT"
	case entity.ColumnKindFloat:
		return "DOUBLE PRECISION"
	case entity.ColumnKindBoolean:
		return "BOOLEAN"
	case entity.ColumnKindTimestamp:
		return "TIMESTAMPTZ"
	case entity.ColumnKindDate:
		return "DATE"
	default:
		return "TEXT"
	}
}
