package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkguid"
	"github.com/shandysiswandi/vendasload/internal/vendas/entity"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type BigQueryConfig struct {
	// Project is the GCP project. Empty detects it from the credentials.
	Project  string
	Dataset  string
	Table    string
	Location string
}

// BigQuery appends datasets to a table through load jobs.
type BigQuery struct {
	client   *bigquery.Client
	table    *bigquery.Table
	location string
	jobID    pkguid.StringID
}

func NewBigQuery(ctx context.Context, cfg BigQueryConfig, jobID pkguid.StringID, opts ...option.ClientOption) (*BigQuery, error) {
	project := cfg.Project
	if project == "" {
		project = bigquery.DetectProjectID
	}

	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}

	if cfg.Location != "" {
		client.Location = cfg.Location
	}

	return &BigQuery{
		client:   client,
		table:    client.Dataset(cfg.Dataset).Table(cfg.Table),
		location: cfg.Location,
		jobID:    jobID,
	}, nil
}

// Table returns the fully qualified table name, project.dataset.table.
func (b *BigQuery) Table() string {
	return fmt.Sprintf("%s.%s.%s", b.table.ProjectID, b.table.DatasetID, b.table.TableID)
}

// Append runs a WRITE_APPEND load job and waits for it to finish. The table
// is created from the inferred schema when it does not exist yet; an existing
// table keeps its own schema.
func (b *BigQuery) Append(ctx context.Context, ds entity.Dataset) (entity.LoadJob, error) {
	kinds := ds.Kinds()

	body, err := encodeNDJSON(ds, kinds)
	if err != nil {
		return entity.LoadJob{}, err
	}

	exists, err := b.tableExists(ctx)
	if err != nil {
		return entity.LoadJob{}, err
	}

	src := bigquery.NewReaderSource(body)
	src.SourceFormat = bigquery.JSON
	if !exists {
		src.Schema = schemaFor(ds.Columns, kinds)
	}

	loader := b.table.LoaderFrom(src)
	loader.WriteDisposition = bigquery.WriteAppend
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.JobID = b.jobID.Generate()
	loader.Location = b.location

	job, err := loader.Run(ctx)
	if err != nil {
		return entity.LoadJob{}, fmt.Errorf("start load job %s: %w", loader.JobID, err)
	}

	slog.DebugContext(ctx, "load job started", "job_id", job.ID(), "table", b.Table(), "create_table", !exists)

	status, err := job.Wait(ctx)
	if err != nil {
		return entity.LoadJob{}, fmt.Errorf("wait load job %s: %w", job.ID(), err)
	}
	if err := status.Err(); err != nil {
		return entity.LoadJob{}, fmt.Errorf("load job %s: %w", job.ID(), err)
	}

	rows := int64(ds.Len())
	if status.Statistics != nil {
		if stats, ok := status.Statistics.Details.(*bigquery.LoadStatistics); ok {
			rows = stats.OutputRows
		}
	}

	return entity.LoadJob{ID: job.ID(), Table: b.Table(), Rows: rows}, nil
}

func (b *BigQuery) tableExists(ctx context.Context) (bool, error) {
	_, err := b.table.Metadata(ctx)
	if err == nil {
		return true, nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return false, nil
	}

	return false, fmt.Errorf("table metadata %s: %w", b.Table(), err)
}

func (b *BigQuery) Close() error {
	return b.client.Close()
}

func schemaFor(columns []string, kinds []entity.ColumnKind) bigquery.Schema {
	schema := make(bigquery.Schema, 0, len(columns))
	for i, col := range columns {
		schema = append(schema, &bigquery.FieldSchema{
			Name: col,
			Type: fieldType(kinds[i]),
		})
	}
	return schema
}

func fieldType(kind entity.ColumnKind) bigquery.FieldType {
	switch kind {
	case entity.ColumnKindInteger:
		return bigquery.IntegerFieldType
	case entity.ColumnKindFloat:
		return bigquery.FloatFieldType
	case entity.ColumnKindBoolean:
		return bigquery.BooleanFieldType
	case entity.ColumnKindTimestamp:
		return bigquery.TimestampFieldType
	case entity.ColumnKindDate:
		return bigquery.DateFieldType
	default:
		return bigquery.StringFieldType
	}
}
