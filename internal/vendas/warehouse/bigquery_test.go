package warehouse

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkguid"
	"github.com/shandysiswandi/vendasload/internal/vendas/entity"
	"google.golang.org/api/option"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

var _ pkguid.StringID = fixedID("")

func newTestBigQuery(t *testing.T, handler http.HandlerFunc) *BigQuery {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	bq, err := NewBigQuery(context.Background(), BigQueryConfig{
		Project: "proj",
		Dataset: "BRONZE",
		Table:   "vendas",
	}, fixedID("vendas_load_1"),
		option.WithEndpoint(srv.URL+"/bigquery/v2/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewBigQuery: %v", err)
	}
	t.Cleanup(func() { _ = bq.Close() })

	return bq
}

func TestBigQueryTable(t *testing.T) {
	bq := newTestBigQuery(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if got := bq.Table(); got != "proj.BRONZE.vendas" {
		t.Fatalf("Table() = %q", got)
	}
}

func TestBigQueryTableExists(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr bool
	}{
		{
			name:   "existing table",
			status: http.StatusOK,
			body:   `{"kind":"bigquery#table","id":"proj:BRONZE.vendas","type":"TABLE","tableReference":{"projectId":"proj","datasetId":"BRONZE","tableId":"vendas"}}`,
			want:   true,
		},
		{
			name:   "missing table",
			status: http.StatusNotFound,
			body:   `{"error":{"code":404,"message":"Not found: Table proj:BRONZE.vendas","errors":[{"reason":"notFound","message":"Not found"}]}}`,
			want:   false,
		},
		{
			name:    "permission denied",
			status:  http.StatusForbidden,
			body:    `{"error":{"code":403,"message":"Access Denied","errors":[{"reason":"accessDenied","message":"Access Denied"}]}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bq := newTestBigQuery(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			got, err := bq.tableExists(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("tableExists: %v", err)
			}
			if got != tt.want {
				t.Fatalf("tableExists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchemaFor(t *testing.T) {
	columns := []string{"id", "preco", "produto", "ativo", "criado_em", "dat_ref_carga"}
	kinds := []entity.ColumnKind{
		entity.ColumnKindInteger,
		entity.ColumnKindFloat,
		entity.ColumnKindString,
		entity.ColumnKindBoolean,
		entity.ColumnKindTimestamp,
		entity.ColumnKindDate,
	}

	got := schemaFor(columns, kinds)

	want := bigquery.Schema{
		{Name: "id", Type: bigquery.IntegerFieldType},
		{Name: "preco", Type: bigquery.FloatFieldType},
		{Name: "produto", Type: bigquery.StringFieldType},
		{Name: "ativo", Type: bigquery.BooleanFieldType},
		{Name: "criado_em", Type: bigquery.TimestampFieldType},
		{Name: "dat_ref_carga", Type: bigquery.DateFieldType},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Type != want[i].Type {
			t.Fatalf("field %d: want %s %s, got %s %s", i, want[i].Name, want[i].Type, got[i].Name, got[i].Type)
		}
	}
}

const (
	tableFound    = `{"kind":"bigquery#table","id":"proj:BRONZE.vendas","type":"TABLE","tableReference":{"projectId":"proj","datasetId":"BRONZE","tableId":"vendas"}}`
	tableNotFound = `{"error":{"code":404,"message":"Not found: Table proj:BRONZE.vendas","errors":[{"reason":"notFound","message":"Not found"}]}}`
)

func loadJob(state, extra string) string {
	return `{"kind":"bigquery#job","id":"proj:US.vendas_load_1",` +
		`"jobReference":{"projectId":"proj","jobId":"vendas_load_1","location":"US"},` +
		`"configuration":{"jobType":"LOAD","load":{"destinationTable":{"projectId":"proj","datasetId":"BRONZE","tableId":"vendas"}}},` +
		`"status":{"state":"` + state + `"` + extra + `}}`
}

func doneJob(outputRows string) string {
	job := loadJob("DONE", "")
	return strings.TrimSuffix(job, "}") +
		`,"statistics":{"creationTime":"1","startTime":"1","endTime":"2","load":{"outputRows":"` + outputRows + `"}}}`
}

// fakeBigQuery answers tables.get, the multipart jobs.insert upload and
// jobs.get, and keeps the uploaded body.
type fakeBigQuery struct {
	tableStatus int
	tableBody   string
	jobBody     string

	mu     sync.Mutex
	upload string
}

func (f *fakeBigQuery) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/tables/"):
		w.WriteHeader(f.tableStatus)
		_, _ = io.WriteString(w, f.tableBody)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/jobs"):
		raw, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.upload = string(raw)
		f.mu.Unlock()
		_, _ = io.WriteString(w, loadJob("RUNNING", ""))
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/jobs/"):
		_, _ = io.WriteString(w, f.jobBody)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"unexpected `+r.Method+` `+r.URL.Path+`"}}`)
	}
}

func (f *fakeBigQuery) uploaded() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upload
}

func TestBigQueryAppend(t *testing.T) {
	date := civil.Date{Year: 2026, Month: time.October, Day: 16}
	ds := entity.Dataset{
		Columns: []string{"produto", "qtd", "dat_ref_carga"},
		Rows: [][]any{
			{"caneta", int64(2), date},
			{"lapis", int64(5), date},
		},
	}

	tests := []struct {
		name        string
		fake        *fakeBigQuery
		wantErr     bool
		wantRows    int64
		wantInBody  []string
		wantNotBody []string
	}{
		{
			name:     "missing table sends schema",
			fake:     &fakeBigQuery{tableStatus: http.StatusNotFound, tableBody: tableNotFound, jobBody: doneJob("2")},
			wantRows: 2,
			wantInBody: []string{
				`"WRITE_APPEND"`,
				`"CREATE_IF_NEEDED"`,
				`"NEWLINE_DELIMITED_JSON"`,
				`"schema"`,
				`"dat_ref_carga"`,
				`"DATE"`,
				`"vendas_load_1"`,
				`"dat_ref_carga":"2026-10-16"`,
			},
		},
		{
			name:        "existing table keeps its schema",
			fake:        &fakeBigQuery{tableStatus: http.StatusOK, tableBody: tableFound, jobBody: doneJob("2")},
			wantRows:    2,
			wantInBody:  []string{`"WRITE_APPEND"`, `"dat_ref_carga":"2026-10-16"`},
			wantNotBody: []string{`"schema"`},
		},
		{
			name: "failed job",
			fake: &fakeBigQuery{
				tableStatus: http.StatusOK,
				tableBody:   tableFound,
				jobBody:     loadJob("DONE", `,"errorResult":{"reason":"invalid","message":"Provided Schema does not match Table"},"errors":[{"reason":"invalid","message":"Provided Schema does not match Table"}]`),
			},
			wantErr: true,
		},
		{
			name:     "row count from job statistics",
			fake:     &fakeBigQuery{tableStatus: http.StatusOK, tableBody: tableFound, jobBody: doneJob("7")},
			wantRows: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bq := newTestBigQuery(t, tt.fake.ServeHTTP)

			job, err := bq.Append(context.Background(), ds)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got job %+v", job)
				}
				return
			}
			if err != nil {
				t.Fatalf("Append: %v", err)
			}

			if job.ID != "vendas_load_1" || job.Table != "proj.BRONZE.vendas" {
				t.Fatalf("unexpected job: %+v", job)
			}
			if job.Rows != tt.wantRows {
				t.Fatalf("expected %d rows, got %d", tt.wantRows, job.Rows)
			}

			body := tt.fake.uploaded()
			for _, want := range tt.wantInBody {
				if !strings.Contains(body, want) {
					t.Fatalf("upload is missing %s:\n%s", want, body)
				}
			}
			for _, unwanted := range tt.wantNotBody {
				if strings.Contains(body, unwanted) {
					t.Fatalf("upload must not contain %s:\n%s", unwanted, body)
				}
			}
		})
	}
}
