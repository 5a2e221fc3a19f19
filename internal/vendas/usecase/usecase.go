package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgerror"
	"github.com/shandysiswandi/vendasload/internal/vendas/entity"
)

// ObjectStore reads whole objects from a bucket. A missing object must be
// reported with an error wrapping pkgerror.ErrNotFound.
type ObjectStore interface {
	Fetch(ctx context.Context, bucket, name string) ([]byte, error)
}

// Parser turns spreadsheet bytes into a dataset.
type Parser interface {
	Parse(ctx context.Context, content []byte) (entity.Dataset, error)
}

// Warehouse appends a dataset to the target table and blocks until the load
// completes. Loads are strictly additive.
type Warehouse interface {
	Append(ctx context.Context, ds entity.Dataset) (entity.LoadJob, error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Source    ObjectStore
	Parser    Parser
	Warehouse Warehouse
	Clock     Clock
	Settings  Settings
}

type Usecase struct {
	source    ObjectStore
	parser    Parser
	warehouse Warehouse
	clock     Clock
	settings  Settings
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	settings := dep.Settings
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	return &Usecase{
		source:    dep.Source,
		parser:    dep.Parser,
		warehouse: dep.Warehouse,
		clock:     clock,
		settings:  settings,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Load fetches the object, parses it, stamps every row with today's date and
// appends the rows to the warehouse. Nothing is retried and re-running the
// same file appends the rows again.
func (u *Usecase) Load(ctx context.Context, in LoadInput) (LoadResult, error) {
	if u.source == nil || u.parser == nil || u.warehouse == nil {
		return LoadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		fileName = u.settings.DefaultFile
	}

	logger := slog.With("bucket", u.settings.Bucket, "file_name", fileName)

	content, err := u.source.Fetch(ctx, u.settings.Bucket, fileName)
	if err != nil {
		return LoadResult{}, u.fail(ctx, logger, mapSourceErr(err))
	}

	ds, err := u.parser.Parse(ctx, content)
	if err != nil {
		return LoadResult{}, u.fail(ctx, logger, stageErr(err, pkgerror.CodeMalformedSheet))
	}

	loadDate := civil.DateOf(u.clock.Now().In(u.settings.Location))
	if err := appendLoadDate(&ds, u.settings.LoadDateColumn, loadDate); err != nil {
		return LoadResult{}, u.fail(ctx, logger, stageErr(err, pkgerror.CodeTransform))
	}

	job, err := u.warehouse.Append(ctx, ds)
	if err != nil {
		return LoadResult{}, u.fail(ctx, logger, stageErr(err, pkgerror.CodeLoadFailed))
	}

	logger.InfoContext(ctx, "load finished",
		"rows", job.Rows,
		"table", job.Table,
		"job_id", job.ID,
		"load_date", loadDate.String(),
	)

	return LoadResult{
		FileName: fileName,
		Table:    job.Table,
		JobID:    job.ID,
		Rows:     job.Rows,
	}, nil
}

func (u *Usecase) fail(ctx context.Context, logger *slog.Logger, err error) error {
	stage := pkgerror.CodeInternal
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		stage = perr.Code()
	}

	logger.ErrorContext(ctx, "load failed", "stage", stage.String(), "error", err)
	return err
}

func appendLoadDate(ds *entity.Dataset, column string, date civil.Date) error {
	if column == "" {
		return errors.New("load date column name is empty")
	}
	if !date.IsValid() {
		return errors.New("load date is not a valid calendar date")
	}

	ds.SetColumn(column, date)
	return nil
}

func mapSourceErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return stageErr(err, pkgerror.CodeSourceNotFound)
	}
	return stageErr(err, pkgerror.CodeSourceUnavailable)
}

func stageErr(err error, code pkgerror.Code) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewDependency(err, code)
}
