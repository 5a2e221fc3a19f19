package vendas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/vendasload/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkguid"
	"github.com/shandysiswandi/vendasload/internal/vendas/inbound"
	"github.com/shandysiswandi/vendasload/internal/vendas/sheet"
	"github.com/shandysiswandi/vendasload/internal/vendas/source"
	"github.com/shandysiswandi/vendasload/internal/vendas/usecase"
	"github.com/shandysiswandi/vendasload/internal/vendas/warehouse"
)

type Dependency struct {
	Config  pkgconfig.Config
	Router  *pkgrouter.Router
	Context context.Context

	// Source and Warehouse replace the configured drivers when set. The
	// caller keeps ownership and closes them.
	Source    usecase.ObjectStore
	Warehouse usecase.Warehouse
}

type closeFunc func() error

func noop() error { return nil }

// New builds the vendas ingestion module: one object store client and one
// warehouse client shared by every request. The returned closer releases both.
func New(dep Dependency) (func(context.Context) error, error) {
	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := dep.Config

	loc, err := time.LoadLocation(cfg.GetString("vendas.load_date.timezone"))
	if err != nil {
		return nil, fmt.Errorf("vendas: load date timezone: %w", err)
	}

	src, closeSource := dep.Source, noop
	if src == nil {
		src, closeSource, err = newObjectStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		_ = closeSource()
		return nil, fmt.Errorf("vendas: job id generator: %w", err)
	}
	jobID := pkguid.NewPrefixed(cfg.GetString("vendas.warehouse.job_prefix"), sf)

	wh, closeWarehouse := dep.Warehouse, noop
	if wh == nil {
		wh, closeWarehouse, err = newWarehouse(ctx, cfg, jobID)
		if err != nil {
			_ = closeSource()
			return nil, err
		}
	}

	uc := usecase.New(usecase.Dependency{
		Source:    src,
		Parser:    sheet.NewXLSX(cfg.GetString("vendas.sheet.name")),
		Warehouse: wh,
		Settings: usecase.Settings{
			Bucket:         cfg.GetString("vendas.source.bucket"),
			DefaultFile:    cfg.GetString("vendas.default_file"),
			LoadDateColumn: cfg.GetString("vendas.load_date.column"),
			Location:       loc,
		},
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return func(context.Context) error {
		return errors.Join(closeSource(), closeWarehouse())
	}, nil
}

func newObjectStore(ctx context.Context, cfg pkgconfig.Config) (usecase.ObjectStore, closeFunc, error) {
	switch driver := cfg.GetString("vendas.source.driver"); driver {
	case "gcs", "":
		gcs, err := source.NewGCS(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("vendas: gcs: %w", err)
		}
		return gcs, gcs.Close, nil
	case "s3":
		s3, err := source.NewS3(ctx, source.S3Config{
			Region:   cfg.GetString("vendas.source.s3.region"),
			Endpoint: cfg.GetString("vendas.source.s3.endpoint"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("vendas: %w", err)
		}
		return s3, noop, nil
	default:
		return nil, nil, fmt.Errorf("vendas: unknown source driver %q", driver)
	}
}

func newWarehouse(ctx context.Context, cfg pkgconfig.Config, jobID pkguid.StringID) (usecase.Warehouse, closeFunc, error) {
	dataset := cfg.GetString("vendas.warehouse.dataset")
	table := cfg.GetString("vendas.warehouse.table")

	switch driver := cfg.GetString("vendas.warehouse.driver"); driver {
	case "bigquery", "":
		bq, err := warehouse.NewBigQuery(ctx, warehouse.BigQueryConfig{
			Project:  cfg.GetString("vendas.warehouse.project"),
			Dataset:  dataset,
			Table:    table,
			Location: cfg.GetString("vendas.warehouse.location"),
		}, jobID)
		if err != nil {
			return nil, nil, fmt.Errorf("vendas: %w", err)
		}
		return bq, bq.Close, nil
	case "postgres":
		db, err := warehouse.OpenPostgres(ctx, cfg.GetString("vendas.warehouse.postgres.dsn"))
		if err != nil {
			return nil, nil, fmt.Errorf("vendas: %w", err)
		}
		pg := warehouse.NewPostgres(db, dataset, table, jobID)
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("vendas: unknown warehouse driver %q", driver)
	}
}
