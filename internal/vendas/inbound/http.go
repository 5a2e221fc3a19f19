package inbound

import (
	"context"

	"github.com/shandysiswandi/vendasload/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/vendasload/internal/vendas/usecase"
)

type uc interface {
	Load(ctx context.Context, in usecase.LoadInput) (usecase.LoadResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/vendas_load_bigquery", end.LoadBigQuery)
}
