package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/shandysiswandi/vendasload/internal/pkg/pkgerror"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/vendasload/internal/vendas/usecase"
)

// maxBodySize bounds the JSON request; the body only carries a file name.
const maxBodySize = 64 << 10

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) LoadBigQuery(ctx context.Context, r *http.Request) (any, error) {
	req, err := decodeLoadRequest(r)
	if err != nil {
		return nil, err
	}

	in := usecase.LoadInput{}
	if req.FileName != nil {
		in.FileName = *req.FileName
	}

	result, err := h.uc.Load(ctx, in)
	if err != nil {
		return nil, err
	}

	return LoadResponse{Status: pkgrouter.StatusSuccess, Rows: result.Rows}, nil
}

// decodeLoadRequest accepts an empty body as "use the defaults".
func decodeLoadRequest(r *http.Request) (LoadRequest, error) {
	var req LoadRequest
	if r.Body == nil {
		return req, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil || len(raw) > maxBodySize {
		return req, pkgerror.NewInvalidFormat()
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return req, nil
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return req, pkgerror.NewInvalidFormat()
	}

	return req, nil
}
