package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/vendasload/internal/vendas"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.vendas.enabled") {
		slog.Warn("module vendas is disabled, only health routes are served")
		return
	}

	closer, err := vendas.New(vendas.Dependency{
		Config:  a.config,
		Router:  a.router,
		Context: a.ctx,
	})
	if err != nil {
		slog.Error("failed to init module vendas", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		a.addCloser("Vendas", closer)
	}
}
