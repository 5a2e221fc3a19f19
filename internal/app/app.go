package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/vendasload/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkglog"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/vendasload/internal/pkg/pkguid"
)

// closer releases one resource on shutdown.
type closer struct {
	name string
	fn   func(context.Context) error
}

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid pkguid.StringID

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	// closed in reverse order of registration, after the HTTP server drains
	closers []closer
}

func New() *App {
	pkglog.InitLogging("info")

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()

	return app
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}
