// Package module wires ingest into the API using modkit
package module

import (
	"net/http"

	modkit "bookmarkd/internal/modkit"
	"bookmarkd/internal/modkit/module"
	perr "bookmarkd/internal/platform/errors"
	phttp "bookmarkd/internal/platform/net/http"
	str "bookmarkd/internal/platform/strings"
	ingesthttp "bookmarkd/internal/services/ingest/http"
	ingestsvc "bookmarkd/internal/services/ingest/service"
	pipemod "bookmarkd/internal/services/pipeline/module"
)

// Ports exposed by the ingest module
type Ports struct {
	Submit *ingestsvc.Service
}

// Module implements the ingest module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     Ports
	subrouter func(phttp.Router) phttp.Router
	register  func(phttp.Router)

	svc *ingestsvc.Service
}

// New constructs the ingest module over the pipeline module's ports,
// resolved from the module registry populated during bootstrap
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("ingest"), modkit.WithPrefix("/v1")}, opts...)...)

	pipe, ok := module.PortsAs[pipemod.Ports]("pipeline")
	if !ok {
		return nil, perr.Configf("ingest module needs the pipeline module registered first")
	}

	svc := ingestsvc.New(pipe.Runner, pipe.State)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Submit: svc}

	external := b.Register
	m.register = func(r phttp.Router) {
		ingesthttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m, nil
}

// MountRoutes mounts the module routes on the given router.
// Metrics live at the root, outside the version prefix, so scrapers
// reach them at a stable path.
func (m *Module) MountRoutes(r phttp.Router) {
	ingesthttp.RegisterMetrics(r, m.svc)
	r.Route(m.prefix, func(rr phttp.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module port set
func (m *Module) Ports() any { return m.ports }

// Service returns the underlying ingest service for shutdown draining
func (m *Module) Service() *ingestsvc.Service { return m.svc }
