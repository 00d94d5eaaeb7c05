package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/wattline/emporia/pkg/docs"
	"github.com/wattline/emporia/pkg/emporia"
	emperrors "github.com/wattline/emporia/pkg/errors"
	"github.com/wattline/emporia/pkg/logging"
	"github.com/wattline/emporia/pkg/server"
	"github.com/wattline/emporia/pkg/store/memory"
	"github.com/wattline/emporia/pkg/store/postgres"
)

const (
	name           = "emporia-api-server"
	versionDefault = "dev"
)

// Store backends accepted by Config.Store.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/wattline/emporia/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Config controls how Serve assembles the service.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string. Falls back to the
	// DATABASE_URL environment variable when empty.
	DatabaseURL string

	// Store selects the record store backend, StorePostgres or
	// StoreMemory. Empty selects StorePostgres.
	Store string

	// Image is the container image reference reported by the info
	// endpoint. Falls back to the SERVICE_IMAGE environment variable when
	// empty. When neither is set the info payload carries no image
	// metadata.
	Image string
}

// Serve starts the API server and blocks until shutdown. It configures
// logging, connects the record store, mounts the routes, and delegates
// lifecycle management to pkg/server.
func Serve(ctx context.Context, cfg Config) error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		return err
	}
	defer cleanup()

	doc, err := docs.New(ctx)
	if err != nil {
		slog.Error("loading API documentation failed", "error", err)
		return err
	}

	image := cfg.Image
	if image == "" {
		image = os.Getenv("SERVICE_IMAGE")
	}

	r := routes(emporia.NewHandler(st), doc, newInfoResponse(name, version, commit, date, image))

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(r),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// routes maps every API route to its handler. Patterns follow net/http
// ServeMux rules, so literal segments such as "search" and "info" win over
// the {id} wildcard.
func routes(h *emporia.Handler, d *docs.Handler, info InfoResponse) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /api/v1/emporia":         h.HandleList,
		"POST /api/v1/emporia":        h.HandleCreate,
		"GET /api/v1/emporia/{id}":    h.HandleGet,
		"PUT /api/v1/emporia/{id}":    h.HandleReplace,
		"PATCH /api/v1/emporia/{id}":  h.HandlePatch,
		"DELETE /api/v1/emporia/{id}": h.HandleDelete,
		"POST /api/v1/emporia/search": h.HandleSearch,
		"GET /api/v1/emporia/health":  h.HandleHealth,
		"GET /api/v1/emporia/info":    handleInfo(info),

		"GET /api/v1/emporia/docs":         d.HandleViewer,
		"GET /api/v1/emporia/openapi.yaml": d.HandleOpenAPIYAML,
		"GET /api/v1/emporia/openapi.json": d.HandleOpenAPIJSON,
		"GET /emporia/test/emporia.html":   d.HandleTestPage,
	}
}

// openStore builds the configured record store. The returned cleanup
// releases the store's resources.
func openStore(ctx context.Context, cfg Config) (emporia.Store, func(), error) {
	switch cfg.Store {
	case "", StorePostgres:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		st := postgres.New(pool)
		return st, st.Close, nil

	case StoreMemory:
		slog.Warn("using in-memory store, records are lost on restart")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, emperrors.NewWithContext(emperrors.ErrCodeInvalidRequest,
			"unknown store backend", map[string]any{"store": cfg.Store})
	}
}
