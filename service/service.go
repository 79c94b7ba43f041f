// Package service exposes the graph model over HTTP: load, upsert, and
// execute, using a mux subrouter/middleware structure for graph CRUD
// plus execute.
package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"workflow-core/execution"
	"workflow-core/registry"
	"workflow-core/storage"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// Service handles HTTP requests for graph persistence and execution. It
// depends on the Storage interface and a node Registry rather than
// concrete implementations, keeping the HTTP layer decoupled from both
// persistence and the set of node types available at runtime.
type Service struct {
	storage  storage.Storage
	registry *registry.Registry
	runner   *execution.WorkflowRunner
}

// NewService creates a graph Service with the given storage backend and
// node type registry.
func NewService(store storage.Storage, reg *registry.Registry) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("service: store cannot be nil")
	}
	if reg == nil {
		return nil, fmt.Errorf("service: registry cannot be nil")
	}
	return &Service{storage: store, registry: reg, runner: execution.NewWorkflowRunner()}, nil
}

// requestIDMiddleware assigns a unique ID to each request for log
// correlation. If the client sends X-Request-ID, it's reused; otherwise a
// new UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// jsonMiddleware sets the Content-Type header to application/json.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoadRoutes mounts the graph resource under parentRouter.
func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.PathPrefix("/graphs").Subrouter()
	router.StrictSlash(false)
	router.Use(requestIDMiddleware)
	router.Use(jsonMiddleware)

	router.HandleFunc("/{id}", s.HandleGetGraph).Methods("GET")
	router.HandleFunc("/{id}", s.HandleUpsertGraph).Methods("PUT")
	router.HandleFunc("/{id}/execute", s.HandleExecuteGraph).Methods("POST")

	typesRouter := parentRouter.PathPrefix("/node-types").Subrouter()
	typesRouter.Use(requestIDMiddleware)
	typesRouter.Use(jsonMiddleware)
	typesRouter.HandleFunc("", s.HandleListNodeTypes).Methods("GET")
}

// reqID extracts the request ID from context (set by requestIDMiddleware).
func reqID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
