package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"workflow-core/document"
	"workflow-core/execution"
	"workflow-core/graph"
	"workflow-core/storage"
)

// maxRequestBody limits the size of upsert/execute request bodies to
// prevent abuse.
const maxRequestBody = 1 << 20 // 1MB

// HandleGetGraph loads a graph's persisted document by ID and returns it
// as JSON exactly as stored.
func (s *Service) HandleGetGraph(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	id := mux.Vars(r)["id"]
	slog.Debug("returning graph document", "id", id, "requestId", rid)

	graphID, err := uuid.Parse(id)
	if err != nil {
		slog.Warn("invalid graph id", "id", id, "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_ID", "invalid graph id", http.StatusBadRequest)
		return
	}

	rec, err := s.storage.GetGraph(r.Context(), graphID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("graph not found", "id", graphID, "requestId", rid)
			writeErrorJSON(w, "NOT_FOUND", "graph not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to get graph", "id", graphID, "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       rec.ID,
		"name":     rec.Name,
		"document": rec.Doc,
	})
}

// upsertGraphRequest is the body HandleUpsertGraph expects.
type upsertGraphRequest struct {
	Name     string            `json:"name"`
	Document document.Document `json:"document"`
}

// HandleUpsertGraph validates a posted document against the node type
// registry (every node's type tag must be known before anything is
// saved, mirroring document.Decode's all-or-nothing validation) and
// persists it.
func (s *Service) HandleUpsertGraph(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	id := mux.Vars(r)["id"]
	slog.Debug("upserting graph", "id", id, "requestId", rid)

	graphID, err := uuid.Parse(id)
	if err != nil {
		slog.Warn("invalid graph id", "id", id, "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_ID", "invalid graph id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var body upsertGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Warn("failed to decode request body", "id", graphID, "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_BODY", "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := document.Decode(body.Document, s.isKnownType); err != nil {
		slog.Warn("rejected graph with unrecognized structure", "id", graphID, "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_GRAPH", err.Error(), http.StatusBadRequest)
		return
	}

	rec := &storage.GraphRecord{ID: graphID, Name: body.Name, Doc: body.Document}
	if err := s.storage.SaveGraph(r.Context(), rec); err != nil {
		slog.Error("failed to save graph", "id", graphID, "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         rec.ID,
		"modifiedAt": rec.ModifiedAt,
	})
}

// executeGraphRequest carries the variables an execution run seeds its
// ExecutionContext with.
type executeGraphRequest struct {
	Variables map[string]any `json:"variables"`
}

// executionEventJSON is the wire shape one execution.Event is flattened
// to, so a JSON client never has to know the event's internal Context
// pointer shape.
type executionEventJSON struct {
	Kind   string `json:"kind"`
	NodeID string `json:"nodeId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HandleExecuteGraph loads a graph, rehydrates it into behavior-complete
// nodes via the registry, runs it to completion, and returns the ordered
// event stream collected during the run. Node execution failures are
// returned as 200 with status "failed" and NodeFailed/WorkflowFailed
// events in the stream — they are business-level outcomes, not server
// errors. A stored document whose connections cannot be rebuilt (for
// example one that would form a cycle) is rejected with 422 before any
// node runs.
func (s *Service) HandleExecuteGraph(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)
	id := mux.Vars(r)["id"]
	slog.Debug("executing graph", "id", id, "requestId", rid)

	graphID, err := uuid.Parse(id)
	if err != nil {
		slog.Warn("invalid graph id", "id", id, "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_ID", "invalid graph id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var body executeGraphRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			slog.Warn("failed to decode request body", "id", graphID, "requestId", rid, "error", err)
			writeErrorJSON(w, "INVALID_BODY", "invalid request body", http.StatusBadRequest)
			return
		}
	}

	rec, err := s.storage.GetGraph(r.Context(), graphID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("graph not found", "id", graphID, "requestId", rid)
			writeErrorJSON(w, "NOT_FOUND", "graph not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to get graph", "id", graphID, "requestId", rid, "error", err)
		writeErrorJSON(w, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	start, err := instantiateGraph(rec.Doc, s.registry)
	if err != nil {
		slog.Error("failed to rehydrate graph for execution", "id", graphID, "requestId", rid, "error", err)
		writeErrorJSON(w, "INVALID_GRAPH", err.Error(), http.StatusUnprocessableEntity)
		return
	}

	execCtx := execution.NewContext()
	for k, v := range body.Variables {
		if err := execCtx.SetVariable(k, v); err != nil {
			slog.Warn("failed to seed execution variable", "key", k, "requestId", rid, "error", err)
			writeErrorJSON(w, "INVALID_BODY", fmt.Sprintf("invalid variable %q: %v", k, err), http.StatusBadRequest)
			return
		}
	}

	var events []executionEventJSON
	s.runner.Run(r.Context(), start, execCtx, func(e execution.Event) {
		ej := executionEventJSON{Kind: e.Kind.String()}
		if e.Node != nil {
			ej.NodeID = e.Node.ID().String()
		}
		if e.Err != nil {
			ej.Error = e.Err.Error()
		}
		events = append(events, ej)
	})

	if execCtx.CurrentStatus() == execution.StatusFailed {
		slog.Warn("graph execution completed with failure", "id", graphID, "requestId", rid)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": execCtx.CurrentStatus().String(),
		"events": events,
		"log":    execCtx.GetLogs(),
	})
}

// HandleListNodeTypes returns every node type available in the registry,
// for a client to build a palette from.
func (s *Service) HandleListNodeTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Available())
}

// isKnownType adapts the registry to document.Factory's boolean shape.
func (s *Service) isKnownType(typeTag string) bool {
	_, err := s.registry.Create(typeTag)
	return err == nil
}

// instantiateGraph rebuilds a behavior-complete graph.Graph from a
// persisted document: one real, registry-constructed node per
// document.NodeRecord (wired to each other exactly as the document's
// connection records describe), and returns the node tagged
// "sentinel.start" as the entry point the runner drives.
func instantiateGraph(doc document.Document, reg interface {
	Create(typeID string) (graph.Node, error)
}) (execution.RunnableNode, error) {
	g := graph.New()
	connectorsByRecordID := make(map[graph.ID]*graph.Connector)
	var start execution.RunnableNode

	for _, nr := range doc.Nodes {
		n, err := reg.Create(nr.TypeTag)
		if err != nil {
			return nil, fmt.Errorf("service: node %s: %w", nr.ID, err)
		}

		rn, ok := n.(execution.RunnableNode)
		if !ok {
			return nil, fmt.Errorf("service: node type %q does not implement Executable", nr.TypeTag)
		}

		if err := bindConnectorsByPosition(nr.Inputs, rn.InputConnectors(), connectorsByRecordID); err != nil {
			return nil, err
		}
		if err := bindConnectorsByPosition(nr.Outputs, rn.OutputConnectors(), connectorsByRecordID); err != nil {
			return nil, err
		}

		if res := g.TryAddNode(rn); !res.Success {
			return nil, fmt.Errorf("service: adding node %s: %s", nr.ID, res.ErrorMessage)
		}

		if nr.TypeTag == "sentinel.start" {
			start = rn
		}
	}

	for _, cr := range doc.Connections {
		source, ok := connectorsByRecordID[cr.Source]
		if !ok {
			return nil, fmt.Errorf("service: connection references unknown source connector %s", cr.Source)
		}
		target, ok := connectorsByRecordID[cr.Target]
		if !ok {
			return nil, fmt.Errorf("service: connection references unknown target connector %s", cr.Target)
		}
		if res := g.TryAddConnection(source, target); !res.Success {
			return nil, fmt.Errorf("service: connecting %s->%s: %s", cr.Source, cr.Target, res.ErrorMessage)
		}
	}

	if start == nil {
		return nil, fmt.Errorf("service: graph has no sentinel.start node")
	}
	return start, nil
}

// bindConnectorsByPosition maps each persisted connector id onto the
// freshly constructed node's connector at the same ordinal position — the
// registry always builds a type's connectors in the same fixed order, so
// position is a stable correspondence even though the new connectors
// carry freshly generated ids.
func bindConnectorsByPosition(records []document.ConnectorRecord, live []*graph.Connector, out map[graph.ID]*graph.Connector) error {
	if len(records) != len(live) {
		return fmt.Errorf("service: connector count mismatch: document has %d, registry type produced %d", len(records), len(live))
	}
	for i, cr := range records {
		out[cr.ID] = live[i]
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeErrorJSON writes a structured JSON error response with a
// machine-readable code and a human-readable message.
func writeErrorJSON(w http.ResponseWriter, errCode, message string, status int) {
	writeJSON(w, status, map[string]any{"code": errCode, "message": message})
}
