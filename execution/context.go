// Package execution hosts everything a running workflow needs that the
// graph package intentionally knows nothing about: the per-run variable
// store, the node execution contract, and the cooperative runner that
// drives nodes in topological order and emits a lifecycle event stream.
package execution

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"workflow-core/graph"
)

// Status is the lifecycle state of a single workflow run.
type Status int

const (
	StatusNotStarted Status = iota
	StatusRunning
	StatusPaused
	StatusCompleted
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Context is the per-run state a WorkflowRunner threads through every node
// it executes: a case-insensitive variable store, an append-only log, the
// current lifecycle status, and a concurrent per-output-connector value
// map nodes use to expose typed results to downstream consumers.
//
// Within a single run only the runner and the node currently executing
// mutate the variable store, so it only needs to tolerate single-writer
// access at a time; GetAllVariables is still safe to call concurrently
// with that writer since it takes the same lock.
type Context struct {
	id uuid.UUID

	mu        sync.RWMutex
	variables map[string]any
	logs      []string
	status    Status
	currentID *graph.ID

	outputValues sync.Map // connector graph.ID -> any
}

// NewContext creates an empty Context with a fresh execution id and status
// NotStarted.
func NewContext() *Context {
	return &Context{
		id:        uuid.New(),
		variables: make(map[string]any),
	}
}

// ExecutionID returns the identifier generated for this run.
func (c *Context) ExecutionID() uuid.UUID { return c.id }

// SetVariable stores value under key, case-insensitively, overwriting any
// existing entry. Returns an error for an empty or whitespace-only key.
func (c *Context) SetVariable(key string, value any) error {
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[normalized] = value
	return nil
}

// GetVariable returns the value stored under key and whether it was found.
func (c *Context) GetVariable(key string) (any, bool) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.variables[normalized]
	return v, ok
}

// GetAllVariables returns a read-only snapshot of every stored variable.
func (c *Context) GetAllVariables() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}

// TryGetVariable returns the value stored at key converted to T, and
// whether that conversion succeeded. It never panics on a failed
// conversion; it just reports false. Direct type assignment is tried
// first, then a best-effort numeric/string conversion.
func TryGetVariable[T any](c *Context, key string) (T, bool) {
	var zero T
	raw, ok := c.GetVariable(key)
	if !ok {
		return zero, false
	}
	if raw == nil {
		return zero, false
	}
	if v, ok := raw.(T); ok {
		return v, true
	}
	return convert[T](raw)
}

func convert[T any](raw any) (T, bool) {
	var zero T
	switch target := any(zero).(type) {
	case string:
		_ = target
		return any(fmt.Sprintf("%v", raw)).(T), true
	case float64:
		switch v := raw.(type) {
		case int:
			return any(float64(v)).(T), true
		case int64:
			return any(float64(v)).(T), true
		case float32:
			return any(float64(v)).(T), true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return any(f).(T), true
			}
		}
	case int:
		switch v := raw.(type) {
		case float64:
			return any(int(v)).(T), true
		case string:
			if i, err := strconv.Atoi(v); err == nil {
				return any(i).(T), true
			}
		}
	case bool:
		if v, ok := raw.(string); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				return any(b).(T), true
			}
		}
	}
	return zero, false
}

// SetStatus sets the current run status.
func (c *Context) SetStatus(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}

// CurrentStatus returns the current run status.
func (c *Context) CurrentStatus() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// AddLog appends msg to the ordered log. A zero-value message is stored
// as the empty string rather than skipped.
func (c *Context) AddLog(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, msg)
}

// GetLogs returns a copy of the accumulated log lines, in append order.
func (c *Context) GetLogs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.logs))
	copy(out, c.logs)
	return out
}

// SetCurrentNode records the node the runner is about to execute.
func (c *Context) SetCurrentNode(id graph.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentID = &id
}

// ClearCurrentNode clears the in-flight node marker.
func (c *Context) ClearCurrentNode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentID = nil
}

// CurrentNodeID returns the node currently executing, if any.
func (c *Context) CurrentNodeID() (graph.ID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.currentID == nil {
		return graph.ID{}, false
	}
	return *c.currentID, true
}

// EvaluateCondition returns the boolean stored at key. It returns false
// for a missing key or a value that is not exactly a bool — no truthiness
// coercion.
func (c *Context) EvaluateCondition(key string) bool {
	v, ok := c.GetVariable(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// SetOutputConnectorValue records v as the value produced on connector id
// during this run. Safe for concurrent use by nodes that join internal
// concurrent work before returning.
func (c *Context) SetOutputConnectorValue(id graph.ID, v any) {
	c.outputValues.Store(id, v)
}

// GetOutputConnectorValue returns the value most recently stored for
// connector id.
func (c *Context) GetOutputConnectorValue(id graph.ID) (any, bool) {
	v, ok := c.outputValues.Load(id)
	return v, ok
}

// ClearOutputConnectorValues discards every stored per-connector value.
func (c *Context) ClearOutputConnectorValues() {
	c.outputValues.Range(func(key, _ any) bool {
		c.outputValues.Delete(key)
		return true
	})
}

func normalizeKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("execution: variable key must not be empty or whitespace")
	}
	return strings.ToLower(key), nil
}
