package access

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the audit record emitted for every access decision and role
// mutation. The engine hands events to the configured Recorder and never
// persists them itself.
type Event struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	OrganizationID    string         `json:"organization_id,omitempty"`
	Resource          string         `json:"resource"`
	Action            string         `json:"action"`
	ResourceID        string         `json:"resource_id,omitempty"`
	Decision          Decision       `json:"decision"`
	Reason            string         `json:"reason"`
	MatchedPermission string         `json:"matched_permission,omitempty"`
	DecidingPolicy    string         `json:"deciding_policy,omitempty"`
	IP                string         `json:"ip,omitempty"`
	UserAgent         string         `json:"user_agent,omitempty"`
	SessionID         string         `json:"session_id,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Recorder receives audit events for durable recording. Implementations
// must be safe for concurrent use and must not block the access check;
// slow sinks should buffer internally.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, event Event)

// Record calls the wrapped function.
func (f RecorderFunc) Record(ctx context.Context, event Event) { f(ctx, event) }

// newEvent stamps identity and time onto an audit event.
func (e *Engine) newEvent(req Request, res Result) Event {
	return Event{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		OrganizationID:    req.OrganizationID,
		Resource:          string(req.Resource),
		Action:            string(req.Action),
		ResourceID:        req.ResourceID,
		Decision:          res.Decision,
		Reason:            res.Reason,
		MatchedPermission: res.MatchedPermission,
		DecidingPolicy:    res.DecidingPolicy,
		IP:                req.IPAddress,
		UserAgent:         req.UserAgent,
		SessionID:         req.SessionID,
		CreatedAt:         e.now(),
	}
}
