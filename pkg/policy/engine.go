package policy

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Engine is the runtime policy catalog and evaluator. It is safe for
// concurrent use; evaluation takes a shared lock, policy CRUD an
// exclusive one.
type Engine struct {
	mu       sync.RWMutex
	policies map[string]Policy
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger for debug-level evaluation
// tracing. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an empty policy engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		policies: make(map[string]Policy),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add registers a policy, assigning a fresh UUID when the ID is empty, and
// returns the stored policy. Re-adding an existing ID overwrites it.
func (e *Engine) Add(p Policy) Policy {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	e.mu.Lock()
	e.policies[p.ID] = p
	e.mu.Unlock()
	return p
}

// Remove deletes a policy by ID.
func (e *Engine) Remove(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.policies[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
	}
	delete(e.policies, id)
	return nil
}

// Get returns the policy registered under the given ID.
func (e *Engine) Get(id string) (Policy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.policies[id]
	return p, ok
}

// Policies returns all registered policies sorted by descending priority.
func (e *Engine) Policies() []Policy {
	e.mu.RLock()
	out := make([]Policy, 0, len(e.policies))
	for _, p := range e.policies {
		out = append(out, p)
	}
	e.mu.RUnlock()

	sortByPriority(out)
	return out
}

// Evaluate collects the policies matching the request, walks them in
// descending priority order and returns the first non-abstaining effect.
// Lower-priority policies are never evaluated once a decision is reached.
// When every matching policy abstains, or none match, the result is Abstain.
func (e *Engine) Evaluate(resource, action string, ctx *Context, role string) Effect {
	effect, _ := e.Decide(resource, action, ctx, role)
	return effect
}

// Decide behaves like Evaluate and additionally returns the ID of the
// deciding policy, or an empty string when the overall result is Abstain.
func (e *Engine) Decide(resource, action string, ctx *Context, role string) (Effect, string) {
	e.mu.RLock()
	matched := make([]Policy, 0, len(e.policies))
	for _, p := range e.policies {
		if p.MatchesRequest(resource, action, role) {
			matched = append(matched, p)
		}
	}
	e.mu.RUnlock()

	sortByPriority(matched)

	for _, p := range matched {
		effect := p.Evaluate(ctx)
		if effect == EffectAbstain {
			continue
		}
		if e.logger != nil {
			e.logger.Debug("policy decided",
				slog.String("policy_id", p.ID),
				slog.String("effect", string(effect)),
				slog.String("resource", resource),
				slog.String("action", action),
				slog.Int("priority", p.Priority),
			)
		}
		return effect, p.ID
	}
	return EffectAbstain, ""
}

// sortByPriority orders policies by descending priority, breaking ties by
// ID for deterministic evaluation.
func sortByPriority(policies []Policy) {
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Priority != policies[j].Priority {
			return policies[i].Priority > policies[j].Priority
		}
		return policies[i].ID < policies[j].ID
	})
}
