package access

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/authzkit/pkg/permission"
	"github.com/meridianhq/authzkit/pkg/policy"
	"github.com/meridianhq/authzkit/pkg/role"
)

// policyAdminLevel is the minimum hierarchy level required to add or
// remove policies through the engine's admin helpers.
const policyAdminLevel = 80

// Engine orchestrates the permission registry, role manager and policy
// engine into access decisions. All state lives in the injected
// collaborators; the engine itself only adds the permission cache.
type Engine struct {
	registry *permission.Registry
	roles    *role.Manager
	policies *policy.Engine

	cache     PermissionCache
	audit     Recorder
	logger    *slog.Logger
	now       func() time.Time
	cacheTTL  time.Duration
	cacheSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger for debug decision tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAuditRecorder attaches the external audit collaborator.
func WithAuditRecorder(r Recorder) Option {
	return func(e *Engine) { e.audit = r }
}

// WithPermissionCache replaces the default in-memory permission cache.
func WithPermissionCache(c PermissionCache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithCacheTTL sets the TTL of the default in-memory cache.
// It has no effect when WithPermissionCache is used.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

// WithCacheSize sets the capacity of the default in-memory cache.
// It has no effect when WithPermissionCache is used.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

// WithClock overrides the engine's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an access engine over the given collaborators.
func NewEngine(registry *permission.Registry, roles *role.Manager, policies *policy.Engine, opts ...Option) *Engine {
	e := &Engine{
		registry:  registry,
		roles:     roles,
		policies:  policies,
		now:       time.Now,
		cacheTTL:  DefaultCacheTTL,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewMemoryCache(e.cacheSize, e.cacheTTL)
	}
	return e
}

// CheckAccess runs the full decision pipeline for one request.
// Internal faults degrade to Deny, never to Allow.
func (e *Engine) CheckAccess(ctx context.Context, req Request) Result {
	pctx := e.policyContext(req)

	perms, err := e.UserPermissions(ctx, req.UserID, req.OrganizationID)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("effective permission resolution failed",
				slog.String("user_id", req.UserID),
				slog.String("error", err.Error()),
			)
		}
		return e.finish(ctx, req, Result{
			Decision: DecisionDeny,
			Reason:   ReasonInternalError,
		})
	}

	required := permission.FormatName(req.Resource, req.Action, permission.ScopeAll)

	// The MFA gate fires before the grant check on purpose: callers learn
	// an operation is MFA-gated even when they do not hold the permission.
	if p, ok := e.registry.Get(required); ok && p.RequiresMFA && !req.MFAVerified {
		return e.finish(ctx, req, Result{
			Decision: DecisionRequireMFA,
			Reason:   ReasonMFARequired,
		})
	}

	matched, ok := permission.FindMatch(required, perms)
	if !ok {
		ownVariant := permission.FormatName(req.Resource, req.Action, permission.ScopeOwn)
		if grant, held := permission.FindMatch(ownVariant, perms); held {
			if policy.Owns(req.ResourceData, req.UserID, req.OrganizationID, policy.OwnershipCondition{}) {
				matched, ok = grant, true
			}
		}
	}
	if !ok {
		return e.finish(ctx, req, Result{
			Decision: DecisionDeny,
			Reason:   ReasonPermissionNotGranted,
		})
	}

	primaryRole := e.primaryRole(req.UserID, req.OrganizationID)
	pctx.Role = primaryRole

	effect, policyID := e.policies.Decide(string(req.Resource), string(req.Action), pctx, primaryRole)
	if effect == policy.EffectDeny {
		return e.finish(ctx, req, Result{
			Decision:          DecisionDeny,
			Reason:            ReasonDeniedByPolicy,
			MatchedPermission: matched,
			DecidingPolicy:    policyID,
		})
	}

	reason := ReasonGranted
	if effect == policy.EffectAllow {
		reason = ReasonGrantedByPolicy
	}
	return e.finish(ctx, req, Result{
		Decision:          DecisionAllow,
		Allowed:           true,
		Reason:            reason,
		MatchedPermission: matched,
		DecidingPolicy:    policyID,
	})
}

// UserPermissions returns the user's effective permission set, served from
// the cache while fresh and recomputed from the role manager otherwise.
func (e *Engine) UserPermissions(ctx context.Context, userID, orgID string) ([]string, error) {
	if perms, ok := e.cache.Get(ctx, userID, orgID); ok {
		return perms, nil
	}

	perms, err := e.roles.UserPermissions(userID, orgID)
	if err != nil {
		return nil, err
	}
	e.cache.Set(ctx, userID, orgID, perms)
	return perms, nil
}

// InvalidateUserCache drops the cached permission set for one user/org.
func (e *Engine) InvalidateUserCache(ctx context.Context, userID, orgID string) {
	e.cache.Invalidate(ctx, userID, orgID)
}

// AssignRole grants a role to a user after verifying the acting role may
// delegate it, and invalidates the user's permission cache on success.
func (e *Engine) AssignRole(ctx context.Context, actingRole, userID, roleName, orgID string) error {
	if _, ok := e.roles.Get(roleName); !ok {
		return fmt.Errorf("%w: %q", role.ErrUnknownRole, roleName)
	}
	if !e.roles.CanAssignRole(actingRole, roleName) {
		return fmt.Errorf("%w: %q cannot assign %q", ErrHierarchyViolation, actingRole, roleName)
	}
	e.roles.AssignRole(userID, roleName, orgID)
	e.cache.Invalidate(ctx, userID, orgID)
	e.recordRoleChange(ctx, actingRole, userID, roleName, orgID, permission.ActionAssign)
	return nil
}

// RevokeRole removes a role from a user after verifying the acting role is
// strictly superior to it, and invalidates the permission cache on success.
func (e *Engine) RevokeRole(ctx context.Context, actingRole, userID, roleName, orgID string) error {
	if !e.roles.IsRoleSuperior(actingRole, roleName) {
		return fmt.Errorf("%w: %q cannot revoke %q", ErrHierarchyViolation, actingRole, roleName)
	}
	if !e.roles.RevokeRole(userID, roleName, orgID) {
		return fmt.Errorf("%w: user %q role %q", ErrRoleNotAssigned, userID, roleName)
	}
	e.cache.Invalidate(ctx, userID, orgID)
	e.recordRoleChange(ctx, actingRole, userID, roleName, orgID, permission.ActionRevoke)
	return nil
}

// HasPermission reports whether the user's effective permission set covers
// the required permission name. Resolution errors read as not granted.
func (e *Engine) HasPermission(ctx context.Context, userID, orgID, required string) bool {
	perms, err := e.UserPermissions(ctx, userID, orgID)
	if err != nil {
		return false
	}
	return permission.HasPermission(required, perms)
}

// HasAnyPermission reports whether any of the required permissions is held.
func (e *Engine) HasAnyPermission(ctx context.Context, userID, orgID string, required ...string) bool {
	perms, err := e.UserPermissions(ctx, userID, orgID)
	if err != nil {
		return false
	}
	for _, req := range required {
		if permission.HasPermission(req, perms) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every required permission is held.
func (e *Engine) HasAllPermissions(ctx context.Context, userID, orgID string, required ...string) bool {
	perms, err := e.UserPermissions(ctx, userID, orgID)
	if err != nil {
		return false
	}
	for _, req := range required {
		if !permission.HasPermission(req, perms) {
			return false
		}
	}
	return true
}

// HasRole reports whether the user holds the named role.
func (e *Engine) HasRole(userID, orgID, roleName string) bool {
	for _, r := range e.roles.UserRoles(userID, orgID) {
		if r == roleName {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds any of the named roles.
func (e *Engine) HasAnyRole(userID, orgID string, roleNames ...string) bool {
	for _, name := range roleNames {
		if e.HasRole(userID, orgID, name) {
			return true
		}
	}
	return false
}

// AccessibleResources returns the distinct resources for which the user
// holds the given action, directly or through a wildcard. Resources are
// derived from the granted names themselves, so grants for resources
// outside the registry catalog count too; a bare "*" grant falls back to
// the catalog, the only resource universe it can be expanded against.
func (e *Engine) AccessibleResources(ctx context.Context, userID, orgID string, action permission.Action) []permission.Resource {
	perms, err := e.UserPermissions(ctx, userID, orgID)
	if err != nil || len(perms) == 0 {
		return nil
	}

	candidates := make(map[permission.Resource]struct{})
	for _, name := range perms {
		res, _, _, err := permission.ParseName(name)
		if err != nil || string(res) == permission.Wildcard {
			for _, registered := range e.registry.Names() {
				if r, _, _, regErr := permission.ParseName(registered); regErr == nil {
					candidates[r] = struct{}{}
				}
			}
			continue
		}
		candidates[res] = struct{}{}
	}

	out := make([]permission.Resource, 0, len(candidates))
	for res := range candidates {
		required := permission.FormatName(res, action, permission.ScopeAll)
		if permission.HasPermission(required, perms) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CreateCustomRole adds a custom role after verifying the acting role sits
// strictly above the new role's hierarchy level.
func (e *Engine) CreateCustomRole(actingRole string, spec role.CustomRoleSpec) (role.Role, error) {
	acting, ok := e.roles.Get(actingRole)
	if !ok {
		return role.Role{}, fmt.Errorf("%w: %q", role.ErrUnknownRole, actingRole)
	}

	level := 0
	if spec.HierarchyLevel != nil {
		level = *spec.HierarchyLevel
	} else if spec.BaseRole != "" {
		if base, okBase := e.roles.Get(spec.BaseRole); okBase {
			level = base.HierarchyLevel - 1
		}
	}
	if level >= acting.HierarchyLevel {
		return role.Role{}, fmt.Errorf("%w: cannot create role at level %d", ErrHierarchyViolation, level)
	}

	return e.roles.CreateCustomRole(spec)
}

// UpdateCustomRole replaces a custom role's display metadata and permission
// set after verifying the acting role is strictly superior to it.
func (e *Engine) UpdateCustomRole(actingRole, roleName, displayName, description string, permissions []string) error {
	if !e.roles.IsRoleSuperior(actingRole, roleName) {
		return fmt.Errorf("%w: %q cannot update %q", ErrHierarchyViolation, actingRole, roleName)
	}
	return e.roles.UpdateCustomRole(roleName, displayName, description, permissions)
}

// DeleteCustomRole removes a custom role after verifying the acting role is
// strictly superior to it.
func (e *Engine) DeleteCustomRole(ctx context.Context, actingRole, roleName string) error {
	if !e.roles.IsRoleSuperior(actingRole, roleName) {
		return fmt.Errorf("%w: %q cannot delete %q", ErrHierarchyViolation, actingRole, roleName)
	}
	return e.roles.DeleteCustomRole(roleName)
}

// AddPolicy registers a policy; the acting role must be a policy
// administrator (hierarchy level 80 or above).
func (e *Engine) AddPolicy(actingRole string, p policy.Policy) (policy.Policy, error) {
	if !e.isPolicyAdmin(actingRole) {
		return policy.Policy{}, fmt.Errorf("%w: %q may not manage policies", ErrHierarchyViolation, actingRole)
	}
	return e.policies.Add(p), nil
}

// RemovePolicy deletes a policy under the same authorization rule as AddPolicy.
func (e *Engine) RemovePolicy(actingRole, policyID string) error {
	if !e.isPolicyAdmin(actingRole) {
		return fmt.Errorf("%w: %q may not manage policies", ErrHierarchyViolation, actingRole)
	}
	return e.policies.Remove(policyID)
}

// primaryRole returns the user's highest-level role, the one policy role
// filters are matched against.
func (e *Engine) primaryRole(userID, orgID string) string {
	best := ""
	bestLevel := -1
	for _, name := range e.roles.UserRoles(userID, orgID) {
		if r, ok := e.roles.Get(name); ok && r.HierarchyLevel > bestLevel {
			best, bestLevel = name, r.HierarchyLevel
		}
	}
	return best
}

func (e *Engine) isPolicyAdmin(roleName string) bool {
	r, ok := e.roles.Get(roleName)
	return ok && r.HierarchyLevel >= policyAdminLevel
}

// policyContext builds the evaluation context handed to the policy engine.
func (e *Engine) policyContext(req Request) *policy.Context {
	return &policy.Context{
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		IPAddress:      req.IPAddress,
		MFAVerified:    req.MFAVerified,
		SessionID:      req.SessionID,
		CurrentTime:    e.now(),
		Resource:       req.ResourceData,
		Extra:          req.AdditionalContext,
	}
}

// finish stamps audit data onto the result, emits the audit event and logs
// the decision.
func (e *Engine) finish(ctx context.Context, req Request, res Result) Result {
	res.AuditData = map[string]any{
		"user_id":            req.UserID,
		"organization_id":    req.OrganizationID,
		"resource":           string(req.Resource),
		"action":             string(req.Action),
		"resource_id":        req.ResourceID,
		"decision":           string(res.Decision),
		"reason":             res.Reason,
		"matched_permission": res.MatchedPermission,
		"deciding_policy":    res.DecidingPolicy,
		"ip_address":         req.IPAddress,
		"timestamp":          e.now().UTC(),
	}

	if e.audit != nil {
		e.audit.Record(ctx, e.newEvent(req, res))
	}
	if e.logger != nil {
		e.logger.Debug("access decision",
			slog.String("user_id", req.UserID),
			slog.String("resource", string(req.Resource)),
			slog.String("action", string(req.Action)),
			slog.String("decision", string(res.Decision)),
			slog.String("reason", res.Reason),
		)
	}
	return res
}

// recordRoleChange emits an audit event for a role assignment or revocation.
func (e *Engine) recordRoleChange(ctx context.Context, actingRole, userID, roleName, orgID string, action permission.Action) {
	if e.audit == nil {
		return
	}
	e.audit.Record(ctx, Event{
		ID:             uuid.NewString(),
		UserID:         userID,
		OrganizationID: orgID,
		Resource:       string(permission.ResourceRole),
		Action:         string(action),
		ResourceID:     roleName,
		Decision:       DecisionAllow,
		Reason:         ReasonGranted,
		Metadata:       map[string]any{"acting_role": actingRole},
		CreatedAt:      e.now(),
	})
}
