package policy

import "strings"

// Effect is the outcome a policy contributes to an access decision.
type Effect string

const (
	// EffectAllow grants the request.
	EffectAllow Effect = "ALLOW"
	// EffectDeny rejects the request.
	EffectDeny Effect = "DENY"
	// EffectAbstain contributes no opinion; evaluation moves on to the
	// next matching policy.
	EffectAbstain Effect = "ABSTAIN"
)

// Valid reports whether the effect is one of the three known values.
func (e Effect) Valid() bool {
	switch e {
	case EffectAllow, EffectDeny, EffectAbstain:
		return true
	}
	return false
}

// Policy is a single override rule. Policies are matched by resource,
// action and role, then evaluated against their conditions. Higher Priority
// policies are evaluated first.
type Policy struct {
	ID          string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Effect      Effect   `yaml:"effect" json:"effect"`
	Priority    int      `yaml:"priority" json:"priority"`
	Resources   []string `yaml:"resources,omitempty" json:"resources,omitempty"`
	Actions     []string `yaml:"actions,omitempty" json:"actions,omitempty"`
	Roles       []string `yaml:"roles,omitempty" json:"roles,omitempty"`

	Conditions []FieldCondition     `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	TimeWindow *TimeWindowCondition `yaml:"time_window,omitempty" json:"time_window,omitempty"`
	IPNetwork  *IPNetworkCondition  `yaml:"ip_network,omitempty" json:"ip_network,omitempty"`
	Ownership  *OwnershipCondition  `yaml:"ownership,omitempty" json:"ownership,omitempty"`

	IsActive bool `yaml:"is_active" json:"is_active"`
}

// MatchesRequest reports whether the policy applies to the given resource,
// action and role. Resource and action lists support trailing-"*" prefix
// wildcards and an empty list matches everything; a non-empty role list
// requires exact membership. Inactive policies never match.
func (p Policy) MatchesRequest(resource, action, role string) bool {
	if !p.IsActive {
		return false
	}
	if !matchList(p.Resources, resource) {
		return false
	}
	if !matchList(p.Actions, action) {
		return false
	}
	if len(p.Roles) > 0 {
		found := false
		for _, r := range p.Roles {
			if r == role {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Evaluate applies the policy's conditions to the context and returns the
// contributed effect.
//
// Field conditions withhold the policy entirely: any failure abstains. The
// time-window and IP gates are stricter on Allow policies: failing a gate
// on an Allow policy actively denies, because the policy's author scoped
// the grant to that window or network. On a Deny policy a failed gate just
// abstains. A failed ownership condition always abstains.
func (p Policy) Evaluate(ctx *Context) Effect {
	if !p.IsActive {
		return EffectAbstain
	}

	for _, cond := range p.Conditions {
		if !cond.Evaluate(ctx) {
			return EffectAbstain
		}
	}

	if p.TimeWindow != nil && !p.TimeWindow.Evaluate(ctx) {
		if p.Effect == EffectAllow {
			return EffectDeny
		}
		return EffectAbstain
	}

	if p.IPNetwork != nil && !p.IPNetwork.Evaluate(ctx) {
		if p.Effect == EffectAllow {
			return EffectDeny
		}
		return EffectAbstain
	}

	if p.Ownership != nil && !p.Ownership.Evaluate(ctx) {
		return EffectAbstain
	}

	return p.Effect
}

// matchList reports membership with trailing-"*" prefix wildcard support.
// An empty list matches everything.
func matchList(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, entry := range list {
		if entry == value || entry == "*" {
			return true
		}
		if strings.HasSuffix(entry, "*") && strings.HasPrefix(value, strings.TrimSuffix(entry, "*")) {
			return true
		}
	}
	return false
}
