package policy

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// rawPolicy mirrors Policy for YAML decoding with an optional is_active
// field: policies in a bundle are active unless explicitly switched off.
type rawPolicy struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Effect      Effect   `yaml:"effect"`
	Priority    int      `yaml:"priority"`
	Resources   []string `yaml:"resources"`
	Actions     []string `yaml:"actions"`
	Roles       []string `yaml:"roles"`

	Conditions []FieldCondition     `yaml:"conditions"`
	TimeWindow *TimeWindowCondition `yaml:"time_window"`
	IPNetwork  *IPNetworkCondition  `yaml:"ip_network"`
	Ownership  *OwnershipCondition  `yaml:"ownership"`

	IsActive *bool `yaml:"is_active"`
}

type policyBundle struct {
	Policies []rawPolicy `yaml:"policies"`
}

// LoadPolicies reads a YAML policy bundle. Each entry must carry a valid
// effect; omitted is_active defaults to true.
func LoadPolicies(r io.Reader) ([]Policy, error) {
	var bundle policyBundle
	if err := yaml.NewDecoder(r).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("policy: decode bundle: %w", err)
	}

	out := make([]Policy, 0, len(bundle.Policies))
	for i, raw := range bundle.Policies {
		if !raw.Effect.Valid() {
			return nil, fmt.Errorf("%w: entry %d has effect %q", ErrInvalidEffect, i, raw.Effect)
		}

		active := true
		if raw.IsActive != nil {
			active = *raw.IsActive
		}

		out = append(out, Policy{
			ID:          raw.ID,
			Name:        raw.Name,
			Description: raw.Description,
			Effect:      raw.Effect,
			Priority:    raw.Priority,
			Resources:   raw.Resources,
			Actions:     raw.Actions,
			Roles:       raw.Roles,
			Conditions:  raw.Conditions,
			TimeWindow:  raw.TimeWindow,
			IPNetwork:   raw.IPNetwork,
			Ownership:   raw.Ownership,
			IsActive:    active,
		})
	}
	return out, nil
}
