package policy

import (
	"fmt"
	"net"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Operator is the comparison applied by a field condition.
type Operator string

const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpGt          Operator = "gt"
	OpLt          Operator = "lt"
	OpGte         Operator = "gte"
	OpLte         Operator = "lte"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpMatches     Operator = "matches"
	OpExists      Operator = "exists"
	OpNotExists   Operator = "not_exists"
	OpBetween     Operator = "between"
)

// FieldCondition compares a dot-path field of the evaluation context against
// a value. All field conditions on a policy must hold for it to apply.
type FieldCondition struct {
	Field    string   `yaml:"field" json:"field"`
	Operator Operator `yaml:"operator" json:"operator"`
	Value    any      `yaml:"value,omitempty" json:"value,omitempty"`
	Negate   bool     `yaml:"negate,omitempty" json:"negate,omitempty"`
}

// Evaluate resolves the field and applies the operator. exists and
// not_exists only inspect presence; every other operator treats a missing
// field as false, before Negate is applied. An invalid regex pattern in a
// matches condition evaluates to false rather than erroring.
func (c FieldCondition) Evaluate(ctx *Context) bool {
	value, ok := ctx.Value(c.Field)

	var result bool
	switch c.Operator {
	case OpExists:
		result = ok
	case OpNotExists:
		result = !ok
	default:
		if !ok {
			return false
		}
		result = c.compare(value)
	}

	if c.Negate {
		result = !result
	}
	return result
}

func (c FieldCondition) compare(value any) bool {
	switch c.Operator {
	case OpEq:
		return looseEqual(value, c.Value)
	case OpNeq:
		return !looseEqual(value, c.Value)
	case OpGt, OpLt, OpGte, OpLte:
		a, okA := toFloat(value)
		b, okB := toFloat(c.Value)
		if !okA || !okB {
			return false
		}
		switch c.Operator {
		case OpGt:
			return a > b
		case OpLt:
			return a < b
		case OpGte:
			return a >= b
		default:
			return a <= b
		}
	case OpIn:
		return memberOf(value, c.Value)
	case OpNotIn:
		return !memberOf(value, c.Value)
	case OpContains:
		return containedIn(value, c.Value)
	case OpNotContains:
		return !containedIn(value, c.Value)
	case OpMatches:
		pattern, ok := c.Value.(string)
		if !ok {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			// Malformed pattern is a dead condition, not a failed check.
			return false
		}
		return re.MatchString(toString(value))
	case OpBetween:
		bounds := toSlice(c.Value)
		if len(bounds) != 2 {
			return false
		}
		v, okV := toFloat(value)
		lo, okLo := toFloat(bounds[0])
		hi, okHi := toFloat(bounds[1])
		return okV && okLo && okHi && v >= lo && v <= hi
	default:
		return false
	}
}

// TimeWindowCondition restricts a policy to a wall-clock window, optionally
// wrapping past midnight, on a set of weekdays (0=Sunday..6=Saturday, empty
// set means every day).
type TimeWindowCondition struct {
	Start      string `yaml:"start" json:"start"` // "HH:MM"
	End        string `yaml:"end" json:"end"`     // "HH:MM"
	DaysOfWeek []int  `yaml:"days_of_week,omitempty" json:"days_of_week,omitempty"`
}

// Evaluate checks the context's current time against the window.
// Malformed Start/End values evaluate to false.
func (c TimeWindowCondition) Evaluate(ctx *Context) bool {
	now := ctx.Now()

	if len(c.DaysOfWeek) > 0 && !slices.Contains(c.DaysOfWeek, int(now.Weekday())) {
		return false
	}

	start, okS := parseClock(c.Start)
	end, okE := parseClock(c.End)
	if !okS || !okE {
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	if start <= end {
		return minute >= start && minute <= end
	}
	// Window wraps past midnight, e.g. 22:00-06:00.
	return minute >= start || minute <= end
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// IPNetworkCondition restricts a policy by the request's source address.
//
// Evaluation order: an invalid or missing IP is false; an IP in any blocked
// network is false; a private IP passes when AllowPrivate is set; an empty
// allow-list is open by default; otherwise the IP must fall in some allowed
// network. An invalid CIDR anywhere makes the condition false.
type IPNetworkCondition struct {
	AllowedNetworks []string `yaml:"allowed_networks,omitempty" json:"allowed_networks,omitempty"`
	BlockedNetworks []string `yaml:"blocked_networks,omitempty" json:"blocked_networks,omitempty"`
	AllowPrivate    bool     `yaml:"allow_private,omitempty" json:"allow_private,omitempty"`
}

// Evaluate checks the context's ip_address against the configured networks.
func (c IPNetworkCondition) Evaluate(ctx *Context) bool {
	ip := net.ParseIP(strings.TrimSpace(ctx.IPAddress))
	if ip == nil {
		return false
	}

	for _, cidr := range c.BlockedNetworks {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return false
		}
		if network.Contains(ip) {
			return false
		}
	}

	if c.AllowPrivate && (ip.IsPrivate() || ip.IsLoopback()) {
		return true
	}

	if len(c.AllowedNetworks) == 0 {
		return true
	}

	for _, cidr := range c.AllowedNetworks {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return false
		}
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// OwnershipCondition checks that the acting user owns the target resource,
// or, when AllowOrganizationAccess is set, that the resource belongs to the
// user's organization.
type OwnershipCondition struct {
	ResourceUserField       string `yaml:"resource_user_field,omitempty" json:"resource_user_field,omitempty"`
	ResourceOrgField        string `yaml:"resource_org_field,omitempty" json:"resource_org_field,omitempty"`
	AllowOrganizationAccess bool   `yaml:"allow_organization_access,omitempty" json:"allow_organization_access,omitempty"`
}

// Evaluate compares the resource's owner fields against the acting
// user and organization.
func (c OwnershipCondition) Evaluate(ctx *Context) bool {
	return Owns(ctx.Resource, ctx.UserID, ctx.OrganizationID, c)
}

// Owns applies the ownership rules directly against a resource-data map.
// It backs both the ownership condition and the access engine's
// ":own"-scoped permission fallback.
func Owns(resource map[string]any, userID, orgID string, c OwnershipCondition) bool {
	userField := c.ResourceUserField
	if userField == "" {
		userField = "user_id"
	}
	orgField := c.ResourceOrgField
	if orgField == "" {
		orgField = "organization_id"
	}

	if owner, ok := resource[userField]; ok && userID != "" && toString(owner) == userID {
		return true
	}
	if c.AllowOrganizationAccess {
		if org, ok := resource[orgField]; ok && orgID != "" && toString(org) == orgID {
			return true
		}
	}
	return false
}

// looseEqual compares two values, treating any numeric pair numerically so
// that a YAML int matches a context float64.
func looseEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, okB := toFloat(b); okB {
			return fa == fb
		}
		return false
	}
	return toString(a) == toString(b)
}

// memberOf reports whether value equals any element of the list.
func memberOf(value, list any) bool {
	for _, item := range toSlice(list) {
		if looseEqual(value, item) {
			return true
		}
	}
	return false
}

// containedIn reports whether needle is an element of a slice-valued field
// or a substring of a string-valued field.
func containedIn(value, needle any) bool {
	switch v := value.(type) {
	case string:
		return strings.Contains(v, toString(needle))
	default:
		for _, item := range toSlice(value) {
			if looseEqual(item, needle) {
				return true
			}
		}
		return false
	}
}

func toSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	case []int:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
