package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridianhq/authzkit/pkg/policy"
)

func testContext() *policy.Context {
	return &policy.Context{
		UserID:         "alice-123",
		OrganizationID: "org-1",
		IPAddress:      "10.1.2.3",
		MFAVerified:    true,
		Resource: map[string]any{
			"user_id":         "alice-123",
			"organization_id": "org-1",
			"status":          "draft",
			"amount":          150.0,
			"tags":            []any{"internal", "q3"},
		},
		Extra: map[string]any{
			"department": "finance",
		},
	}
}

func TestContextValue(t *testing.T) {
	ctx := testContext()

	v, ok := ctx.Value("user_id")
	assert.True(t, ok)
	assert.Equal(t, "alice-123", v)

	v, ok = ctx.Value("resource.status")
	assert.True(t, ok)
	assert.Equal(t, "draft", v)

	v, ok = ctx.Value("department")
	assert.True(t, ok)
	assert.Equal(t, "finance", v)

	_, ok = ctx.Value("resource.missing")
	assert.False(t, ok)

	_, ok = ctx.Value("resource.status.deeper")
	assert.False(t, ok, "cannot descend into a scalar")

	_, ok = ctx.Value("")
	assert.False(t, ok)
}

func TestFieldCondition(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name string
		cond policy.FieldCondition
		want bool
	}{
		{
			name: "eq match",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpEq, Value: "draft"},
			want: true,
		},
		{
			name: "eq mismatch",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpEq, Value: "posted"},
			want: false,
		},
		{
			name: "eq numeric across types",
			cond: policy.FieldCondition{Field: "resource.amount", Operator: policy.OpEq, Value: 150},
			want: true,
		},
		{
			name: "neq",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpNeq, Value: "posted"},
			want: true,
		},
		{
			name: "gt",
			cond: policy.FieldCondition{Field: "resource.amount", Operator: policy.OpGt, Value: 100},
			want: true,
		},
		{
			name: "lte fails",
			cond: policy.FieldCondition{Field: "resource.amount", Operator: policy.OpLte, Value: 100},
			want: false,
		},
		{
			name: "gt on non-numeric field",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpGt, Value: 10},
			want: false,
		},
		{
			name: "in",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpIn, Value: []any{"draft", "open"}},
			want: true,
		},
		{
			name: "not_in",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpNotIn, Value: []any{"posted", "void"}},
			want: true,
		},
		{
			name: "contains on slice field",
			cond: policy.FieldCondition{Field: "resource.tags", Operator: policy.OpContains, Value: "internal"},
			want: true,
		},
		{
			name: "contains substring on string field",
			cond: policy.FieldCondition{Field: "user_id", Operator: policy.OpContains, Value: "alice"},
			want: true,
		},
		{
			name: "not_contains",
			cond: policy.FieldCondition{Field: "resource.tags", Operator: policy.OpNotContains, Value: "external"},
			want: true,
		},
		{
			name: "matches regex",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpMatches, Value: "^dra.*$"},
			want: true,
		},
		{
			name: "malformed regex is condition-false",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpMatches, Value: "(["},
			want: false,
		},
		{
			name: "exists",
			cond: policy.FieldCondition{Field: "resource.amount", Operator: policy.OpExists},
			want: true,
		},
		{
			name: "not_exists",
			cond: policy.FieldCondition{Field: "resource.approver", Operator: policy.OpNotExists},
			want: true,
		},
		{
			name: "between",
			cond: policy.FieldCondition{Field: "resource.amount", Operator: policy.OpBetween, Value: []any{100, 200}},
			want: true,
		},
		{
			name: "between outside range",
			cond: policy.FieldCondition{Field: "resource.amount", Operator: policy.OpBetween, Value: []any{200, 300}},
			want: false,
		},
		{
			name: "missing field is false for comparison operators",
			cond: policy.FieldCondition{Field: "resource.approver", Operator: policy.OpEq, Value: "bob"},
			want: false,
		},
		{
			name: "missing field stays false even when negated",
			cond: policy.FieldCondition{Field: "resource.approver", Operator: policy.OpEq, Value: "bob", Negate: true},
			want: false,
		},
		{
			name: "negate flips a present-field result",
			cond: policy.FieldCondition{Field: "resource.status", Operator: policy.OpEq, Value: "draft", Negate: true},
			want: false,
		},
		{
			name: "unknown operator is false",
			cond: policy.FieldCondition{Field: "resource.status", Operator: "like", Value: "draft"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Evaluate(ctx))
		})
	}
}

func TestTimeWindowCondition(t *testing.T) {
	// 2026-03-04 is a Wednesday (weekday 3).
	at := func(hour, minute int) *policy.Context {
		return &policy.Context{CurrentTime: time.Date(2026, 3, 4, hour, minute, 0, 0, time.UTC)}
	}

	businessHours := policy.TimeWindowCondition{
		Start:      "09:00",
		End:        "17:00",
		DaysOfWeek: []int{1, 2, 3, 4, 5},
	}
	assert.True(t, businessHours.Evaluate(at(14, 30)))
	assert.True(t, businessHours.Evaluate(at(9, 0)), "start is inclusive")
	assert.False(t, businessHours.Evaluate(at(8, 59)))
	assert.False(t, businessHours.Evaluate(at(17, 1)))

	weekendOnly := policy.TimeWindowCondition{Start: "09:00", End: "17:00", DaysOfWeek: []int{0, 6}}
	assert.False(t, weekendOnly.Evaluate(at(14, 30)), "Wednesday is not in the day set")

	nightShift := policy.TimeWindowCondition{Start: "22:00", End: "06:00"}
	assert.True(t, nightShift.Evaluate(at(23, 30)), "wraps past midnight")
	assert.True(t, nightShift.Evaluate(at(5, 0)))
	assert.False(t, nightShift.Evaluate(at(12, 0)))

	malformed := policy.TimeWindowCondition{Start: "9am", End: "5pm"}
	assert.False(t, malformed.Evaluate(at(14, 30)))
}

func TestIPNetworkCondition(t *testing.T) {
	ctxWithIP := func(ip string) *policy.Context {
		return &policy.Context{IPAddress: ip}
	}

	tests := []struct {
		name string
		cond policy.IPNetworkCondition
		ip   string
		want bool
	}{
		{
			name: "in allowed network",
			cond: policy.IPNetworkCondition{AllowedNetworks: []string{"10.0.0.0/8"}},
			ip:   "10.1.2.3",
			want: true,
		},
		{
			name: "outside allowed network",
			cond: policy.IPNetworkCondition{AllowedNetworks: []string{"10.0.0.0/8"}},
			ip:   "8.8.8.8",
			want: false,
		},
		{
			name: "blocked wins over allowed",
			cond: policy.IPNetworkCondition{AllowedNetworks: []string{"10.0.0.0/8"}, BlockedNetworks: []string{"10.1.0.0/16"}},
			ip:   "10.1.2.3",
			want: false,
		},
		{
			name: "private passes with allow_private",
			cond: policy.IPNetworkCondition{AllowedNetworks: []string{"10.0.0.0/8"}, AllowPrivate: true},
			ip:   "192.168.1.5",
			want: true,
		},
		{
			name: "empty allow list is open by default",
			cond: policy.IPNetworkCondition{},
			ip:   "8.8.8.8",
			want: true,
		},
		{
			name: "missing ip is false",
			cond: policy.IPNetworkCondition{},
			ip:   "",
			want: false,
		},
		{
			name: "invalid ip is false",
			cond: policy.IPNetworkCondition{},
			ip:   "not-an-ip",
			want: false,
		},
		{
			name: "invalid cidr is condition-false",
			cond: policy.IPNetworkCondition{AllowedNetworks: []string{"10.0.0.0/33"}},
			ip:   "10.1.2.3",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Evaluate(ctxWithIP(tt.ip)))
		})
	}
}

func TestOwnershipCondition(t *testing.T) {
	owned := testContext()
	assert.True(t, policy.OwnershipCondition{}.Evaluate(owned))

	foreign := testContext()
	foreign.Resource["user_id"] = "bob-456"
	assert.False(t, policy.OwnershipCondition{}.Evaluate(foreign))

	orgShared := policy.OwnershipCondition{AllowOrganizationAccess: true}
	assert.True(t, orgShared.Evaluate(foreign), "same organization is enough with org access")

	foreignOrg := testContext()
	foreignOrg.Resource["user_id"] = "bob-456"
	foreignOrg.Resource["organization_id"] = "org-2"
	assert.False(t, orgShared.Evaluate(foreignOrg))

	custom := policy.OwnershipCondition{ResourceUserField: "owner"}
	withOwner := testContext()
	delete(withOwner.Resource, "user_id")
	withOwner.Resource["owner"] = "alice-123"
	assert.True(t, custom.Evaluate(withOwner))

	empty := &policy.Context{Resource: map[string]any{}}
	assert.False(t, policy.OwnershipCondition{}.Evaluate(empty))
}
