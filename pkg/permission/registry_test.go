package permission_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/authzkit/pkg/permission"
)

func TestFormatParseRoundTrip(t *testing.T) {
	tests := []struct {
		resource permission.Resource
		action   permission.Action
		scope    permission.Scope
		want     string
	}{
		{permission.ResourceInvoice, permission.ActionRead, permission.ScopeAll, "invoice:read"},
		{permission.ResourceInvoice, permission.ActionRead, permission.ScopeOwn, "invoice:read:own"},
		{permission.ResourceAPIKey, permission.ActionCreate, permission.ScopeAll, "api_key:create"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			name := permission.FormatName(tt.resource, tt.action, tt.scope)
			assert.Equal(t, tt.want, name)

			res, act, scope, err := permission.ParseName(name)
			require.NoError(t, err)
			assert.Equal(t, tt.resource, res)
			assert.Equal(t, tt.action, act)
			assert.Equal(t, tt.scope, scope)
		})
	}
}

func TestParseNameMalformed(t *testing.T) {
	for _, name := range []string{"", "invoice", "invoice:", ":read", "a:b:c:d", "a::c"} {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := permission.ParseName(name)
			assert.True(t, errors.Is(err, permission.ErrMalformedName))
		})
	}
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	reg := permission.NewRegistry()

	reg.Register(permission.Permission{
		Resource: permission.ResourceInvoice,
		Action:   permission.ActionRead,
	})
	p, ok := reg.Get("invoice:read")
	require.True(t, ok)
	assert.False(t, p.RequiresMFA)

	reg.Register(permission.Permission{
		Resource:    permission.ResourceInvoice,
		Action:      permission.ActionRead,
		RequiresMFA: true,
	})
	p, ok = reg.Get("invoice:read")
	require.True(t, ok)
	assert.True(t, p.RequiresMFA)
}

func TestRegistryGroups(t *testing.T) {
	reg := permission.NewRegistry()
	reg.RegisterGroup("reporting", []string{"report:read", "report:export"})

	perms, err := reg.ExpandGroup("reporting")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"report:read", "report:export"}, perms)

	_, err = reg.ExpandGroup("nonexistent")
	assert.True(t, errors.Is(err, permission.ErrUnknownGroup))
}

func TestDefaultRegistry(t *testing.T) {
	reg := permission.DefaultRegistry()

	apiKey, ok := reg.Get("api_key:create")
	require.True(t, ok)
	assert.True(t, apiKey.RequiresMFA)
	assert.True(t, apiKey.IsSensitive)

	invoiceRead, ok := reg.Get("invoice:read")
	require.True(t, ok)
	assert.False(t, invoiceRead.RequiresMFA)

	_, ok = reg.Get("invoice:read:own")
	assert.True(t, ok)

	perms, err := reg.ExpandGroup("invoice.manage")
	require.NoError(t, err)
	assert.Contains(t, perms, "invoice:*")

	assert.NotEmpty(t, reg.Names())
}
