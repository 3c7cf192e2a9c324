package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

func TestNewRegistryHasBuiltins(t *testing.T) {
	reg := NewRegistry()
	for _, def := range DefaultWidgetDefinitions() {
		_, ok := reg.Definition(def.Code)
		assert.Truef(t, ok, "missing definition %s", def.Code)
	}
	_, ok := reg.Provider("admin.widget.xp_progress")
	assert.True(t, ok)
	defs := reg.Definitions()
	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Code, defs[i].Code)
	}
}

func TestRegistryRegisterProviderNeedsDefinition(t *testing.T) {
	reg := NewRegistry()
	provider := ProviderFunc(func(context.Context, WidgetContext) (WidgetData, error) { return WidgetData{}, nil })

	err := reg.RegisterProvider("acme.widget.ghost", provider)
	assert.ErrorIs(t, err, ErrUnknownDefinition)
	assert.ErrorIs(t, reg.RegisterDefinition(WidgetDefinition{}), gamification.ErrInvalidArgument)
	assert.Error(t, reg.RegisterProvider("admin.widget.streak", nil))

	require.NoError(t, reg.Register(WidgetDefinition{Code: "acme.widget.ghost", Name: "Ghost"}, provider))
	_, ok := reg.Provider("acme.widget.ghost")
	assert.True(t, ok)
}

func TestRegistryRegisterWithoutProvider(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(WidgetDefinition{Code: "acme.widget.static", Name: "Static"}, nil))
	_, ok := reg.Provider("acme.widget.static")
	assert.False(t, ok)
}

func TestRegistryApplyHooksReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	RegisterWidgetHook(func(*Registry) error { return boom })
	t.Cleanup(func() {
		hooksMu.Lock()
		hooks = hooks[:len(hooks)-1]
		hooksMu.Unlock()
	})

	reg := NewRegistry()
	assert.ErrorIs(t, reg.ApplyHooks(), boom)
	_, ok := reg.Definition("admin.widget.xp_progress")
	assert.True(t, ok, "built-ins survive a failing hook")
}
