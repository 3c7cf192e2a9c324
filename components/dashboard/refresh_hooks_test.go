package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHook struct {
	calls int
	err   error
}

func (h *countingHook) WidgetUpdated(context.Context, WidgetEvent) error {
	h.calls++
	return h.err
}

type recordingTelemetry struct {
	events []string
	fields []map[string]any
}

func (r *recordingTelemetry) Record(_ context.Context, event string, fields map[string]any) {
	r.events = append(r.events, event)
	r.fields = append(r.fields, fields)
}

func TestRefreshHooksRunsEveryHook(t *testing.T) {
	boom := errors.New("boom")
	first := &countingHook{err: boom}
	second := &countingHook{}
	hooks := RefreshHooks{first, nil, second}

	err := hooks.WidgetUpdated(context.Background(), WidgetEvent{Reason: "update"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestTelemetryHookCarriesActivity(t *testing.T) {
	rec := &recordingTelemetry{}
	hook := TelemetryHook{Telemetry: rec}
	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "alex", SessionID: "s1"})

	err := hook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: AreaMain,
		Reason:   "refresh",
		Instance: WidgetInstance{ID: "w1", DefinitionID: "admin.widget.streak"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"dashboard.refresh.publish"}, rec.events)
	assert.Equal(t, "alex", rec.fields[0]["actor_id"])
	assert.Equal(t, "s1", rec.fields[0]["session_id"])
	assert.Equal(t, "w1", rec.fields[0]["instance"])
}
