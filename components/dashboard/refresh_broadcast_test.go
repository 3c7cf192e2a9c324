package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := WidgetEvent{AreaCode: "admin.dashboard.main"}
	if err := hook.WidgetUpdated(context.Background(), event); err != nil {
		t.Fatalf("WidgetUpdated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.AreaCode != event.AreaCode {
			t.Fatalf("expected area %s, got %s", event.AreaCode, e.AreaCode)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookCloseEndsStreams(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	if hook.Subscribers() != 1 {
		t.Fatalf("expected one subscriber, got %d", hook.Subscribers())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch {
		}
	}()
	hook.Close()
	<-done

	late, lateCancel := hook.Subscribe()
	defer lateCancel()
	if _, ok := <-late; ok {
		t.Fatalf("expected closed channel after Close")
	}
	if hook.Subscribers() != 0 {
		t.Fatalf("expected no subscribers after Close")
	}
}

func TestBroadcastHookServeSSE(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook := NewBroadcastHook()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		hook.ServeSSE(rec, req)
	}()

	deadline := time.Now().Add(time.Second)
	for hook.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	_ = hook.WidgetUpdated(context.Background(), WidgetEvent{AreaCode: AreaMain, Reason: "update"})
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: update") || !strings.Contains(body, `"area_code":"admin.dashboard.main"`) {
		t.Fatalf("unexpected SSE body %q", body)
	}
}

func TestBroadcastHookFiltersByArea(t *testing.T) {
	hook := NewBroadcastHook()
	sidebar, cancel := hook.Subscribe(AreaSidebar)
	defer cancel()

	_ = hook.WidgetUpdated(context.Background(), WidgetEvent{AreaCode: AreaMain, Reason: "update"})
	_ = hook.WidgetUpdated(context.Background(), WidgetEvent{AreaCode: AreaSidebar, Reason: "add"})
	_ = hook.WidgetUpdated(context.Background(), WidgetEvent{Reason: "delete"})

	var reasons []string
	for len(sidebar) > 0 {
		reasons = append(reasons, (<-sidebar).Reason)
	}
	if strings.Join(reasons, ",") != "add,delete" {
		t.Fatalf("expected sidebar and area-less events, got %v", reasons)
	}
}

func TestBroadcastHookCountsDropped(t *testing.T) {
	hook := NewBroadcastHook(WithBroadcastBuffer(1))
	_, cancel := hook.Subscribe()
	defer cancel()
	for i := 0; i < 3; i++ {
		_ = hook.WidgetUpdated(context.Background(), WidgetEvent{AreaCode: AreaMain})
	}
	if got := hook.Dropped(); got != 2 {
		t.Fatalf("expected 2 dropped events, got %d", got)
	}
}

func TestBroadcastHookSSEHeartbeat(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook := NewBroadcastHook(WithHeartbeat(5 * time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	hook.ServeSSE(rec, httptest.NewRequest(http.MethodGet, "/events?area=admin.dashboard.main", nil).WithContext(ctx))

	if !strings.Contains(rec.Body.String(), ": ping") {
		t.Fatalf("expected heartbeat comments, got %q", rec.Body.String())
	}
	if hook.Subscribers() != 0 {
		t.Fatalf("expected subscriber released")
	}
}
