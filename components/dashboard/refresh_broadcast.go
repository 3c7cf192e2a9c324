package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultBroadcastBuffer = 8
	defaultHeartbeat       = 25 * time.Second
	socketWriteWait        = 10 * time.Second
)

// BroadcastHook is a RefreshHook that fans widget events out to live
// streams. A subscriber whose buffer is full misses the event; the publisher
// never blocks.
type BroadcastHook struct {
	mu        sync.RWMutex
	subs      map[int]*subscriber
	next      int
	closed    bool
	buffer    int
	heartbeat time.Duration
	dropped   atomic.Uint64
}

type subscriber struct {
	ch    chan WidgetEvent
	areas map[string]bool
}

// wants reports whether s listens to area. Events without an area, such as
// deletes, reach everyone.
func (s *subscriber) wants(area string) bool {
	return len(s.areas) == 0 || area == "" || s.areas[area]
}

type BroadcastOption func(*BroadcastHook)

// WithBroadcastBuffer sets how many events each subscriber may fall behind.
func WithBroadcastBuffer(n int) BroadcastOption {
	return func(h *BroadcastHook) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithHeartbeat sets the interval of SSE comments and WebSocket pings that
// keep idle streams open through proxies.
func WithHeartbeat(d time.Duration) BroadcastOption {
	return func(h *BroadcastHook) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

func NewBroadcastHook(opts ...BroadcastOption) *BroadcastHook {
	h := &BroadcastHook{
		subs:      make(map[int]*subscriber),
		buffer:    defaultBroadcastBuffer,
		heartbeat: defaultHeartbeat,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ RefreshHook = (*BroadcastHook)(nil)

func (h *BroadcastHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.wants(event.AreaCode) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe opens a stream of events for the given areas, or for every area
// when none is named. Call cancel when done. After Close the channel comes
// back already closed.
func (h *BroadcastHook) Subscribe(areas ...string) (<-chan WidgetEvent, func()) {
	sub := &subscriber{ch: make(chan WidgetEvent, h.buffer)}
	for _, area := range areas {
		if area = strings.TrimSpace(area); area != "" {
			if sub.areas == nil {
				sub.areas = map[string]bool{}
			}
			sub.areas[area] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub.ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = sub
	return sub.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.ch)
		}
	}
}

func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts events lost to full subscriber buffers.
func (h *BroadcastHook) Dropped() uint64 {
	return h.dropped.Load()
}

// Close ends every open stream so serving handlers return on shutdown.
func (h *BroadcastHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// requestAreas reads ?area=a,b from r.
func requestAreas(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["area"] {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWebSocket upgrades r and writes each event as a JSON text frame.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe(requestAreas(r)...)
	defer cancel()

	// The read loop handles pings and notices the client leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-gone:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait)); err != nil {
				return
			}
		case event, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams events as Server-Sent Events named after the event
// reason, with comment heartbeats in between.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")

	events, cancel := h.Subscribe(requestAreas(r)...)
	defer cancel()

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return
			}
			name := event.Reason
			if name == "" {
				name = "refresh"
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
				return
			}
			flush()
		}
	}
}
