package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/components/dashboard/commands"
)

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	Assign  gocommand.Commander[dashboard.AddWidgetRequest]
	Update  gocommand.Commander[commands.UpdateWidgetInput]
	Remove  gocommand.Commander[commands.RemoveWidgetInput]
	Reorder gocommand.Commander[commands.ReorderWidgetsInput]
	Refresh gocommand.Commander[commands.RefreshWidgetInput]
}

func (h *Handlers) HandleAssignWidget(w http.ResponseWriter, r *http.Request) {
	var payload dashboard.AddWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := execute(r.Context(), h.Assign, payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (h *Handlers) HandleUpdateWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	var payload commands.UpdateWidgetInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	payload.WidgetID = widgetID
	if err := execute(r.Context(), h.Update, payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	input := commands.RemoveWidgetInput{WidgetID: widgetID}
	if err := execute(r.Context(), h.Remove, input); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var payload commands.ReorderWidgetsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := execute(r.Context(), h.Reorder, payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

func (h *Handlers) HandleRefreshWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshWidgetInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := execute(r.Context(), h.Refresh, payload); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// Mux mounts the handlers and, when hook is set, the WebSocket and SSE
// refresh streams under prefix.
func (h *Handlers) Mux(prefix string, hook *dashboard.BroadcastHook) *http.ServeMux {
	prefix = strings.TrimSuffix(prefix, "/")
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/widgets", h.HandleAssignWidget)
	mux.HandleFunc("POST "+prefix+"/widgets/reorder", h.HandleReorderWidgets)
	mux.HandleFunc("POST "+prefix+"/widgets/refresh", h.HandleRefreshWidget)
	mux.HandleFunc("PUT "+prefix+"/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpdateWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("DELETE "+prefix+"/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRemoveWidget(w, r, r.PathValue("id"))
	})
	if hook != nil {
		mux.HandleFunc("GET "+prefix+"/ws", hook.ServeWebSocket)
		mux.HandleFunc("GET "+prefix+"/events", hook.ServeSSE)
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
