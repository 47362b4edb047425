package api

import (
	"net/http"

	"github.com/mhollis/wardkeep/audit"
)

// Health reports liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListEvents returns recorded security events, oldest first. An optional
// ?type= query parameter filters by event type.
func (a *API) ListEvents(w http.ResponseWriter, r *http.Request) {
	typ := audit.EventType(r.URL.Query().Get("type"))
	events := a.guard.Events.Events(typ)
	writeJSON(w, http.StatusOK, EventsResponse{
		Events: events,
		Count:  len(events),
	})
}

// ClearEvents discards all recorded security events.
func (a *API) ClearEvents(w http.ResponseWriter, r *http.Request) {
	a.guard.Events.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// ExportData returns the decrypted privacy snapshot for download.
func (a *API) ExportData(w http.ResponseWriter, r *http.Request) {
	bundle, err := a.guard.Store.Export()
	if err != nil {
		a.logger.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="wardkeep-export.json"`)
	writeJSON(w, http.StatusOK, bundle)
}

// DeleteData removes every stored key, session and behavioral data included.
func (a *API) DeleteData(w http.ResponseWriter, r *http.Request) {
	if err := a.guard.Store.DeleteAll(); err != nil {
		a.logger.Error("data deletion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "deletion failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
