package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/shipmatehq/shipmate/internal/auth"
	"github.com/shipmatehq/shipmate/internal/storage"
)

// V2Handler exposes the operator API: installed stores and the install audit
// trail. All routes sit behind the bearer-token middleware.
type V2Handler struct {
	st      storage.Storage
	authSvc *auth.Service
}

// RegisterV2Routes wires the operator endpoints. When no admin tokens are
// configured the routes are not registered at all.
func RegisterV2Routes(mux *http.ServeMux, st storage.Storage, authSvc *auth.Service) {
	if authSvc == nil || !authSvc.Enabled() {
		log.Printf("api: no admin tokens configured, operator API disabled")
		return
	}

	h := &V2Handler{st: st, authSvc: authSvc}

	mux.Handle("/api/v2/stores", authSvc.Middleware(http.HandlerFunc(h.Stores)))
	mux.Handle("/api/v2/stores/", authSvc.Middleware(http.HandlerFunc(h.StoreByHash)))
	mux.Handle("/api/v2/events", authSvc.Middleware(http.HandlerFunc(h.Events)))
}

func (h *V2Handler) enforce(w http.ResponseWriter, r *http.Request, obj, act string) bool {
	role := auth.RoleFromContext(r.Context())
	allowed, err := h.authSvc.Enforce(role, obj, act)
	if err != nil || !allowed {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// Stores lists installed store credentials. Access tokens are never
// serialized.
func (h *V2Handler) Stores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "/api/v2/stores", http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.enforce(w, r, "stores", "read") {
		return
	}

	creds, err := h.st.ListCredentials(r.Context())
	if err != nil {
		log.Printf("list credentials failed: %v", err)
		writeError(w, "/api/v2/stores", http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, "/api/v2/stores", creds)
}

// StoreByHash removes a single store credential.
func (h *V2Handler) StoreByHash(w http.ResponseWriter, r *http.Request) {
	storeHash := strings.TrimPrefix(r.URL.Path, "/api/v2/stores/")
	if storeHash == "" || strings.Contains(storeHash, "/") {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		writeError(w, "/api/v2/stores", http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.enforce(w, r, "stores", "write") {
		return
	}

	if err := h.st.DeleteCredential(r.Context(), storeHash); err != nil {
		log.Printf("delete credential for store %s failed: %v", storeHash, err)
		writeError(w, "/api/v2/stores", http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, "/api/v2/stores", uninstallResponse{Success: true})
}

// Events returns the install/uninstall audit trail.
func (h *V2Handler) Events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "/api/v2/events", http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.enforce(w, r, "events", "read") {
		return
	}

	events, err := h.st.ListEvents(r.Context())
	if err != nil {
		log.Printf("list events failed: %v", err)
		writeError(w, "/api/v2/events", http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, "/api/v2/events", events)
}
