package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shipmatehq/shipmate/internal/alerting"
	"github.com/shipmatehq/shipmate/internal/config"
	"github.com/shipmatehq/shipmate/internal/metrics"
	"github.com/shipmatehq/shipmate/internal/notification"
	"github.com/shipmatehq/shipmate/internal/platform"
	"github.com/shipmatehq/shipmate/internal/storage"
	"github.com/shipmatehq/shipmate/internal/ui"
)

// OAuthHandler drives the platform's install handshake: the initial redirect
// to the authorize endpoint, the code-for-token callback, the control-panel
// iframe, and the uninstall callback.
type OAuthHandler struct {
	cfg      config.Config
	st       storage.Storage
	client   *platform.Client
	notifier *notification.Service
	alerter  *alerting.Alerter
}

func NewOAuthHandler(cfg config.Config, st storage.Storage, client *platform.Client, notifier *notification.Service, alerter *alerting.Alerter) *OAuthHandler {
	return &OAuthHandler{
		cfg:      cfg,
		st:       st,
		client:   client,
		notifier: notifier,
		alerter:  alerter,
	}
}

// Install starts the OAuth flow by redirecting the merchant to the platform's
// authorize endpoint.
func (h *OAuthHandler) Install(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "/api/install", http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	storeContext := r.URL.Query().Get("context")
	scope := r.URL.Query().Get("scope")
	if storeContext == "" || scope == "" {
		writeError(w, "/api/install", http.StatusBadRequest, "missing required parameters: context, scope")
		return
	}

	if h.cfg.ClientID == "" || h.cfg.AppURL == "" {
		log.Printf("install: client id or app URL not configured")
		writeError(w, "/api/install", http.StatusInternalServerError, "server is not configured")
		return
	}

	http.Redirect(w, r, h.client.AuthorizeURL(scope, storeContext), http.StatusFound)
}

// Callback finishes the OAuth flow: exchanges the code, persists the
// credential, and kicks off endpoint registration as a side effect whose
// failure never reaches the merchant.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "/api/auth/callback", http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	code := q.Get("code")
	storeContext := q.Get("context")
	scope := q.Get("scope")
	if code == "" || storeContext == "" {
		writeError(w, "/api/auth/callback", http.StatusBadRequest, "missing required parameters: code, context")
		return
	}

	tok, err := h.client.ExchangeToken(r.Context(), code, scope, storeContext)
	if err != nil {
		// Upstream detail stays in the log; the merchant sees a generic page.
		log.Printf("callback: token exchange for context %q failed: %v", storeContext, err)
		metrics.TokenExchangeFailuresTotal.Inc()
		h.renderFailure(w)
		return
	}

	if tok.Context != "" {
		storeContext = tok.Context
	}
	storeHash := platform.StoreHashFromContext(storeContext)
	if tok.Scope != "" {
		scope = tok.Scope
	}

	if err := h.st.SaveCredential(r.Context(), storage.StoreCredential{
		StoreHash:   storeHash,
		AccessToken: tok.AccessToken,
		Scope:       scope,
	}); err != nil {
		log.Printf("callback: save credential for store %s failed: %v", storeHash, err)
		h.renderFailure(w)
		return
	}

	metrics.InstallsTotal.Inc()
	log.Printf("callback: store %s installed", storeHash)

	if err := h.st.AppendEvent(r.Context(), storage.InstallEvent{
		ID:        uuid.New().String(),
		StoreHash: storeHash,
		Action:    "install",
	}); err != nil {
		log.Printf("callback: record install event for store %s failed: %v", storeHash, err)
	}

	// Fire-and-forget: endpoint registration and operator notification run
	// detached from the request so their failure cannot fail the response.
	go h.afterInstall(storeHash, tok.AccessToken)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ui.RenderInstalled(w, ui.InstalledData{StoreHash: storeHash}); err != nil {
		log.Printf("callback: render confirmation failed: %v", err)
	}
}

func (h *OAuthHandler) afterInstall(storeHash, accessToken string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.client.RegisterShippingEndpoints(ctx, storeHash, accessToken); err != nil {
		log.Printf("register shipping endpoints for store %s failed: %v", storeHash, err)
		metrics.MetadataRegistrationFailuresTotal.Inc()
		if alertErr := h.alerter.SendRegistrationAlert(ctx, alerting.RegistrationAlert{
			StoreHash: storeHash,
			Error:     err.Error(),
			Timestamp: time.Now(),
		}); alertErr != nil {
			log.Printf("registration alert for store %s failed: %v", storeHash, alertErr)
		}
	}

	if h.notifier.Enabled() {
		if err := h.notifier.StoreInstalled(ctx, storeHash); err != nil {
			log.Printf("install notification for store %s failed: %v", storeHash, err)
		}
	}
}

func (h *OAuthHandler) renderFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if err := ui.RenderError(w); err != nil {
		log.Printf("render error page failed: %v", err)
	}
}

// Load serves the control-panel iframe content.
func (h *OAuthHandler) Load(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "/api/load", http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	storeHash := platform.StoreHashFromContext(r.URL.Query().Get("context"))
	installed := false
	if storeHash != "" {
		cred, err := h.st.GetCredential(r.Context(), storeHash)
		if err != nil {
			log.Printf("load: credential lookup for store %s failed: %v", storeHash, err)
		}
		installed = cred != nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ui.RenderLoad(w, ui.LoadData{StoreHash: storeHash, Installed: installed}); err != nil {
		log.Printf("load: render failed: %v", err)
	}
}

type uninstallRequest struct {
	StoreHash string `json:"store_hash"`
	Context   string `json:"context"`
}

type uninstallResponse struct {
	Success bool `json:"success"`
}

// Uninstall removes the store's credential. Absent or unknown identifiers are
// a no-op, not an error; the platform always gets success back.
func (h *OAuthHandler) Uninstall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "/api/uninstall", http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	storeHash := r.URL.Query().Get("store_hash")
	if storeHash == "" {
		var req uninstallRequest
		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			if err := json.Unmarshal(body, &req); err == nil {
				storeHash = req.StoreHash
				if storeHash == "" && req.Context != "" {
					storeHash = platform.StoreHashFromContext(req.Context)
				}
			}
		}
	}

	if storeHash != "" {
		if err := h.st.DeleteCredential(r.Context(), storeHash); err != nil {
			log.Printf("uninstall: delete credential for store %s failed: %v", storeHash, err)
		}
		if err := h.st.AppendEvent(r.Context(), storage.InstallEvent{
			ID:        uuid.New().String(),
			StoreHash: storeHash,
			Action:    "uninstall",
		}); err != nil {
			log.Printf("uninstall: record event for store %s failed: %v", storeHash, err)
		}
		metrics.UninstallsTotal.Inc()
		log.Printf("uninstall: store %s removed", storeHash)

		if h.notifier.Enabled() {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := h.notifier.StoreUninstalled(ctx, storeHash); err != nil {
					log.Printf("uninstall notification for store %s failed: %v", storeHash, err)
				}
			}()
		}
	}

	writeJSON(w, "/api/uninstall", uninstallResponse{Success: true})
}
