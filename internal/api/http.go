package api

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shipmatehq/shipmate/internal/alerting"
	"github.com/shipmatehq/shipmate/internal/auth"
	"github.com/shipmatehq/shipmate/internal/config"
	"github.com/shipmatehq/shipmate/internal/metrics"
	"github.com/shipmatehq/shipmate/internal/notification"
	"github.com/shipmatehq/shipmate/internal/platform"
	"github.com/shipmatehq/shipmate/internal/quotes"
	"github.com/shipmatehq/shipmate/internal/storage"
	"github.com/shipmatehq/shipmate/internal/ui"

	"github.com/shipmatehq/shipmate/internal/api/swagger"
)

// NewMux constructs the HTTP mux, wiring the OAuth flow, the shipping
// contract endpoints, the operator API, metrics, and health endpoints. The
// storage backend is an injected dependency so tests and alternate backends
// can swap it.
func NewMux(cfg config.Config, st storage.Storage) *http.ServeMux {
	client := platform.New(cfg.LoginURL, cfg.APIURL, cfg.ClientID, cfg.ClientSecret, cfg.AppURL)
	notifier := notification.NewService(notification.FromEnv())
	alerter := alerting.NewAlerter(alerting.DefaultAlertConfig())

	providerName := os.Getenv("SHIPMATE_CARRIER")
	if providerName == "" {
		providerName = "static"
	}
	provider, ok := quotes.Get(providerName)
	if !ok {
		log.Printf("api: unknown carrier provider %q, falling back to static (known: %v)", providerName, quotes.List())
		provider, _ = quotes.Get("static")
	}

	oauthHandler := NewOAuthHandler(cfg, st, client, notifier, alerter)
	shippingHandler := NewShippingHandler(provider)

	mux := http.NewServeMux()

	// OAuth install flow.
	mux.HandleFunc("/api/install", instrument("/api/install", oauthHandler.Install))
	mux.HandleFunc("/api/auth/callback", instrument("/api/auth/callback", oauthHandler.Callback))
	mux.HandleFunc("/api/load", instrument("/api/load", oauthHandler.Load))
	mux.HandleFunc("/api/uninstall", instrument("/api/uninstall", oauthHandler.Uninstall))

	// Shipping contract endpoints called by the platform during checkout.
	mux.HandleFunc(platform.ConnectionPath, instrument(platform.ConnectionPath, shippingHandler.Connection))
	mux.HandleFunc(platform.RatesPath, instrument(platform.RatesPath, shippingHandler.Rates))

	// Operator API, active only when admin tokens are configured.
	authSvc, err := auth.NewService(os.Getenv("SHIPMATE_ADMIN_TOKENS"))
	if err != nil {
		log.Printf("api: admin token config invalid, operator API disabled: %v", err)
	} else {
		RegisterV2Routes(mux, st, authSvc)
	}

	// Metrics endpoint.
	mux.Handle("/metrics", promhttp.Handler())

	// Health / readiness / liveness.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			log.Printf("readyz: storage ping failed: %v", err)
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("live"))
	})

	// API docs.
	mux.Handle("/docs/", http.StripPrefix("/docs", swagger.Handler()))

	// Root health/landing page.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ui.RenderIndex(w); err != nil {
			log.Printf("render index failed: %v", err)
		}
	})

	return mux
}

// instrument wraps a handler with per-route request count and duration
// metrics.
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.RequestsTotal.WithLabelValues(route).Inc()
		defer func() {
			metrics.RequestDurationSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}()
		h(w, r)
	}
}
