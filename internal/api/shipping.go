package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/shipmatehq/shipmate/internal/metrics"
	"github.com/shipmatehq/shipmate/internal/quotes"
)

// ShippingHandler serves the two endpoints the platform calls during
// checkout. Both are stateless; neither depends on a stored credential.
type ShippingHandler struct {
	provider quotes.Provider
}

func NewShippingHandler(provider quotes.Provider) *ShippingHandler {
	return &ShippingHandler{provider: provider}
}

type connectionStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Connection is the platform's reachability probe. It accepts any method and
// any payload and always reports OK.
func (h *ShippingHandler) Connection(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	log.Printf("connection check from %s (%s)", r.RemoteAddr, r.Method)

	writeData(w, "/v1/shipping/connection", connectionStatus{
		Status:  "OK",
		Message: "shipmate carrier connection verified",
	})
}

type quoteEntry struct {
	CarrierQuote quotes.CarrierQuote `json:"carrier_quote"`
}

// Rates quotes a checkout. The cart payload must be well-formed JSON but its
// contents never influence the static quote table.
func (h *ShippingHandler) Rates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "/v1/shipping/rates", http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "/v1/shipping/rates", http.StatusBadRequest, "unreadable request body")
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		writeError(w, "/v1/shipping/rates", http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	list, err := h.provider.Quote(r.Context(), body)
	if err != nil {
		log.Printf("rate quote via provider %s failed: %v", h.provider.Name(), err)
		writeError(w, "/v1/shipping/rates", http.StatusInternalServerError, "internal error")
		return
	}

	entries := make([]quoteEntry, 0, len(list))
	for _, q := range list {
		entries = append(entries, quoteEntry{CarrierQuote: q})
	}

	metrics.RateQuotesServedTotal.Inc()
	writeData(w, "/v1/shipping/rates", entries)
}
