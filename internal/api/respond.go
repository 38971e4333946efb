package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/shipmatehq/shipmate/internal/metrics"
)

// envelope is the platform's expected response shape: every shipping payload
// sits under a top-level "data" key. This is a compatibility requirement.
type envelope struct {
	Data interface{} `json:"data"`
}

type apiError struct {
	Error string `json:"error"`
}

func writeData(w http.ResponseWriter, route string, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope{Data: payload}); err != nil {
		log.Printf("encode response failed: %v", err)
		metrics.RequestErrorsTotal.WithLabelValues(route, "500").Inc()
	}
}

func writeJSON(w http.ResponseWriter, route string, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response failed: %v", err)
		metrics.RequestErrorsTotal.WithLabelValues(route, "500").Inc()
	}
}

// writeError sends a terse JSON error. The message is safe for clients;
// anything diagnostic belongs in the log, never in the body.
func writeError(w http.ResponseWriter, route string, code int, msg string) {
	metrics.RequestErrorsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(apiError{Error: msg})
}
