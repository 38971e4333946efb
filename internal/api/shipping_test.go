package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConnection_AnyMethod(t *testing.T) {
	mux, _ := newTestMux(t, "https://login.example.com", "https://api.example.com")

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/v1/shipping/connection", strings.NewReader(`{"anything":true}`))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: code = %d, want 200", method, rec.Code)
		}

		var resp struct {
			Data struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", method, err)
		}
		if resp.Data.Status != "OK" {
			t.Fatalf("%s: status = %q, want OK", method, resp.Data.Status)
		}
		if resp.Data.Message == "" {
			t.Fatalf("%s: message is empty", method)
		}
	}
}

func TestRates_EmptyObjectBody(t *testing.T) {
	mux, _ := newTestMux(t, "https://login.example.com", "https://api.example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/shipping/rates", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	// The envelope must round-trip as JSON with a top-level data array.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if _, ok := raw["data"]; !ok {
		t.Fatal("response lacks top-level data key")
	}

	var resp struct {
		Data []struct {
			CarrierQuote struct {
				Code        string  `json:"code"`
				DisplayName string  `json:"display_name"`
				Cost        float64 `json:"cost"`
			} `json:"carrier_quote"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected exactly 2 quotes, got %d", len(resp.Data))
	}
	if resp.Data[0].CarrierQuote.Code != "sameday" || resp.Data[1].CarrierQuote.Code != "nextday" {
		t.Fatalf("unexpected quote order: %+v", resp.Data)
	}
	for _, e := range resp.Data {
		if e.CarrierQuote.DisplayName == "" || e.CarrierQuote.Cost <= 0 {
			t.Fatalf("incomplete quote %+v", e.CarrierQuote)
		}
	}
}

func TestRates_IgnoresCartContents(t *testing.T) {
	mux, _ := newTestMux(t, "https://login.example.com", "https://api.example.com")

	bodies := []string{
		`{}`,
		`{"items":[{"sku":"A","quantity":3,"weight":12.5}],"destination":{"country":"US","zip":"37042"}}`,
		`[]`,
		`null`,
	}
	var first string
	for i, body := range bodies {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/shipping/rates", strings.NewReader(body))
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("body %d: code = %d, want 200", i, rec.Code)
		}
		if i == 0 {
			first = rec.Body.String()
		} else if rec.Body.String() != first {
			t.Fatalf("body %d: response differs by cart contents", i)
		}
	}
}

func TestRates_MalformedJSON(t *testing.T) {
	mux, _ := newTestMux(t, "https://login.example.com", "https://api.example.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/shipping/rates", strings.NewReader(`{"broken":`))
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestRates_MethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t, "https://login.example.com", "https://api.example.com")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/shipping/rates", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d, want 405", rec.Code)
	}
}
