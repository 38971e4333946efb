package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shipmatehq/shipmate/internal/storage"
)

func newAdminMux(t *testing.T) (*http.ServeMux, *storage.MemoryStorage) {
	t.Helper()
	t.Setenv("SHIPMATE_ADMIN_TOKENS", "roottok:admin,viewtok:viewer")
	return newTestMux(t, "https://login.example.com", "https://api.example.com")
}

func adminGet(mux *http.ServeMux, target, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	mux.ServeHTTP(rec, req)
	return rec
}

func TestV2Stores_RequiresToken(t *testing.T) {
	mux, _ := newAdminMux(t)

	if rec := adminGet(mux, "/api/v2/stores", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: code = %d, want 401", rec.Code)
	}
	if rec := adminGet(mux, "/api/v2/stores", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: code = %d, want 401", rec.Code)
	}
}

func TestV2Stores_ListRedactsTokens(t *testing.T) {
	mux, st := newAdminMux(t)

	if err := st.SaveCredential(context.Background(), storage.StoreCredential{
		StoreHash:   "abc123",
		AccessToken: "super-secret-token",
	}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}

	rec := adminGet(mux, "/api/v2/stores", "viewtok")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 store, got %d", len(resp.Data))
	}
	if resp.Data[0]["store_hash"] != "abc123" {
		t.Fatalf("store_hash = %v", resp.Data[0]["store_hash"])
	}
	for k := range resp.Data[0] {
		if k == "access_token" {
			t.Fatal("access token serialized into operator API response")
		}
	}
}

func TestV2Stores_DeleteNeedsAdminRole(t *testing.T) {
	mux, st := newAdminMux(t)
	ctx := context.Background()

	if err := st.SaveCredential(ctx, storage.StoreCredential{StoreHash: "abc123", AccessToken: "T"}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}

	del := func(token string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v2/stores/abc123", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		mux.ServeHTTP(rec, req)
		return rec
	}

	if rec := del("viewtok"); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer delete: code = %d, want 403", rec.Code)
	}
	if cred, _ := st.GetCredential(ctx, "abc123"); cred == nil {
		t.Fatal("credential removed by forbidden request")
	}

	if rec := del("roottok"); rec.Code != http.StatusOK {
		t.Fatalf("admin delete: code = %d, want 200", rec.Code)
	}
	if cred, _ := st.GetCredential(ctx, "abc123"); cred != nil {
		t.Fatal("credential still present after admin delete")
	}
}

func TestV2Events(t *testing.T) {
	mux, st := newAdminMux(t)

	if err := st.AppendEvent(context.Background(), storage.InstallEvent{
		ID: "1", StoreHash: "abc123", Action: "install",
	}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	rec := adminGet(mux, "/api/v2/events", "viewtok")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	var resp struct {
		Data []storage.InstallEvent `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Action != "install" {
		t.Fatalf("unexpected events %+v", resp.Data)
	}
}

func TestV2_DisabledWithoutTokens(t *testing.T) {
	t.Setenv("SHIPMATE_ADMIN_TOKENS", "")
	mux, _ := newTestMux(t, "https://login.example.com", "https://api.example.com")

	rec := adminGet(mux, "/api/v2/stores", "anything")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404 when operator API is disabled", rec.Code)
	}
}
