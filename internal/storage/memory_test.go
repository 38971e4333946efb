package storage

import (
	"context"
	"testing"
)

func TestMemory_SaveAndGetCredential(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	c := StoreCredential{StoreHash: "abc123", AccessToken: "T", Scope: "store_v2_information"}
	if err := m.SaveCredential(ctx, c); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}

	got, err := m.GetCredential(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected credential, got nil")
	}
	if got.AccessToken != "T" {
		t.Fatalf("access token mismatch: want T got %s", got.AccessToken)
	}
	if got.InstalledAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set on save")
	}
}

func TestMemory_GetCredential_Missing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	got, err := m.GetCredential(ctx, "nope")
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing store, got %+v", got)
	}
}

func TestMemory_SaveCredential_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	if err := m.SaveCredential(ctx, StoreCredential{StoreHash: "abc123", AccessToken: "first"}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}
	if err := m.SaveCredential(ctx, StoreCredential{StoreHash: "abc123", AccessToken: "second"}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}

	got, err := m.GetCredential(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if got.AccessToken != "second" {
		t.Fatalf("expected last write to win, got token %s", got.AccessToken)
	}

	list, err := m.ListCredentials(ctx)
	if err != nil {
		t.Fatalf("ListCredentials failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 credential after upsert, got %d", len(list))
	}
}

func TestMemory_DeleteCredential_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	if err := m.SaveCredential(ctx, StoreCredential{StoreHash: "abc123", AccessToken: "T"}); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}
	if err := m.DeleteCredential(ctx, "abc123"); err != nil {
		t.Fatalf("DeleteCredential failed: %v", err)
	}
	// Deleting again must not error.
	if err := m.DeleteCredential(ctx, "abc123"); err != nil {
		t.Fatalf("second DeleteCredential failed: %v", err)
	}

	got, err := m.GetCredential(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected credential gone, got %+v", got)
	}
}

func TestMemory_AppendAndListEvents(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	if err := m.AppendEvent(ctx, InstallEvent{ID: "1", StoreHash: "abc123", Action: "install"}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := m.AppendEvent(ctx, InstallEvent{ID: "2", StoreHash: "abc123", Action: "uninstall"}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	events, err := m.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != "install" || events[1].Action != "uninstall" {
		t.Fatalf("events out of order: %+v", events)
	}
	if events[0].OccurredAt.IsZero() {
		t.Fatal("expected OccurredAt to be set")
	}
}

func TestOpen_MemoryDriver(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "bogus"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
