package storage

import "context"

// Storage abstracts persistence for store credentials and the install audit
// trail. The default backend is process-memory only; persistent backends hide
// behind the same interface.
type Storage interface {
	// Credentials
	GetCredential(ctx context.Context, storeHash string) (*StoreCredential, error)
	SaveCredential(ctx context.Context, c StoreCredential) error
	DeleteCredential(ctx context.Context, storeHash string) error
	ListCredentials(ctx context.Context) ([]StoreCredential, error)

	// Install audit trail
	AppendEvent(ctx context.Context, e InstallEvent) error
	ListEvents(ctx context.Context) ([]InstallEvent, error)

	// Ping reports backend health (no-op for in-memory).
	Ping(ctx context.Context) error

	// Close releases any resources (no-op for in-memory).
	Close() error
}
