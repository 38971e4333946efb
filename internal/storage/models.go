package storage

import "time"

// StoreCredential holds the OAuth access token for a single installed store.
// Keyed by store hash; at most one row per store, last write wins.
type StoreCredential struct {
	StoreHash   string    `json:"store_hash" gorm:"primaryKey;column:store_hash"`
	AccessToken string    `json:"-" gorm:"column:access_token"`
	Scope       string    `json:"scope,omitempty" gorm:"column:scope"`
	InstalledAt time.Time `json:"installed_at" gorm:"column:installed_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// InstallEvent records a single install or uninstall for the audit trail.
type InstallEvent struct {
	ID         string    `json:"id" gorm:"primaryKey;column:id"`
	StoreHash  string    `json:"store_hash" gorm:"column:store_hash"`
	Action     string    `json:"action" gorm:"column:action"` // "install" or "uninstall"
	OccurredAt time.Time `json:"occurred_at" gorm:"column:occurred_at"`
}
