package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"SHIPMATE_CLIENT_ID", "SHIPMATE_CLIENT_SECRET", "SHIPMATE_APP_URL",
		"SHIPMATE_LOGIN_URL", "SHIPMATE_API_URL", "PORT",
		"SHIPMATE_DB_DRIVER", "SHIPMATE_DB_DSN",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.LoginURL != "https://login.bigcommerce.com" {
		t.Fatalf("LoginURL = %q", cfg.LoginURL)
	}
	if cfg.APIURL != "https://api.bigcommerce.com" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Port != "8000" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.DBDriver != "memory" {
		t.Fatalf("DBDriver = %q", cfg.DBDriver)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SHIPMATE_CLIENT_ID", "cid")
	t.Setenv("SHIPMATE_APP_URL", "https://app.example.com")
	t.Setenv("PORT", "9999")
	t.Setenv("SHIPMATE_DB_DRIVER", "sqlite")
	t.Setenv("SHIPMATE_DB_DSN", "/tmp/x.db")

	cfg := FromEnv()
	if cfg.ClientID != "cid" {
		t.Fatalf("ClientID = %q", cfg.ClientID)
	}
	if cfg.AppURL != "https://app.example.com" {
		t.Fatalf("AppURL = %q", cfg.AppURL)
	}
	if cfg.Port != "9999" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" || cfg.DBDSN != "/tmp/x.db" {
		t.Fatalf("db config = %q %q", cfg.DBDriver, cfg.DBDSN)
	}
}
