package config

import "os"

// Config holds everything the service reads from the environment.
type Config struct {
	// OAuth app credentials issued by the platform's developer portal.
	ClientID     string
	ClientSecret string

	// AppURL is the public base URL this app is reachable at; the OAuth
	// callback URL is derived from it.
	AppURL string

	// LoginURL is the platform's OAuth host, APIURL its REST API host.
	LoginURL string
	APIURL   string

	Port string

	// Storage backend selection: memory (default), sqlite, or postgres.
	DBDriver string
	DBDSN    string
}

// FromEnv builds a Config from environment variables, with sane defaults.
func FromEnv() Config {
	cfg := Config{
		ClientID:     os.Getenv("SHIPMATE_CLIENT_ID"),
		ClientSecret: os.Getenv("SHIPMATE_CLIENT_SECRET"),
		AppURL:       os.Getenv("SHIPMATE_APP_URL"),
		LoginURL:     os.Getenv("SHIPMATE_LOGIN_URL"),
		APIURL:       os.Getenv("SHIPMATE_API_URL"),
		Port:         os.Getenv("PORT"),
		DBDriver:     os.Getenv("SHIPMATE_DB_DRIVER"),
		DBDSN:        os.Getenv("SHIPMATE_DB_DSN"),
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = "https://login.bigcommerce.com"
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.bigcommerce.com"
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "memory"
	}
	if cfg.DBDSN == "" {
		cfg.DBDSN = "shipmate.db"
	}
	return cfg
}
