// Package platform is a minimal client for the e-commerce platform's OAuth
// and app-metadata APIs. Every call is a single attempt with a bounded
// timeout; retrying is left to the platform's own install flow.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ContextPrefix is the prefix the platform puts in front of the store hash in
// the OAuth context parameter, e.g. "stores/abc123".
const ContextPrefix = "stores/"

// The two relative paths the platform calls during checkout. Registered as
// app metadata so the platform knows where to find them.
const (
	ConnectionPath = "/v1/shipping/connection"
	RatesPath      = "/v1/shipping/rates"
)

// Client talks to the platform's login and API hosts.
type Client struct {
	LoginURL     string
	APIURL       string
	ClientID     string
	ClientSecret string
	AppURL       string

	httpClient *http.Client
}

// New returns a Client with a bounded request timeout.
func New(loginURL, apiURL, clientID, clientSecret, appURL string) *Client {
	return &Client{
		LoginURL:     strings.TrimRight(loginURL, "/"),
		APIURL:       strings.TrimRight(apiURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AppURL:       strings.TrimRight(appURL, "/"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// CallbackURL is where the platform redirects the merchant after consent.
func (c *Client) CallbackURL() string {
	return c.AppURL + "/api/auth/callback"
}

// AuthorizeURL builds the platform authorize endpoint URL the merchant is
// redirected to at the start of the install flow.
func (c *Client) AuthorizeURL(scope, storeContext string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("scope", scope)
	q.Set("redirect_uri", c.CallbackURL())
	q.Set("response_type", "code")
	q.Set("context", storeContext)
	return c.LoginURL + "/oauth2/authorize?" + q.Encode()
}

// TokenResponse is the platform's answer to a successful code exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	Context     string `json:"context"`
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	Scope        string `json:"scope"`
	Context      string `json:"context"`
}

// ExchangeToken trades an authorization code for an access token. One attempt,
// no retries; any non-2xx response is an error carrying the upstream status.
func (c *Client) ExchangeToken(ctx context.Context, code, scope, storeContext string) (*TokenResponse, error) {
	body, err := json.Marshal(tokenRequest{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.CallbackURL(),
		GrantType:    "authorization_code",
		Code:         code,
		Scope:        scope,
		Context:      storeContext,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.LoginURL+"/oauth2/token", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed: %d %s", resp.StatusCode, string(respBody))
	}

	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("token exchange: decode response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token exchange: empty access token in response")
	}
	return &tok, nil
}

type metadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type metadataRequest struct {
	Entries []metadataEntry `json:"entries"`
}

// RegisterShippingEndpoints tells the platform where this app serves the
// connection-test and rate-quote endpoints. Best effort: callers are expected
// to log and swallow the error.
func (c *Client) RegisterShippingEndpoints(ctx context.Context, storeHash, accessToken string) error {
	body, err := json.Marshal(metadataRequest{
		Entries: []metadataEntry{
			{Key: "connection_url", Value: ConnectionPath},
			{Key: "rates_url", Value: RatesPath},
		},
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/stores/%s/v3/app/metadata", c.APIURL, storeHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Auth-Token", accessToken)
	req.Header.Set("X-Auth-Client", c.ClientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("metadata registration failed: %d %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// StoreHashFromContext strips the platform's context prefix. The match is
// exact: any other casing or prefix passes through unchanged.
func StoreHashFromContext(storeContext string) string {
	return strings.TrimPrefix(storeContext, ContextPrefix)
}
