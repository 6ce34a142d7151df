// Package keystore talks to the external identity and credential backend:
// resolving bearer tokens to user ids and storing one provider API key per
// user. The relay only consumes this surface; the backend itself (a
// Supabase-compatible REST service) is an external collaborator.
package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUnauthenticated is returned when a bearer token does not resolve
	// to a user.
	ErrUnauthenticated = errors.New("invalid user token")

	// ErrNoKey is returned when a user has no stored API key. It is a
	// normal condition, not a failure.
	ErrNoKey = errors.New("no stored API key")
)

// Store is the credential-store surface the relay consumes.
type Store interface {
	// UserFromToken resolves a bearer access token to a user id.
	UserFromToken(ctx context.Context, accessToken string) (string, error)

	// APIKeyForUser returns the provider API key stored for a user.
	APIKeyForUser(ctx context.Context, userID string) (string, error)

	// SaveAPIKey upserts the API key stored for a user.
	SaveAPIKey(ctx context.Context, userID, apiKey string) error

	// DeleteAPIKey removes the stored API key for a user.
	DeleteAPIKey(ctx context.Context, userID string) error
}

const defaultTimeout = 10 * time.Second

// Client implements Store against a Supabase-compatible REST backend.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

var _ Store = (*Client)(nil)

// NewClient creates a store client. baseURL is the backend root (no
// trailing slash needed); serviceKey authorizes the relay's own access to
// the key table.
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// UserFromToken asks the backend's auth endpoint who the token belongs to.
func (c *Client) UserFromToken(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("keystore: user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrUnauthenticated
	}

	// The auth endpoint returns either the user object directly or wrapped
	// under a "user" key depending on backend version.
	var body struct {
		ID   string `json:"id"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("keystore: decode user response: %w", err)
	}

	switch {
	case body.ID != "":
		return body.ID, nil
	case body.User.ID != "":
		return body.User.ID, nil
	}
	return "", ErrUnauthenticated
}

// APIKeyForUser reads the user's stored key from the user_api_keys table.
func (c *Client) APIKeyForUser(ctx context.Context, userID string) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/user_api_keys?user_id=eq.%s&select=api_key",
		c.baseURL, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	c.setServiceHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("keystore: key lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("keystore: key lookup returned status %d", resp.StatusCode)
	}

	var rows []struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return "", fmt.Errorf("keystore: decode key response: %w", err)
	}
	if len(rows) == 0 || rows[0].APIKey == "" {
		return "", ErrNoKey
	}
	return rows[0].APIKey, nil
}

// SaveAPIKey upserts the user's key, keyed on user_id.
func (c *Client) SaveAPIKey(ctx context.Context, userID, apiKey string) error {
	payload, err := json.Marshal(map[string]string{
		"user_id": userID,
		"api_key": apiKey,
	})
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/rest/v1/user_api_keys?on_conflict=user_id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	c.setServiceHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("keystore: save key failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("keystore: save key returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// DeleteAPIKey removes the user's key row.
func (c *Client) DeleteAPIKey(ctx context.Context, userID string) error {
	endpoint := fmt.Sprintf("%s/rest/v1/user_api_keys?user_id=eq.%s",
		c.baseURL, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	c.setServiceHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("keystore: delete key failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("keystore: delete key returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setServiceHeaders(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}
