// ABOUTME: HTTP blob store backed by a remote backup API.
// ABOUTME: PUTs and GETs whole blobs per team and key, authenticating with an API key header.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RemoteBlobStore saves blobs to a remote backup API.
type RemoteBlobStore struct {
	apiURL string
	apiKey string
	teamID string
	client *http.Client
}

// NewRemoteBlobStore creates a remote store with the given credentials.
func NewRemoteBlobStore(apiURL, apiKey, teamID string) *RemoteBlobStore {
	apiURL = strings.TrimRight(apiURL, "/")
	apiURL = strings.TrimSuffix(apiURL, "/v1")
	return &RemoteBlobStore{
		apiURL: apiURL,
		apiKey: apiKey,
		teamID: teamID,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// remoteBlobPayload is the JSON body exchanged with the remote API.
type remoteBlobPayload struct {
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
}

func (r *RemoteBlobStore) blobURL(key string) string {
	return r.apiURL + "/teams/" + url.PathEscape(r.teamID) + "/moods/blobs/" + url.PathEscape(key)
}

func (r *RemoteBlobStore) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("x-request-id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Save uploads blob under key.
func (r *RemoteBlobStore) Save(ctx context.Context, key, blob string) error {
	body, err := json.Marshal(remoteBlobPayload{
		Value:     blob,
		UpdatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal blob: %w", err)
	}

	req, err := r.newRequest(ctx, http.MethodPut, r.blobURL(key), bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("remote API returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Load downloads the blob stored under key. A 404 maps to ErrNotFound.
func (r *RemoteBlobStore) Load(ctx context.Context, key string) (string, error) {
	req, err := r.newRequest(ctx, http.MethodGet, r.blobURL(key), nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("remote blob %q: %w", key, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", fmt.Errorf("remote API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var payload remoteBlobPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return payload.Value, nil
}

// Ping checks credentials by reading the data key. A missing blob still counts as reachable.
func (r *RemoteBlobStore) Ping(ctx context.Context) error {
	_, err := r.Load(ctx, DataKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Close releases any resources held by the store.
func (r *RemoteBlobStore) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
