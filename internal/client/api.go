// Package client drives the restoration API from outside the server: an
// HTTP client for POST /restore and the upload/preview state machine used by
// the command line tool.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RestoreResult mirrors the 200 body of POST /restore.
type RestoreResult struct {
	RestoredImage string `json:"restoredImage"`
	Analysis      string `json:"analysis"`
	Message       string `json:"message"`
	Outcome       string `json:"outcome"`
	FailureReason string `json:"failureReason,omitempty"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("restore api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("restore api: status %d", e.StatusCode)
}

// APIClient calls the restoration endpoint with a Clerk session token.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient builds a client for baseURL. A nil httpClient gets a client
// whose timeout covers a slow model call.
func NewAPIClient(baseURL, token string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Minute}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(token),
		httpClient: httpClient,
	}
}

// Restore posts one data URL and decodes the result.
func (c *APIClient) Restore(ctx context.Context, dataURL string) (*RestoreResult, error) {
	body, err := json.Marshal(map[string]string{"image": dataURL})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/restore", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restore api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &apiErr)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	var out RestoreResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("restore api: decode response: %w", err)
	}
	return &out, nil
}
