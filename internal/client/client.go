// Package client talks to a running gateway's synthetic gate API over
// HTTP/JSON.
package client

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

// Identity is the response from GET /{id}.
type Identity struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Created   time.Time         `json:"created"`
	Endpoints map[string]string `json:"endpoints"`
}

// Data is the response from GET /{id}/data.
type Data struct {
	Project     string    `json:"project"`
	Data        string    `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
	URL         string    `json:"url"`
}

// Status is the response from GET /{id}/status.
type Status struct {
	Status   string `json:"status"`
	Level    int    `json:"level"`
	Requests struct {
		Today int `json:"today"`
		Total int `json:"total"`
	} `json:"requests"`
	Uptime string `json:"uptime"`
}

// GatewayClient fetches gate API responses from a gateway base URL.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting the given base URL
// (e.g. "http://localhost:8080").
func New(baseURL string) *GatewayClient {
	return &GatewayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Identity fetches the gate's identity document.
func (c *GatewayClient) Identity(ctx context.Context, id string) (*Identity, error) {
	var out Identity
	if err := c.doJSON(ctx, "/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Data fetches the gate's data endpoint.
func (c *GatewayClient) Data(ctx context.Context, id string) (*Data, error) {
	var out Data
	if err := c.doJSON(ctx, "/"+url.PathEscape(id)+"/data", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches the gate's status endpoint.
func (c *GatewayClient) Status(ctx context.Context, id string) (*Status, error) {
	var out Status
	if err := c.doJSON(ctx, "/"+url.PathEscape(id)+"/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// APIError represents an error response from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs a GET against path and decodes the JSON response.
func (c *GatewayClient) doJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
