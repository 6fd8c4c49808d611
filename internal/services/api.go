// API client for a running shelf server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/shelf/internal/shared"
)

const defaultServerURL = "http://127.0.0.1:3000"

// APIService provides methods for making raw HTTP requests to the shelf server.
type APIService struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIService creates a new API client for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultServerURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// SetToken sets the session token sent as a bearer credential on every request.
func (a *APIService) SetToken(token string) {
	a.token = strings.TrimSpace(token)
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends a request with an optional JSON body.
func (a *APIService) Do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	fullURL := a.baseURL + path

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Envelope is the {success, data, error} body every shelf endpoint returns.
// Fields holds every top-level key, including ones outside data such as "sessionToken".
type Envelope struct {
	Success bool
	Error   string
	Data    json.RawMessage
	Fields  map[string]json.RawMessage
}

// Decode unmarshals the top-level field key into v.
func (e *Envelope) Decode(key string, v any) error {
	raw, ok := e.Fields[key]
	if !ok {
		return fmt.Errorf("%w: response has no %q field", shared.ErrAPIRequest, key)
	}
	return json.Unmarshal(raw, v)
}

// Envelope parses the response body. Unsuccessful responses are returned as errors
// wrapping the shared sentinel that matches the status code.
func (r *APIResponse) Envelope() (*Envelope, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(r.Body, &fields); err != nil {
		return nil, fmt.Errorf("%w: status %d: unexpected response body", shared.ErrAPIRequest, r.StatusCode)
	}

	env := &Envelope{Fields: fields, Data: fields["data"]}
	if raw, ok := fields["success"]; ok {
		_ = json.Unmarshal(raw, &env.Success)
	}
	if raw, ok := fields["error"]; ok {
		_ = json.Unmarshal(raw, &env.Error)
	}

	if env.Success && r.StatusCode < 400 {
		return env, nil
	}

	msg := env.Error
	if msg == "" {
		msg = http.StatusText(r.StatusCode)
	}
	return env, fmt.Errorf("%w: %s", statusError(r.StatusCode), msg)
}

func statusError(code int) error {
	switch code {
	case http.StatusBadRequest:
		return shared.ErrValidation
	case http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusConflict:
		return shared.ErrConflict
	case http.StatusServiceUnavailable:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}
