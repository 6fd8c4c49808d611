package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/shelf/internal/shared"
	tu "github.com/desertthunder/shelf/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != "http://127.0.0.1:3000" {
				t.Errorf("expected default baseURL, got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Sends Bearer Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("expected bearer token, got %q", got)
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []string{"a"}})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			srv.SetToken(" tok\n")
			resp, err := srv.Get(context.Background(), "/books")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.IsJSON {
				t.Error("expected response to be JSON")
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/metrics")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)
			_, err := srv.Get(context.Background(), "/test\x00invalid")

			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			srv := NewAPIService("http://example.com", client)
			_, err := srv.Get(context.Background(), "/test")

			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := NewAPIService("http://example.com", client)
			_, err := srv.Get(context.Background(), "/test")

			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})
	})

	t.Run("Methods", func(t *testing.T) {
		var seen []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			seen = append(seen, r.Method+" "+r.URL.RequestURI()+" "+string(body))
			w.Write([]byte(`{"success":true}`))
		}))
		defer server.Close()

		srv := NewAPIService(server.URL, nil)
		ctx := context.Background()
		srv.Post(ctx, "/books", []byte(`{"title":"Dune"}`))
		srv.Put(ctx, "/books", []byte(`{"id":"1"}`))
		srv.Delete(ctx, "/books?id=1")

		want := []string{
			`POST /books {"title":"Dune"}`,
			`PUT /books {"id":"1"}`,
			`DELETE /books?id=1 `,
		}
		if strings.Join(seen, "|") != strings.Join(want, "|") {
			t.Errorf("unexpected requests:\n got %q\nwant %q", seen, want)
		}
	})

	t.Run("Envelope", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			resp := &APIResponse{StatusCode: 200, Body: []byte(`{"success":true,"sessionToken":"abc","data":[1,2]}`)}
			env, err := resp.Envelope()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var token string
			if err := env.Decode("sessionToken", &token); err != nil || token != "abc" {
				t.Errorf("expected token abc, got %q (%v)", token, err)
			}
			if string(env.Data) != "[1,2]" {
				t.Errorf("expected data [1,2], got %s", env.Data)
			}
			if err := env.Decode("missing", &token); err == nil {
				t.Error("expected error decoding a missing field")
			}
		})

		t.Run("Error Statuses", func(t *testing.T) {
			tests := []struct {
				status int
				want   error
			}{
				{http.StatusBadRequest, shared.ErrValidation},
				{http.StatusUnauthorized, shared.ErrAuth},
				{http.StatusNotFound, shared.ErrNotFound},
				{http.StatusConflict, shared.ErrConflict},
				{http.StatusInternalServerError, shared.ErrAPIRequest},
			}

			for _, tt := range tests {
				resp := &APIResponse{StatusCode: tt.status, Body: []byte(`{"success":false,"error":"nope"}`)}
				_, err := resp.Envelope()
				if !errors.Is(err, tt.want) {
					t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
				}
				if err != nil && !strings.Contains(err.Error(), "nope") {
					t.Errorf("status %d: expected server message in error, got %v", tt.status, err)
				}
			}
		})

		t.Run("Not JSON", func(t *testing.T) {
			resp := &APIResponse{StatusCode: 502, Body: []byte("bad gateway")}
			if _, err := resp.Envelope(); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected API request error, got %v", err)
			}
		})
	})
}
