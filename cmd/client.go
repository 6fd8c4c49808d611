package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/shelf/internal/auth"
	"github.com/desertthunder/shelf/internal/library"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/services"
	"github.com/desertthunder/shelf/internal/shared"
)

// shelfClient wraps [services.APIService] with typed calls for each endpoint.
type shelfClient struct {
	api *services.APIService
}

// call sends body as JSON (when non-nil) and returns the parsed envelope.
func (c *shelfClient) call(ctx context.Context, method, path string, body any) (*services.Envelope, error) {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := c.api.Do(ctx, method, path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return resp.Envelope()
}

func (c *shelfClient) Register(ctx context.Context, name, email, password string) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/auth/register", map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return "", err
	}
	var id string
	if err := env.Decode("userId", &id); err != nil {
		return "", err
	}
	return id, nil
}

func (c *shelfClient) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	env, err := c.call(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	res := &auth.LoginResult{}
	if err := env.Decode("sessionToken", &res.Token); err != nil {
		return nil, err
	}
	if err := env.Decode("user", &res.User); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *shelfClient) Logout(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}

func (c *shelfClient) Me(ctx context.Context) (*models.PublicUser, error) {
	env, err := c.call(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	var user models.PublicUser
	if err := env.Decode("user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *shelfClient) ListBooks(ctx context.Context) ([]*models.Book, error) {
	env, err := c.call(ctx, http.MethodGet, "/books", nil)
	if err != nil {
		return nil, err
	}
	books := []*models.Book{}
	if err := env.Decode("data", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddBook implements [tasks.BookClient].
func (c *shelfClient) AddBook(ctx context.Context, in library.AddBookInput) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/books", in)
	if err != nil {
		return "", err
	}
	var id string
	if err := env.Decode("bookId", &id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateBook implements [tasks.BookClient].
func (c *shelfClient) UpdateBook(ctx context.Context, id string, patch library.BookPatch) error {
	body := struct {
		ID string `json:"id"`
		library.BookPatch
	}{ID: id, BookPatch: patch}

	_, err := c.call(ctx, http.MethodPut, "/books", body)
	return err
}

func (c *shelfClient) RemoveBook(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, "/books?id="+url.QueryEscape(id), nil)
	return err
}

func (c *shelfClient) Activity(ctx context.Context) ([]*models.Activity, error) {
	env, err := c.call(ctx, http.MethodGet, "/activity", nil)
	if err != nil {
		return nil, err
	}
	entries := []*models.Activity{}
	if err := env.Decode("data", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *shelfClient) RecordActivity(ctx context.Context, message string) error {
	_, err := c.call(ctx, http.MethodPost, "/activity", map[string]string{"message": message})
	return err
}

func (c *shelfClient) ClearActivity(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, "/activity/clear", nil)
	return err
}

// client returns a [shelfClient] carrying the stored session token, if any.
func (r *Runner) client() *shelfClient {
	token, err := r.loadSession()
	if err != nil {
		r.logger.Warn("failed to read session file", "path", r.sessionPath, "error", err)
	}
	r.api.SetToken(token)
	return &shelfClient{api: r.api}
}

// authedClient is [Runner.client] for commands that cannot work anonymously.
func (r *Runner) authedClient() (*shelfClient, error) {
	token, err := r.loadSession()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no stored session", shared.ErrNotAuthenticated)
	}
	r.api.SetToken(token)
	return &shelfClient{api: r.api}, nil
}

func (r *Runner) loadSession() (string, error) {
	data, err := os.ReadFile(r.sessionPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *Runner) saveSession(token string) error {
	if err := os.MkdirAll(filepath.Dir(r.sessionPath), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(r.sessionPath, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (r *Runner) clearSession() error {
	if err := os.Remove(r.sessionPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
