package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"stickpad/internal/board"
)

// Sentinel errors mirroring the API's failure statuses.
var (
	ErrUnauthorized = errors.New("not signed in")
	ErrForbidden    = errors.New("note belongs to another user")
	ErrNotFound     = errors.New("note not found")
	ErrConflict     = errors.New("username already taken")
)

// Client talks to a stickpad server. The session cookie set at login rides
// in the jar, so one client is one authenticated session.
type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(base string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", base, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		base: u,
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Account is the public view of a user returned by auth endpoints.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (c *Client) Register(ctx context.Context, username, password string) (Account, error) {
	var acc Account
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{username, password}, &acc)
	return acc, err
}

func (c *Client) Login(ctx context.Context, username, password string) (Account, error) {
	var acc Account
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{username, password}, &acc)
	return acc, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me reports the account behind the current session. The endpoint answers
// 200 whether or not a session exists; a signed-out state maps to
// ErrUnauthorized here so callers keep one error to check.
func (c *Client) Me(ctx context.Context) (Account, error) {
	var status struct {
		Authenticated bool     `json:"authenticated"`
		User          *Account `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &status); err != nil {
		return Account{}, err
	}
	if !status.Authenticated || status.User == nil {
		return Account{}, ErrUnauthorized
	}
	return *status.User, nil
}

func (c *Client) Notes(ctx context.Context) ([]board.Note, error) {
	var notes []board.Note
	err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes)
	return notes, err
}

func (c *Client) CreateNote(ctx context.Context, n board.Note) (board.Note, error) {
	var out board.Note
	err := c.do(ctx, http.MethodPost, "/api/notes", n, &out)
	return out, err
}

func (c *Client) UpdateNote(ctx context.Context, id string, p board.Patch) (board.Note, error) {
	var out board.Note
	err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), p, &out)
	return out, err
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	ref := &url.URL{Path: path}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
