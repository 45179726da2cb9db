// Package directory is the typed client for the remote room directory.
// It holds no room state; every call is a plain request/response against
// the authority that owns the durable truth of rooms and membership.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gtuverse/clubdeck/internal/domain"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// NewClient builds a client for the authority at base (no trailing slash).
// tokens may be nil for unauthenticated use.
func NewClient(base string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
	}
}

type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (c *Client) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := c.do(ctx, http.MethodGet, "/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) GetRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	var room domain.Room
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d", id), nil, &room)
	if err != nil {
		var ae *AuthorityError
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			return nil, fmt.Errorf("room %d: %w", id, domain.ErrRoomNotFound)
		}
		return nil, err
	}
	return &room, nil
}

func (c *Client) CreateRoom(ctx context.Context, name string) (*domain.Room, error) {
	var room domain.Room
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/rooms", body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) DeleteRoom(ctx context.Context, id domain.RoomID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d", id), nil, nil)
}

func (c *Client) AddMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error {
	body := map[string]int{"user_id": int(userID)}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%d/users", roomID), body, nil)
}

func (c *Client) RemoveMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d/users/%d", roomID, userID), nil, nil)
}

func (c *Client) GetMembers(ctx context.Context, roomID domain.RoomID) ([]domain.Member, error) {
	var members []domain.Member
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d/users", roomID), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) RoomsForUser(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/rooms", userID), nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do runs one request. A 204 or empty body on success is not an error:
// mutating endpoints legitimately answer with no payload.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Str("module", "directory").Str("op", op).Err(err).Msg("transport failure")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readMessage(resp.Body)
		log.Debug().Str("module", "directory").Str("op", op).Int("status", resp.StatusCode).Msg("authority failure")
		return &AuthorityError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// readMessage pulls the server-supplied message out of a failure body,
// best effort. Anything unparseable falls back to a generic string.
func readMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil && body.Message != "" {
		return body.Message
	}
	return "request failed"
}
