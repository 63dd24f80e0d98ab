// Package client implements song.Store against a genstaff server.
package client

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

	"github.com/icco/genstaff/internal/server"
	"github.com/icco/genstaff/internal/song"
)

var ErrServer = errors.New("server error")

var _ song.Store = (*Client)(nil)

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if b, ok := out.(*[]byte); ok {
		*b = data
		return nil
	}
	return json.Unmarshal(data, out)
}

// responseError maps the server's status codes back onto the song errors.
func responseError(status int, data []byte) error {
	var er server.ErrorResponse
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &er) == nil && er.Error != "" {
		msg = er.Error
	}
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", song.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", song.ErrInvalidSong, msg)
	}
	return fmt.Errorf("%w: %d: %s", ErrServer, status, msg)
}

func songPath(id string) string { return "/song/" + url.PathEscape(id) }

func (c *Client) List(ctx context.Context) ([]song.Summary, error) {
	var list []song.Summary
	if err := c.do(ctx, http.MethodGet, "/songs", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Load(ctx context.Context, id string) (*song.Song, error) {
	var data []byte
	if err := c.do(ctx, http.MethodGet, songPath(id), nil, &data); err != nil {
		return nil, err
	}
	s, err := song.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

func (c *Client) Create(ctx context.Context, s *song.Song) (string, error) {
	body, err := song.Marshal(s, song.JSON)
	if err != nil {
		return "", err
	}
	var resp server.CreateResponse
	if err := c.do(ctx, http.MethodPost, "/song", body, &resp); err != nil {
		return "", err
	}
	s.ID = resp.ID
	return resp.ID, nil
}

func (c *Client) Save(ctx context.Context, s *song.Song) error {
	body, err := song.Marshal(s, song.JSON)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, songPath(s.ID), body, nil)
}

func (c *Client) Rename(ctx context.Context, id, name string) error {
	body, err := json.Marshal(server.RenameRequest{Name: name})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, songPath(id)+"/rename", body, nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, songPath(id), nil, nil)
}
