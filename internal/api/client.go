package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Gateway defines the three remote operations the sync engine needs.
// This interface is implemented by *Client and can be faked in tests.
type Gateway interface {
	FetchItem(ctx context.Context, itemID string) (ItemReactions, error)
	FetchUserReactions(ctx context.Context) ([]UserReaction, error)
	WriteReaction(ctx context.Context, itemID, kind string) (ItemReactions, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Client talks to the reaction HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string

	mu    sync.RWMutex
	token string
}

const (
	defaultAPIBind   = "127.0.0.1:8642"
	defaultUserAgent = "kudos/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// SetToken installs the bearer token used on subsequent requests. An empty
// token reverts to anonymous requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// FetchItem retrieves the reaction state for a single item.
func (c *Client) FetchItem(ctx context.Context, itemID string) (ItemReactions, error) {
	if c == nil {
		return ItemReactions{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(itemID) == "" {
		return ItemReactions{}, fmt.Errorf("item id required")
	}
	var payload ItemReactions
	if err := c.do(ctx, http.MethodGet, itemPath(itemID, "reactions"), nil, &payload); err != nil {
		return ItemReactions{}, err
	}
	return payload, nil
}

// FetchUserReactions retrieves every reaction the authenticated user holds.
// Used only by bulk resynchronization; may return an empty list.
func (c *Client) FetchUserReactions(ctx context.Context) ([]UserReaction, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []UserReaction
	if err := c.do(ctx, http.MethodGet, "/user-reactions", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteReaction sets the user's reaction on an item, or clears it when kind
// is empty. The response carries the authoritative post-write state.
func (c *Client) WriteReaction(ctx context.Context, itemID, kind string) (ItemReactions, error) {
	if c == nil {
		return ItemReactions{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(itemID) == "" {
		return ItemReactions{}, fmt.Errorf("item id required")
	}

	method := http.MethodDelete
	var body any
	if kind != "" {
		method = http.MethodPost
		body = writeReactionRequest{ReactionType: kind}
	}

	var payload ItemReactions
	if err := c.do(ctx, method, itemPath(itemID, "reaction"), body, &payload); err != nil {
		return ItemReactions{}, err
	}
	return payload, nil
}

func itemPath(itemID, suffix string) string {
	return "/items/" + url.PathEscape(itemID) + "/" + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
