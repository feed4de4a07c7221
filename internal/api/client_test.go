package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndSendsAuth(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotUserAgent string
	var gotWriteBody writeReactionRequest
	var gotWriteMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/items/42/reactions":
			_ = json.NewEncoder(w).Encode(ItemReactions{
				UserReaction: "like",
				Reactions:    map[string]int{"like": 4},
			})
		case r.URL.Path == "/user-reactions":
			_ = json.NewEncoder(w).Encode([]UserReaction{
				{ItemID: "7", ReactionType: "wow"},
			})
		case r.URL.Path == "/items/42/reaction":
			gotWriteMethod = r.Method
			if r.Method == http.MethodPost {
				body, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(body, &gotWriteBody)
			}
			_ = json.NewEncoder(w).Encode(ItemReactions{
				UserReaction: gotWriteBody.ReactionType,
				Reactions:    map[string]int{"love": 1},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	c.SetToken("sekrit")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	item, err := c.FetchItem(ctx, "42")
	if err != nil {
		t.Fatalf("FetchItem returned error: %v", err)
	}
	if item.UserReaction != "like" || item.Reactions["like"] != 4 {
		t.Fatalf("FetchItem payload = %#v, want like x4", item)
	}
	if gotAuth != "Bearer sekrit" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}

	list, err := c.FetchUserReactions(ctx)
	if err != nil {
		t.Fatalf("FetchUserReactions returned error: %v", err)
	}
	if len(list) != 1 || list[0].ItemID != "7" || list[0].ReactionType != "wow" {
		t.Fatalf("FetchUserReactions = %#v, want one wow on item 7", list)
	}

	written, err := c.WriteReaction(ctx, "42", "love")
	if err != nil {
		t.Fatalf("WriteReaction returned error: %v", err)
	}
	if gotWriteMethod != http.MethodPost || gotWriteBody.ReactionType != "love" {
		t.Fatalf("write = %s %#v, want POST reaction_type=love", gotWriteMethod, gotWriteBody)
	}
	if written.UserReaction != "love" {
		t.Fatalf("WriteReaction payload = %#v, want user_reaction=love", written)
	}

	// Empty kind clears via DELETE.
	_, err = c.WriteReaction(ctx, "42", "")
	if err != nil {
		t.Fatalf("WriteReaction clear returned error: %v", err)
	}
	if gotWriteMethod != http.MethodDelete {
		t.Fatalf("clear method = %s, want DELETE", gotWriteMethod)
	}

	if gotUserAgent == "" || !strings.HasPrefix(gotUserAgent, "kudos/") {
		t.Fatalf("User-Agent = %q, want kudos/*", gotUserAgent)
	}
}

func TestClient_StatusErrorMapping(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items/gone/reactions":
			http.Error(w, "missing", http.StatusNotFound)
		case "/user-reactions":
			http.Error(w, "who are you", http.StatusUnauthorized)
		case "/items/locked/reaction":
			http.Error(w, "nope", http.StatusConflict)
		case "/items/broken/reactions":
			http.Error(w, "oops", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.FetchItem(ctx, "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchItem error = %v, want ErrNotFound", err)
	}

	_, err = c.FetchUserReactions(ctx)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("FetchUserReactions error = %v, want ErrUnauthorized", err)
	}

	_, err = c.WriteReaction(ctx, "locked", "like")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("WriteReaction error = %v, want ErrConflict", err)
	}

	_, err = c.FetchItem(ctx, "broken")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchItem error = %v, want status 500 error", err)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrConflict) {
		t.Fatalf("500 error unexpectedly matches a sentinel: %v", err)
	}
}

func TestClient_RequiresItemID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchItem(context.Background(), " "); err == nil {
		t.Fatalf("FetchItem returned nil error, want error")
	}
	if _, err := c.WriteReaction(context.Background(), "", "like"); err == nil {
		t.Fatalf("WriteReaction returned nil error, want error")
	}
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchItem(context.Background(), "42")
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchItem error = %v, want decode response error", err)
	}
}
