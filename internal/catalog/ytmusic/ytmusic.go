// Package ytmusic implements catalog.Target against the (unofficial)
// YouTube Music web API, authenticated with raw browser request headers
// rather than OAuth.
package ytmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

const (
	baseURL        = "https://music.youtube.com/youtubei/v1"
	requestTimeout = 15 * time.Second
)

// Config accepts either a raw multi-line header blob (as copied out of a
// browser's network inspector) or a structured header map; both shapes
// normalize to the same raw form before use.
type Config struct {
	RawHeaders string
	Headers    map[string]string
}

// Client implements catalog.Target over YouTube Music.
type Client struct {
	rawHeaders string
	httpClient *http.Client
}

// New builds a Client, normalizing either header shape Config may carry
// into a single raw header blob.
func New(cfg Config) (*Client, error) {
	raw, err := headersToRaw(cfg)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: no ytmusic headers provided", shared.ErrAuthMissing)
	}
	return &Client{rawHeaders: raw, httpClient: http.DefaultClient}, nil
}

// headersToRaw accepts a raw header string or a key/value map and
// normalizes it to a raw multi-line string of "key: value" lines.
func headersToRaw(cfg Config) (string, error) {
	if cfg.RawHeaders != "" {
		return cfg.RawHeaders, nil
	}
	if len(cfg.Headers) == 0 {
		return "", nil
	}
	var b strings.Builder
	for k, v := range cfg.Headers {
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Name identifies this adapter's provider.
func (c *Client) Name() string { return "ytm" }

type searchResult struct {
	VideoID      string   `json:"videoId"`
	Title        string   `json:"title"`
	Artists      []string `json:"artists"`
	Album        string   `json:"album"`
	DurationSecs int64    `json:"durationSeconds"`
}

// Search issues a text search and returns up to limit candidates.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]track.Candidate, error) {
	var results []searchResult
	body := map[string]any{"query": query, "limit": limit}
	if err := c.post(ctx, "/search", body, &results); err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	candidates := make([]track.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, track.Candidate{
			TargetID:     r.VideoID,
			Title:        r.Title,
			Artists:      r.Artists,
			Album:        r.Album,
			DurationSecs: r.DurationSecs,
		})
	}
	return candidates, nil
}

// CreatePlaylist creates an empty playlist and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, title, description string, privacy catalog.Privacy) (string, error) {
	var resp struct {
		PlaylistID string `json:"playlistId"`
	}
	body := map[string]any{"title": title, "description": description, "privacyStatus": string(privacy)}
	if err := c.post(ctx, "/playlist/create", body, &resp); err != nil {
		return "", err
	}
	return resp.PlaylistID, nil
}

// ExistingItems returns the set of video ids already on the playlist.
// Failures are non-fatal per the writer's contract; callers should treat
// an error here as an empty set rather than aborting the run.
func (c *Client) ExistingItems(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	var resp struct {
		Tracks []struct {
			VideoID string `json:"videoId"`
		} `json:"tracks"`
	}
	if err := c.get(ctx, fmt.Sprintf("/playlist/%s?limit=100000", playlistID), &resp); err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(resp.Tracks))
	for _, t := range resp.Tracks {
		if t.VideoID != "" {
			existing[t.VideoID] = struct{}{}
		}
	}
	return existing, nil
}

// AddItems inserts ids into playlistID.
func (c *Client) AddItems(ctx context.Context, playlistID string, ids []string) (catalog.WriteResult, error) {
	var resp struct {
		Status string `json:"status"`
	}
	body := map[string]any{"playlistId": playlistID, "videoIds": ids}
	if err := c.post(ctx, "/playlist/items/add", body, &resp); err != nil {
		return catalog.WriteResult{}, err
	}
	if resp.Status != "STATUS_SUCCEEDED" {
		return catalog.WriteResult{Status: catalog.NonSuccess, Detail: resp.Status}, nil
	}
	return catalog.WriteResult{Status: catalog.OK}, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do retries 429/5xx responses with backoff via catalog.DoWithRetry. Raw
// browser headers carry no refresh token, so a 401/403 is terminal here —
// there is nothing to refresh and mint a new credential from.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	return catalog.DoWithRetry(ctx, func(ctx context.Context) (int, error) {
		return c.doOnce(ctx, method, path, body, result)
	})
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any, result any) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	applyRawHeaders(req, c.rawHeaders)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrTargetTransient, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return resp.StatusCode, fmt.Errorf("%w: ytmusic rejected request", shared.ErrAuthInvalid)
	case http.StatusConflict:
		return resp.StatusCode, fmt.Errorf("%w: ytmusic conflict", shared.ErrTargetConflict)
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return resp.StatusCode, fmt.Errorf("%w: status %d", shared.ErrTargetTransient, resp.StatusCode)
	default:
		return resp.StatusCode, fmt.Errorf("%w: unexpected status %d", shared.ErrTargetTransient, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding ytmusic response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func applyRawHeaders(req *http.Request, raw string) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		req.Header.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}
}
