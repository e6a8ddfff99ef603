// Package tidal implements catalog.Target against the TIDAL API.
//
// TIDAL's search response reports track duration in seconds already; this
// adapter normalizes to seconds at the boundary regardless, so the scorer
// never has to guess a candidate's unit.
package tidal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

const (
	baseURL        = "https://openapi.tidal.com/v2"
	tokenURL       = "https://auth.tidal.com/v1/oauth2/token"
	requestTimeout = 15 * time.Second
)

// Config carries TIDAL app credentials.
type Config struct {
	ClientID     string
	ClientSecret string
}

// Client implements catalog.Target over TIDAL.
type Client struct {
	httpClient *http.Client
}

// New builds a Client using client-credentials OAuth2, the grant TIDAL's
// catalog-read API expects.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: tidal client id/secret", shared.ErrAuthMissing)
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}
	return &Client{httpClient: cc.Client(ctx)}, nil
}

// Name identifies this adapter's provider.
func (c *Client) Name() string { return "tidal" }

type tidalArtist struct {
	Name string `json:"name"`
}

type tidalAlbum struct {
	Title string `json:"title"`
}

type tidalTrack struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Artists      []tidalArtist `json:"artists"`
	Album        tidalAlbum    `json:"album"`
	DurationSecs int64         `json:"duration"`
	ISRC         string        `json:"isrc"`
}

// Search returns up to limit candidates.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]track.Candidate, error) {
	var resp struct {
		Tracks []tidalTrack `json:"tracks"`
	}
	path := fmt.Sprintf("/search?query=%s&limit=%d", url.QueryEscape(query), limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	candidates := make([]track.Candidate, 0, len(resp.Tracks))
	for _, t := range resp.Tracks {
		candidates = append(candidates, toCandidate(t))
	}
	return candidates, nil
}

func toCandidate(t tidalTrack) track.Candidate {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return track.Candidate{
		TargetID:     t.ID,
		Title:        t.Title,
		Artists:      artists,
		Album:        t.Album.Title,
		DurationSecs: t.DurationSecs, // already seconds: normalized at this boundary, never ms
		ISRC:         t.ISRC,
	}
}

// CreatePlaylist creates an empty playlist and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, title, description string, privacy catalog.Privacy) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	body := map[string]any{"title": title, "description": description, "privacy": string(privacy)}
	if err := c.post(ctx, "/playlists", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ExistingItems returns the set of track ids already on the playlist.
func (c *Client) ExistingItems(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	var resp struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := c.get(ctx, fmt.Sprintf("/playlists/%s/items?limit=100000", playlistID), &resp); err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID != "" {
			existing[item.ID] = struct{}{}
		}
	}
	return existing, nil
}

// AddItems inserts ids into playlistID.
func (c *Client) AddItems(ctx context.Context, playlistID string, ids []string) (catalog.WriteResult, error) {
	body := map[string]any{"trackIds": ids}
	if err := c.post(ctx, fmt.Sprintf("/playlists/%s/items", playlistID), body, nil); err != nil {
		return catalog.WriteResult{}, err
	}
	return catalog.WriteResult{Status: catalog.OK}, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do retries 429/5xx responses with backoff via catalog.DoWithRetry. The
// client-credentials transport already refreshes its own app-level token
// transparently; a 401/403 here means the registered app credentials
// themselves were rejected, which no amount of refreshing fixes.
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
	req.Header.Set("Content-Type", "application/vnd.api+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrTargetTransient, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
	case http.StatusUnauthorized, http.StatusForbidden:
		return resp.StatusCode, fmt.Errorf("%w: tidal rejected request", shared.ErrAuthInvalid)
	case http.StatusConflict:
		return resp.StatusCode, fmt.Errorf("%w: tidal conflict", shared.ErrTargetConflict)
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return resp.StatusCode, fmt.Errorf("%w: status %d", shared.ErrTargetTransient, resp.StatusCode)
	default:
		return resp.StatusCode, fmt.Errorf("%w: unexpected status %d", shared.ErrTargetTransient, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding tidal response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
