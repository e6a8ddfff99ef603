// Package qobuz implements catalog.Target against the Qobuz API. Requests
// are authenticated with the app id plus a per-user token rather than
// OAuth2.
package qobuz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

const (
	baseURL        = "https://www.qobuz.com/api.json/0.2"
	requestTimeout = 15 * time.Second
)

// Config carries the Qobuz app registration and the connected user's
// session token.
type Config struct {
	AppID     string
	AppSecret string
	UserToken string
}

// Client implements catalog.Target over Qobuz.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New builds a Client. AppSecret is retained for future signed-request
// endpoints but is not required by the read/write calls this adapter uses.
func New(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.UserToken == "" {
		return nil, fmt.Errorf("%w: qobuz app id or user token", shared.ErrAuthMissing)
	}
	return &Client{cfg: cfg, httpClient: http.DefaultClient}, nil
}

// Name identifies this adapter's provider.
func (c *Client) Name() string { return "qobuz" }

type qobuzArtist struct {
	Name string `json:"name"`
}

type qobuzAlbum struct {
	Title string `json:"title"`
}

type qobuzTrack struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Performer    qobuzArtist `json:"performer"`
	Album        qobuzAlbum  `json:"album"`
	DurationSecs int64       `json:"duration"`
	ISRC         string      `json:"isrc"`
}

// Search returns up to limit candidates.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]track.Candidate, error) {
	var resp struct {
		Tracks struct {
			Items []qobuzTrack `json:"items"`
		} `json:"tracks"`
	}
	path := fmt.Sprintf("/track/search?query=%s&limit=%d", url.QueryEscape(query), limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	candidates := make([]track.Candidate, 0, len(resp.Tracks.Items))
	for _, t := range resp.Tracks.Items {
		candidates = append(candidates, track.Candidate{
			TargetID:     fmt.Sprintf("%d", t.ID),
			Title:        t.Title,
			Artists:      []string{t.Performer.Name},
			Album:        t.Album.Title,
			DurationSecs: t.DurationSecs, // Qobuz reports seconds natively
			ISRC:         t.ISRC,
		})
	}
	return candidates, nil
}

// CreatePlaylist creates an empty playlist and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, title, description string, privacy catalog.Privacy) (string, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	isPublic := "0"
	if privacy == catalog.Public {
		isPublic = "1"
	}
	path := fmt.Sprintf("/playlist/create?name=%s&description=%s&is_public=%s",
		url.QueryEscape(title), url.QueryEscape(description), isPublic)
	if err := c.post(ctx, path, nil, &resp); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", resp.ID), nil
}

// ExistingItems returns the set of track ids already on the playlist.
func (c *Client) ExistingItems(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	var resp struct {
		Tracks struct {
			Items []struct {
				ID int64 `json:"id"`
			} `json:"items"`
		} `json:"tracks"`
	}
	path := fmt.Sprintf("/playlist/get?playlist_id=%s&extra=tracks&limit=100000", url.QueryEscape(playlistID))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(resp.Tracks.Items))
	for _, t := range resp.Tracks.Items {
		existing[fmt.Sprintf("%d", t.ID)] = struct{}{}
	}
	return existing, nil
}

// AddItems inserts ids into playlistID.
func (c *Client) AddItems(ctx context.Context, playlistID string, ids []string) (catalog.WriteResult, error) {
	trackIDs := ""
	for i, id := range ids {
		if i > 0 {
			trackIDs += ","
		}
		trackIDs += id
	}
	path := fmt.Sprintf("/playlist/addTracks?playlist_id=%s&track_ids=%s",
		url.QueryEscape(playlistID), url.QueryEscape(trackIDs))
	if err := c.post(ctx, path, nil, nil); err != nil {
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
// user token is a static session credential with no refresh endpoint, so a
// 401/403 is terminal: the connection needs to be re-authorized out of band.
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
	req.Header.Set("X-App-Id", c.cfg.AppID)
	req.Header.Set("X-User-Auth-Token", c.cfg.UserToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrTargetTransient, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return resp.StatusCode, fmt.Errorf("%w: qobuz rejected request", shared.ErrAuthInvalid)
	case http.StatusConflict:
		return resp.StatusCode, fmt.Errorf("%w: qobuz conflict", shared.ErrTargetConflict)
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return resp.StatusCode, fmt.Errorf("%w: status %d", shared.ErrTargetTransient, resp.StatusCode)
	default:
		return resp.StatusCode, fmt.Errorf("%w: unexpected status %d", shared.ErrTargetTransient, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding qobuz response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
