// Package spotify implements catalog.Source against the Spotify Web API.
// Spotify is the canonical source catalog; this package never writes.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

const (
	authURL  = "https://accounts.spotify.com/authorize"
	tokenURL = "https://accounts.spotify.com/api/token"
	baseURL  = "https://api.spotify.com/v1"

	requestTimeout = 15 * time.Second
)

// Client implements catalog.Source over an authenticated Spotify session.
type Client struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	onRefresh  func(ctx context.Context, newCredential string) error
}

// Config carries Spotify app credentials and a refresh token persisted on
// the user's Connection.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string
	AccessToken  string
}

// New builds a Client and exchanges the stored refresh token for a fresh
// access token if one isn't already present.
func New(ctx context.Context, cfg Config, onRefresh func(ctx context.Context, newCredential string) error) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id/secret", shared.ErrAuthMissing)
	}

	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{"playlist-read-private", "playlist-read-collaborative"},
		Endpoint:     oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL},
	}

	c := &Client{config: oc, onRefresh: onRefresh}

	if cfg.AccessToken != "" || cfg.RefreshToken != "" {
		c.token = &oauth2.Token{AccessToken: cfg.AccessToken, RefreshToken: cfg.RefreshToken}
	}
	if c.token == nil {
		return nil, fmt.Errorf("%w: no spotify credential on connection", shared.ErrAuthMissing)
	}

	c.httpClient = oc.Client(ctx, c.token)
	return c, nil
}

// Name identifies this adapter's provider.
func (c *Client) Name() string { return "spotify" }

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name string `json:"name"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

type spotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []spotifyArtist `json:"artists"`
	Album       spotifyAlbum    `json:"album"`
	DurationMS  int64           `json:"duration_ms"`
	ExternalIDs externalIDs     `json:"external_ids"`
}

type playlistItem struct {
	Track *spotifyTrack `json:"track"`
}

type playlistTracksPage struct {
	Items []playlistItem `json:"items"`
	Next  *string        `json:"next"`
}

type playlistMeta struct {
	Name   string             `json:"name"`
	Tracks playlistTracksPage `json:"tracks"`
}

// EnumeratePlaylist lists every track on the playlist in order, skipping
// non-track items (local files, removed tracks with a nil Track), and
// returns the playlist's display name.
func (c *Client) EnumeratePlaylist(ctx context.Context, ref string) ([]track.SourceTrack, string, error) {
	playlistID, err := ExtractPlaylistID(ref)
	if err != nil {
		return nil, "", err
	}

	var meta playlistMeta
	if err := c.get(ctx, fmt.Sprintf("/playlists/%s", playlistID), &meta); err != nil {
		return nil, "", err
	}

	tracks := make([]track.SourceTrack, 0, len(meta.Tracks.Items))
	appendPage := func(page playlistTracksPage) {
		for _, item := range page.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			tracks = append(tracks, toSourceTrack(*item.Track))
		}
	}
	appendPage(meta.Tracks)

	next := meta.Tracks.Next
	for next != nil {
		var page playlistTracksPage
		if err := c.getAbsolute(ctx, *next, &page); err != nil {
			return nil, "", err
		}
		appendPage(page)
		next = page.Next
	}

	return tracks, meta.Name, nil
}

func toSourceTrack(t spotifyTrack) track.SourceTrack {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return track.SourceTrack{
		Name:       t.Name,
		Artists:    artists,
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		ISRC:       t.ExternalIDs.ISRC,
		SourceID:   t.ID,
	}
}

// ExtractPlaylistID extracts a playlist id out of a canonical
// ".../playlist/<ID>[?query]" URL, per the accepted source-reference rule:
// split on "/playlist/", take the second segment, split off at the first
// "?" or "/". A bare id is also accepted.
func ExtractPlaylistID(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: invalid playlist URL", shared.ErrBadRequest)
	}
	const marker = "/playlist/"
	idx := strings.Index(ref, marker)
	if idx == -1 {
		if !strings.ContainsAny(ref, "/?") {
			return ref, nil
		}
		return "", fmt.Errorf("%w: invalid playlist URL", shared.ErrBadRequest)
	}
	rest := ref[idx+len(marker):]
	if cut := strings.IndexAny(rest, "?/"); cut != -1 {
		rest = rest[:cut]
	}
	if rest == "" {
		return "", fmt.Errorf("%w: invalid playlist URL", shared.ErrBadRequest)
	}
	return rest, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.getAbsolute(ctx, baseURL+path, result)
}

// getAbsolute issues a GET, retrying 429/5xx responses with backoff
// (catalog.DoWithRetry) and, on a 401/403, refreshing the access token and
// retrying exactly once (catalog.RefreshOnAuthFailure) before giving up.
func (c *Client) getAbsolute(ctx context.Context, url string, result any) error {
	attempt := func(ctx context.Context) error {
		return catalog.DoWithRetry(ctx, func(ctx context.Context) (int, error) {
			return c.doGet(ctx, url, result)
		})
	}

	err := attempt(ctx)
	if err == nil || !errors.Is(err, shared.ErrAuthInvalid) {
		return err
	}
	seen := false
	return catalog.RefreshOnAuthFailure(ctx, func(ctx context.Context) error {
		if !seen {
			seen = true
			return err // the auth failure above counts as the first attempt
		}
		return attempt(ctx)
	}, c.refreshToken, c.onRefresh)
}

// doGet performs a single request attempt and reports the HTTP status
// alongside the classified error, the shape catalog.DoWithRetry expects.
func (c *Client) doGet(ctx context.Context, url string, result any) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrSourceTransient, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return resp.StatusCode, fmt.Errorf("%w: %s", shared.ErrSourceNotFound, url)
	case http.StatusUnauthorized, http.StatusForbidden:
		return resp.StatusCode, fmt.Errorf("%w: spotify rejected request", shared.ErrAuthInvalid)
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return resp.StatusCode, fmt.Errorf("%w: status %d", shared.ErrSourceTransient, resp.StatusCode)
	default:
		return resp.StatusCode, fmt.Errorf("%w: unexpected status %d", shared.ErrSourceTransient, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding spotify response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// refreshToken forces the oauth2 token source to mint a fresh access token
// from the stored refresh token and swaps it into the client. Spotify does
// not always rotate the refresh token; when it doesn't, the prior one is
// kept so the persisted credential never goes stale.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	if c.token.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token on connection", shared.ErrAuthInvalid)
	}
	expired := &oauth2.Token{RefreshToken: c.token.RefreshToken, Expiry: time.Unix(0, 0)}
	fresh, err := c.config.TokenSource(ctx, expired).Token()
	if err != nil {
		return "", fmt.Errorf("refreshing spotify token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = c.token.RefreshToken
	}
	c.token = fresh
	c.httpClient = c.config.Client(ctx, fresh)
	return fresh.RefreshToken, nil
}
