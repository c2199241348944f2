package dispatchy

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Spotify API constants
const (
	spotifyAPIBaseURL      = "https://api.spotify.com"
	spotifyAccountsBaseURL = "https://accounts.spotify.com"
	spotifyTokenPath       = "/api/token"
	spotifySearchPath      = "/v1/search"
	spotifyPlayPath        = "/v1/me/player/play"
	spotifyTrackURIPrefix  = "spotify:track:"
	spotifyRequestTimeout  = 15 * time.Second
	// refresh slightly before the advertised expiry
	spotifyTokenSlack = 30 * time.Second
)

// SpotifyCredentials holds the OAuth credentials for the Spotify client.
// The refresh token comes from a prior user authorization; the client
// exchanges it for short-lived access tokens as needed.
type SpotifyCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string
}

// SpotifyClient searches tracks and starts playback on the user's active
// device through the Spotify Web API.
type SpotifyClient struct {
	api   *resty.Client
	auth  *resty.Client
	creds SpotifyCredentials

	tokenMu     sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewSpotifyClient creates a client from the given credentials.
func NewSpotifyClient(creds SpotifyCredentials) *SpotifyClient {
	return &SpotifyClient{
		api: resty.New().
			SetBaseURL(spotifyAPIBaseURL).
			SetTimeout(spotifyRequestTimeout),
		auth: resty.New().
			SetBaseURL(spotifyAccountsBaseURL).
			SetTimeout(spotifyRequestTimeout),
		creds: creds,
	}
}

// spotifyTokenResponse is the token endpoint response.
type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken refreshes the access token when missing or near expiry.
func (c *SpotifyClient) ensureToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Add(spotifyTokenSlack).Before(c.expiresAt) {
		return c.accessToken, nil
	}

	var result spotifyTokenResponse
	resp, err := c.auth.R().
		SetContext(ctx).
		SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": c.creds.RefreshToken,
			"redirect_uri":  c.creds.RedirectURI,
		}).
		SetResult(&result).
		Post(spotifyTokenPath)
	if err != nil {
		return "", NewCapabilityError(ErrMsgSpotifyAuthFailed, err)
	}
	if resp.IsError() || result.AccessToken == "" {
		return "", NewCapabilityStatusError(ErrMsgSpotifyAuthFailed, resp.StatusCode())
	}

	c.accessToken = result.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// spotifySearchResponse is the subset of the search response the client reads.
type spotifySearchResponse struct {
	Tracks struct {
		Items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	} `json:"tracks"`
}

// SearchTrack finds the best-matching track for the query and returns its
// ID, or ok=false when nothing matched.
func (c *SpotifyClient) SearchTrack(ctx context.Context, query string) (string, bool, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return "", false, err
	}

	var result spotifySearchResponse
	resp, err := c.api.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": "1",
		}).
		SetResult(&result).
		Get(spotifySearchPath)
	if err != nil {
		return "", false, NewCapabilityError(ErrMsgSpotifySearch, err)
	}
	if resp.IsError() {
		return "", false, NewCapabilityStatusError(ErrMsgSpotifySearch, resp.StatusCode())
	}

	if len(result.Tracks.Items) == 0 {
		return "", false, nil
	}
	return result.Tracks.Items[0].ID, true, nil
}

// spotifyPlayRequest is the playback request body.
type spotifyPlayRequest struct {
	URIs []string `json:"uris"`
}

// PlayTrack starts playback of the track on the user's active device.
func (c *SpotifyClient) PlayTrack(ctx context.Context, trackID string) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	resp, err := c.api.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(spotifyPlayRequest{URIs: []string{spotifyTrackURIPrefix + trackID}}).
		Put(spotifyPlayPath)
	if err != nil {
		return NewCapabilityError(ErrMsgSpotifyPlay, err)
	}
	if resp.IsError() {
		return NewCapabilityStatusError(ErrMsgSpotifyPlay, resp.StatusCode())
	}
	return nil
}
