package xtream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultTimeout = 2 * time.Minute

	// DefaultUserAgent is the browser-like User-Agent sent when the caller
	// does not override it. Many panels reject obviously non-browser
	// clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// API endpoint paths.
	pathPlayerAPI = "/player_api.php"
	pathPanelAPI  = "/panel_api.php"
	pathXMLTV     = "/xmltv.php"
	pathGetM3U    = "/get.php"
	pathLive      = "/live"
	pathMovie     = "/movie"
	pathSeries    = "/series"

	// API actions.
	actionGetLiveCategories   = "get_live_categories"
	actionGetVODCategories    = "get_vod_categories"
	actionGetSeriesCategories = "get_series_categories"
	actionGetLiveStreams      = "get_live_streams"
	actionGetVODStreams       = "get_vod_streams"
	actionGetSeries           = "get_series"
	actionGetVODInfo          = "get_vod_info"
	actionGetSeriesInfo       = "get_series_info"
	actionGetShortEPG         = "get_short_epg"
	actionGetSimpleDataTable  = "get_simple_data_table"

	// Query parameter names.
	paramUsername   = "username"
	paramPassword   = "password"
	paramAction     = "action"
	paramCategoryID = "category_id"
	paramVODID      = "vod_id"
	paramSeriesID   = "series_id"
	paramStreamID   = "stream_id"
	paramLimit      = "limit"
	paramType       = "type"
	paramOutput     = "output"

	maxErrorBodyReadSize = 1024
)

// Playlist types accepted by the native get.php endpoint.
const (
	PlaylistTypeM3U     = "m3u"
	PlaylistTypeM3UPlus = "m3u_plus"
)

// outputParams maps an output format to the value get.php expects for its
// output parameter.
var outputParams = map[string]string{
	"ts":   "mpegts",
	"rtmp": "rtmp",
	"m3u8": "m3u8",
}

// Client is an Xtream Codes API client. It holds the connection identity
// and, after a successful Authenticate, the server and user info blobs.
//
// A Client is not safe for concurrent use.
type Client struct {
	baseURL  string
	username string
	password string

	headers      map[string]string
	httpClient   *http.Client
	logger       *slog.Logger
	playlistType string
	outputType   string

	// auth is set exactly once, by a successful Authenticate, and never
	// mutated afterward.
	auth *AuthInfo
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a new Xtream Codes API client for the given server.
func NewClient(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		headers: map[string]string{
			"User-Agent": DefaultUserAgent,
		},
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:       slog.Default(),
		playlistType: PlaylistTypeM3U,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom standard library HTTP client. This allows
// injection of any *http.Client, including ones wrapped with retry logic
// or other middleware.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.headers["User-Agent"] = ua
	}
}

// WithHeader sets a custom request header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithTimeout sets the HTTP client timeout. This creates a new HTTP
// client with the specified timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{
			Timeout: timeout,
		}
	}
}

// WithLogger sets the structured logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Username returns the configured username.
func (c *Client) Username() string { return c.username }

// Password returns the configured password.
func (c *Client) Password() string { return c.password }

// Headers returns a copy of the request headers.
func (c *Client) Headers() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// PlaylistType returns the playlist type requested from get.php.
func (c *Client) PlaylistType() string { return c.playlistType }

// SetPlaylistType sets the playlist type requested from get.php.
// Accepted values are PlaylistTypeM3U and PlaylistTypeM3UPlus.
func (c *Client) SetPlaylistType(t string) error {
	if t != PlaylistTypeM3U && t != PlaylistTypeM3UPlus {
		return fmt.Errorf("xtream: unsupported playlist type %q", t)
	}
	c.playlistType = t
	return nil
}

// OutputType returns the output format used for live stream URLs, or
// empty when the server default applies.
func (c *Client) OutputType() string { return c.outputType }

// SetOutputType sets the output format used for live stream URLs. The
// value must be one of the account's allowed output formats, so a
// successful Authenticate is required first.
func (c *Client) SetOutputType(t string) error {
	allowed, err := c.AllowedOutputFormats()
	if err != nil {
		return err
	}
	for _, f := range allowed {
		if f == t {
			c.outputType = t
			return nil
		}
	}
	return fmt.Errorf("xtream: output type %q not in allowed formats %v", t, allowed)
}

// Authenticate verifies the credentials against the server and captures
// the user and server info. It must be called once before any other
// network operation; calling it again refreshes the captured info.
func (c *Client) Authenticate(ctx context.Context) (*AuthInfo, error) {
	body, err := c.get(ctx, c.apiURL("", nil))
	if err != nil {
		return nil, err
	}

	var info AuthInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("xtream: decoding auth response: %w", err)
	}

	if !info.UserInfo.IsAuthenticated() {
		msg := info.UserInfo.Message
		if msg == "" {
			msg = fmt.Sprintf("account not active (auth=%d, status=%q)",
				info.UserInfo.Auth.Int(), info.UserInfo.Status)
		}
		return nil, &AuthError{Message: msg}
	}

	c.auth = &info
	c.logger.Debug("authenticated",
		slog.String("server", c.baseURL),
		slog.String("status", info.UserInfo.Status),
		slog.Int64("max_connections", info.UserInfo.MaxConnections.Int()),
	)
	return &info, nil
}

// UserInfo returns the user info captured by Authenticate.
func (c *Client) UserInfo() (*UserInfo, error) {
	if c.auth == nil {
		return nil, errNotAuthenticated()
	}
	return &c.auth.UserInfo, nil
}

// ServerInfo returns the server info captured by Authenticate.
func (c *Client) ServerInfo() (*ServerInfo, error) {
	if c.auth == nil {
		return nil, errNotAuthenticated()
	}
	return &c.auth.ServerInfo, nil
}

// AllowedOutputFormats returns the output formats the account may use.
func (c *Client) AllowedOutputFormats() ([]string, error) {
	if c.auth == nil {
		return nil, errNotAuthenticated()
	}
	return c.auth.UserInfo.AllowedOutputFormats, nil
}

func (c *Client) requireAuth() error {
	if c.auth == nil {
		return errNotAuthenticated()
	}
	return nil
}

// CategorySelection selects which stream-type domains to list categories
// for. The zero value defaults to live only.
type CategorySelection struct {
	Live   bool
	VOD    bool
	Series bool
}

// GetCategories lists categories for the selected domains. One request is
// issued per selected domain and results are concatenated in the fixed
// order live, vod, series, each category tagged with its domain.
func (c *Client) GetCategories(ctx context.Context, sel CategorySelection) ([]Category, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if !sel.Live && !sel.VOD && !sel.Series {
		sel.Live = true
	}

	domains := []struct {
		enabled bool
		action  string
		st      StreamType
	}{
		{sel.Live, actionGetLiveCategories, StreamTypeLive},
		{sel.VOD, actionGetVODCategories, StreamTypeVOD},
		{sel.Series, actionGetSeriesCategories, StreamTypeSeries},
	}

	var out []Category
	for _, d := range domains {
		if !d.enabled {
			continue
		}
		var categories []Category
		if err := c.getJSONList(ctx, c.apiURL(d.action, nil), &categories); err != nil {
			return nil, err
		}
		for i := range categories {
			categories[i].StreamType = d.st
		}
		out = append(out, categories...)
	}
	return out, nil
}

// StreamSelection selects which stream-type domains to list streams for,
// with an optional category filter. At least one domain must be selected,
// and VOD and series cannot be combined in one call.
type StreamSelection struct {
	Live   bool
	VOD    bool
	Series bool

	// CategoryID restricts the listing to one category. Empty lists all.
	CategoryID string
}

// GetStreams lists streams for the selected domains. Selection is
// validated before any request is issued; on success one request is made
// per selected domain and results are concatenated in the fixed order
// live, vod, series, each stream tagged with its domain.
func (c *Client) GetStreams(ctx context.Context, sel StreamSelection) ([]Stream, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if !sel.Live && !sel.VOD && !sel.Series {
		return nil, ErrNoStreamType
	}
	if sel.VOD && sel.Series {
		return nil, ErrAmbiguousStreamType
	}

	params := make(map[string]string)
	if sel.CategoryID != "" {
		params[paramCategoryID] = sel.CategoryID
	}

	domains := []struct {
		enabled bool
		action  string
		st      StreamType
	}{
		{sel.Live, actionGetLiveStreams, StreamTypeLive},
		{sel.VOD, actionGetVODStreams, StreamTypeVOD},
		{sel.Series, actionGetSeries, StreamTypeSeries},
	}

	var out []Stream
	for _, d := range domains {
		if !d.enabled {
			continue
		}
		var streams []Stream
		if err := c.getJSONList(ctx, c.apiURL(d.action, params), &streams); err != nil {
			return nil, err
		}
		for i := range streams {
			streams[i].StreamType = d.st
		}
		out = append(out, streams...)
	}
	return out, nil
}

// GetEPG retrieves EPG data. A streamID of 0 fetches the full data table
// for all streams; a positive streamID restricts it to one stream. A
// negative streamID is ErrStreamIDRequired.
func (c *Client) GetEPG(ctx context.Context, streamID int64) ([]EPGListing, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if streamID < 0 {
		return nil, ErrStreamIDRequired
	}

	params := make(map[string]string)
	if streamID > 0 {
		params[paramStreamID] = fmt.Sprintf("%d", streamID)
	}

	var response epgResponse
	if err := c.getJSON(ctx, c.apiURL(actionGetSimpleDataTable, params), &response); err != nil {
		return nil, err
	}
	return response.EPGListings, nil
}

// GetShortEPG retrieves the short EPG listing for one stream. The limit
// controls how many entries the server returns (0 = server default).
func (c *Client) GetShortEPG(ctx context.Context, streamID int64, limit int) ([]EPGListing, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if streamID <= 0 {
		return nil, ErrStreamIDRequired
	}

	params := map[string]string{paramStreamID: fmt.Sprintf("%d", streamID)}
	if limit > 0 {
		params[paramLimit] = fmt.Sprintf("%d", limit)
	}

	var response epgResponse
	if err := c.getJSON(ctx, c.apiURL(actionGetShortEPG, params), &response); err != nil {
		return nil, err
	}
	return response.EPGListings, nil
}

// GetVODInfo retrieves detailed information about a VOD item.
func (c *Client) GetVODInfo(ctx context.Context, vodID int64) (*VODInfo, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	params := map[string]string{paramVODID: fmt.Sprintf("%d", vodID)}
	var info VODInfo
	if err := c.getJSON(ctx, c.apiURL(actionGetVODInfo, params), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetSeriesInfo retrieves detailed information about a series including
// its episodes.
func (c *Client) GetSeriesInfo(ctx context.Context, seriesID int64) (*SeriesInfo, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	params := map[string]string{paramSeriesID: fmt.Sprintf("%d", seriesID)}
	var info SeriesInfo
	if err := c.getJSON(ctx, c.apiURL(actionGetSeriesInfo, params), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetInfo retrieves the raw info payload for a VOD item or series as an
// open record. Stream types other than vod and series have no info
// endpoint and fail with ErrInfoTypeRequired before any request.
func (c *Client) GetInfo(ctx context.Context, streamType StreamType, id int64) (map[string]any, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var action, param string
	switch streamType {
	case StreamTypeVOD:
		action, param = actionGetVODInfo, paramVODID
	case StreamTypeSeries:
		action, param = actionGetSeriesInfo, paramSeriesID
	default:
		return nil, ErrInfoTypeRequired
	}

	params := map[string]string{param: fmt.Sprintf("%d", id)}
	var info map[string]any
	if err := c.getJSON(ctx, c.apiURL(action, params), &info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetPanel retrieves the legacy panel summary as an open record. The
// endpoint is not present on all servers; expect NotFoundError.
func (c *Client) GetPanel(ctx context.Context) (map[string]any, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	requestURL := fmt.Sprintf("%s%s?%s=%s&%s=%s",
		c.baseURL, pathPanelAPI,
		paramUsername, url.QueryEscape(c.username),
		paramPassword, url.QueryEscape(c.password))

	var panel map[string]any
	if err := c.getJSON(ctx, requestURL, &panel); err != nil {
		return nil, err
	}
	return panel, nil
}

// XMLTVURL returns the URL of the full XMLTV EPG document.
func (c *Client) XMLTVURL() string {
	return fmt.Sprintf("%s%s?%s=%s&%s=%s",
		c.baseURL, pathXMLTV,
		paramUsername, url.QueryEscape(c.username),
		paramPassword, url.QueryEscape(c.password))
}

// GetXMLTV retrieves the full XMLTV EPG document as raw text. The
// document is passed through without parsing or validation. It can be
// very large.
func (c *Client) GetXMLTV(ctx context.Context) (string, error) {
	if err := c.requireAuth(); err != nil {
		return "", err
	}
	body, err := c.get(ctx, c.XMLTVURL())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadXMLTV retrieves the XMLTV document and writes it to path as a
// single whole-document write. The document text is returned whether or
// not a path was given.
func (c *Client) DownloadXMLTV(ctx context.Context, path string) (string, error) {
	text, err := c.GetXMLTV(ctx)
	if err != nil {
		return "", err
	}
	if path != "" {
		if err := writeDocument(path, text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// M3UURL returns the URL of the server-generated M3U playlist, built from
// the configured playlist type and output type.
func (c *Client) M3UURL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s?%s=%s&%s=%s&%s=%s",
		c.baseURL, pathGetM3U,
		paramUsername, url.QueryEscape(c.username),
		paramPassword, url.QueryEscape(c.password),
		paramType, url.QueryEscape(c.playlistType))
	if out, ok := outputParams[c.outputType]; ok {
		b.WriteString("&" + paramOutput + "=" + out)
	}
	return b.String()
}

// GetM3U retrieves the server's own precomputed M3U playlist as raw text.
// The endpoint is not present on all servers; expect NotFoundError.
func (c *Client) GetM3U(ctx context.Context) (string, error) {
	if err := c.requireAuth(); err != nil {
		return "", err
	}
	body, err := c.get(ctx, c.M3UURL())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadM3U retrieves the server-generated playlist and writes it to
// path as a single whole-document write. The playlist text is returned
// whether or not a path was given.
func (c *Client) DownloadM3U(ctx context.Context, path string) (string, error) {
	text, err := c.GetM3U(ctx)
	if err != nil {
		return "", err
	}
	if path != "" {
		if err := writeDocument(path, text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// LiveStreamURL returns the delivery URL for a live stream. The extension
// comes from the configured output type, falling back to the account's
// first allowed output format.
func (c *Client) LiveStreamURL(streamID int64) string {
	return c.streamURL(pathLive, streamID, c.liveExtension())
}

// VODStreamURL returns the delivery URL for a VOD item. The extension
// should match the item's container_extension.
func (c *Client) VODStreamURL(vodID int64, extension string) string {
	return c.streamURL(pathMovie, vodID, extension)
}

// SeriesStreamURL returns the delivery URL for a series episode. The
// extension should match the episode's container_extension.
func (c *Client) SeriesStreamURL(episodeID int64, extension string) string {
	return c.streamURL(pathSeries, episodeID, extension)
}

// liveExtension resolves the extension segment for live stream URLs:
// the configured output type, else the server's first allowed format,
// else none.
func (c *Client) liveExtension() string {
	if c.outputType != "" {
		return c.outputType
	}
	if c.auth != nil && len(c.auth.UserInfo.AllowedOutputFormats) > 0 {
		return c.auth.UserInfo.AllowedOutputFormats[0]
	}
	return ""
}

func (c *Client) streamURL(path string, id int64, extension string) string {
	u := fmt.Sprintf("%s%s/%s/%s/%d", c.baseURL, path, c.username, c.password, id)
	if extension != "" {
		u += "." + extension
	}
	return u
}

// apiURL builds the player_api.php URL with the given action and parameters.
func (c *Client) apiURL(action string, params map[string]string) string {
	var u strings.Builder
	u.WriteString(fmt.Sprintf("%s%s?%s=%s&%s=%s",
		c.baseURL,
		pathPlayerAPI,
		paramUsername, url.QueryEscape(c.username),
		paramPassword, url.QueryEscape(c.password)))

	if action != "" {
		u.WriteString("&" + paramAction + "=" + url.QueryEscape(action))
	}

	for k, v := range params {
		u.WriteString("&" + url.QueryEscape(k) + "=" + url.QueryEscape(v))
	}

	return u.String()
}

// get performs an HTTP GET and returns the response body, mapping non-200
// statuses to the domain error taxonomy.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("xtream: creating request: %w", err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	client := c.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xtream: executing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		slog.String("url", requestURL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyReadSize))
		return nil, statusError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("xtream: reading response: %w", err)
	}
	return body, nil
}

// getJSON performs a GET and decodes the JSON body into target.
func (c *Client) getJSON(ctx context.Context, requestURL string, target any) error {
	body, err := c.get(ctx, requestURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("xtream: decoding response: %w", err)
	}
	return nil
}

// getJSONList performs a GET expecting a JSON array. Servers answer some
// list actions with an error object or an empty body instead of an array;
// those degrade to an empty result rather than a decode error.
func (c *Client) getJSONList(ctx context.Context, requestURL string, target any) error {
	body, err := c.get(ctx, requestURL)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(trimmed, target); err != nil {
		return fmt.Errorf("xtream: decoding response: %w", err)
	}
	return nil
}
