// Package visualizer reads shots from the Visualizer API (https://visualizer.coffee).
package visualizer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"coffee_sync/internal/config"
	"coffee_sync/internal/logger"
	"coffee_sync/internal/models"
)

const (
	shotsEndpoint    = "/api/shots"
	shotEndpointFmt  = "/api/shots/%s"
	downloadEndpoint = "/api/shots/%s/download"

	// maxBodyBytes caps a single response; a full shot download is a few hundred KB.
	maxBodyBytes = 16 << 20
)

// StatusError is returned for any non-2xx reply from the API.
type StatusError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Status)
}

// Client talks to the Visualizer API with Basic auth.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient builds a client from the Visualizer section of the config.
func NewClient(cfg config.Visualizer, log *logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		authHeader: BasicAuth(cfg.User, cfg.Password),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// BasicAuth renders the Authorization header value for user:password.
func BasicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

// ListShots returns up to limit shot references in the order the API lists them.
func (c *Client) ListShots(ctx context.Context, limit int) ([]models.ShotID, error) {
	q := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var ids []models.ShotID
	if err := c.getJSON(ctx, shotsEndpoint, q, &ids); err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// shotPayload mirrors the download endpoint. Numeric values arrive as
// strings (sometimes as numbers), so they are kept raw until parsed.
type shotPayload struct {
	StartTime    string                       `json:"start_time"`
	ProfileTitle string                       `json:"profile_title"`
	UserID       json.RawMessage              `json:"user_id"`
	DrinkWeight  json.RawMessage              `json:"drink_weight"`
	Timeframe    []json.RawMessage            `json:"timeframe"`
	Data         map[string][]json.RawMessage `json:"data"`
	ImagePreview *string                      `json:"image_preview"`
}

// FetchShot downloads one shot and parses its series. The returned ID is
// always the id that was asked for; the payload's own id is not trusted.
func (c *Client) FetchShot(ctx context.Context, id string) (models.Shot, error) {
	var p shotPayload
	if err := c.getJSON(ctx, fmt.Sprintf(downloadEndpoint, url.PathEscape(id)), nil, &p); err != nil {
		return models.Shot{}, fmt.Errorf("fetch shot %q: %w", id, err)
	}

	data := make(map[string][]float64, len(p.Data))
	for channel, values := range p.Data {
		data[channel] = parseSeries(values)
	}
	shot := models.Shot{
		ID:           id,
		StartTime:    p.StartTime,
		ProfileTitle: p.ProfileTitle,
		UserID:       token(p.UserID),
		DrinkWeight:  parseNumber(p.DrinkWeight),
		Timeframe:    parseSeries(p.Timeframe),
		Data:         data,
	}
	if p.ImagePreview != nil {
		shot.ImagePreview = *p.ImagePreview
	}
	return shot, nil
}

// FetchPreviewImage returns the preview image URL of a shot, or nil when the
// shot has none (or is unknown to the API).
func (c *Client) FetchPreviewImage(ctx context.Context, id string) (*string, error) {
	var p struct {
		ImagePreview *string `json:"image_preview"`
	}
	err := c.getJSON(ctx, fmt.Sprintf(shotEndpointFmt, url.PathEscape(id)), nil, &p)
	if err != nil {
		if se, ok := asStatusError(err); ok && se.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch preview image %q: %w", id, err)
	}
	if p.ImagePreview == nil || *p.ImagePreview == "" {
		return nil, nil
	}
	return p.ImagePreview, nil
}

// getJSON issues an authenticated GET and decodes a 2xx body into dst.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, dst any) error {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", http.MethodGet, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.log != nil {
			c.log.Errorw("visualizer_request_failed",
				"method", http.MethodGet, "endpoint", endpoint, "status", resp.StatusCode)
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{
			Method:     http.MethodGet,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
