package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/listahan/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 32 * 1024 * 1024

// Client handles communication with the spreadsheet web app
type Client struct {
	apiURL     string
	userAgent  string
	httpClient *http.Client
	logger     *logrus.Logger
	now        func() time.Time
}

// NewClient creates a new remote store client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("remote store URL is required")
	}
	if _, err := url.Parse(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("invalid remote store URL: %w", err)
	}

	return &Client{
		apiURL:    cfg.APIURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
		now:    time.Now,
	}, nil
}

// Response is the JSON envelope every action answers with
type Response struct {
	Success bool            `json:"success"`
	ID      flexString      `json:"id"`
	Error   flexString      `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// RemoteError is a failure reported by the remote store itself
// (success: false). Its message is the remote's, unchanged.
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "Unknown error"
	}
	return e.Message
}

// remoteError returns a *RemoteError when resp reports failure
func remoteError(action string, resp *Response) error {
	if resp.Success {
		return nil
	}
	return &RemoteError{Action: action, Message: string(resp.Error)}
}

// get performs a GET with query parameters
func (c *Client) get(ctx context.Context, params url.Values) (*Response, error) {
	apiURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote store URL: %w", err)
	}

	query := apiURL.Query()
	for key, vals := range params {
		for _, v := range vals {
			query.Add(key, v)
		}
	}
	// Apps Script responses are cached aggressively without this
	query.Set("_", strconv.FormatInt(c.now().UnixMilli(), 10))
	apiURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	return c.do(req, params.Get("action"))
}

// post performs a form-encoded POST
func (c *Client) post(ctx context.Context, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, form.Get("action"))
}

func (c *Client) do(req *http.Request, action string) (*Response, error) {
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	logger := c.logger.WithFields(logrus.Fields{
		"method":     req.Method,
		"action":     action,
		"request_id": requestID,
	})
	logger.Debug("Making remote store request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.WithField("status_code", resp.StatusCode).Warn("Remote store returned non-OK status")
		return nil, fmt.Errorf("remote store returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"success":     result.Success,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Remote store request completed")

	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// flexString decodes a JSON string, number, or bool into text. The
// spreadsheet hands back ids as numbers when the column looks numeric.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	*f = flexString(data)
	return nil
}
