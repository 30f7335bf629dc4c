package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-chronoface/internal/util"
)

const (
	collagePath    = "/api/collage"
	defaultTimeout = 60 * time.Second
	// maxErrorBody caps how much of a failed response is kept.
	maxErrorBody = 4 << 10
)

// RenderResponse is the renderer's answer to a successful request.
type RenderResponse struct {
	OutputPath string `json:"output_path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	StaticURL  string `json:"static_url,omitempty"`
}

// RenderError is returned for non-2xx renderer responses.
type RenderError struct {
	StatusCode int
	Body       string
}

func (e *RenderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("renderer returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("renderer returned status %d: %s", e.StatusCode, e.Body)
}

// Client posts render requests to a collage renderer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the renderer at baseURL. A zero timeout
// uses the default of one minute.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint is the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + collagePath
}

// Send validates req and posts it. Validation failures wrap
// ErrInvalidRequest and are returned without contacting the renderer.
func (c *Client) Send(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log := util.LoggerFromContext(ctx)
	if log != nil {
		log.Debugf("Posting render request for bucket %s to %s (%d bytes)", req.Bucket, c.Endpoint(), len(body))
	}
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach renderer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if log != nil {
			log.Warnf("Renderer rejected bucket %s with status %d", req.Bucket, resp.StatusCode)
		}
		return nil, &RenderError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var out RenderResponse
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse render response: %w", err)
	}

	if log != nil {
		log.Debugf("Rendered %s (%dx%d) in %s", out.OutputPath, out.Width, out.Height, util.FormatDuration(time.Since(start)))
	}
	return &out, nil
}
