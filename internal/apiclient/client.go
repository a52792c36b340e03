// internal/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mycars-storefront/internal/metrics"

	"go.uber.org/zap"
)

// Client là client duy nhất tới catalog API. Mọi view và workflow dùng chung một instance.
type Client struct {
	baseURL     string
	photoPrefix string
	httpClient  *http.Client
	log         *zap.Logger
}

type Option func(*Client)

// WithHTTPClient thay http.Client mặc định (dùng trong test hoặc khi cần transport riêng).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithPhotoPrefix đặt tiền tố cho các endpoint ảnh, ví dụ "/api".
func WithPhotoPrefix(prefix string) Option {
	return func(c *Client) { c.photoPrefix = strings.TrimRight(prefix, "/") }
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL biến URL tương đối (ví dụ "/uploads/cars/x.jpg") thành URL tuyệt đối trên API.
func (c *Client) ResolveURL(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return c.baseURL + u
}

// APIError là phản hồi non-2xx từ API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound báo lỗi có phải 404 từ API không.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func newAPIError(resp *http.Response) *APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
	}
	msg := fmt.Sprintf("Error: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// request mô tả một lời gọi. endpoint là mẫu route dùng làm nhãn metrics, ví dụ "/cars/{id}".
type request struct {
	method      string
	endpoint    string
	path        string
	body        io.Reader
	contentType string
}

func jsonRequest(method, endpoint, path string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode %s body: %w", endpoint, err)
	}
	return request{
		method:      method,
		endpoint:    endpoint,
		path:        path,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, nil
}

// do gửi request và decode JSON vào out (bỏ qua nếu out == nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", r.method, r.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	metrics.UpstreamDuration.WithLabelValues(r.method, r.endpoint).Observe(elapsed.Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(r.method, r.endpoint, "error").Inc()
		c.log.Warn("catalog API request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(r.method, r.endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp)
		c.log.Warn("catalog API returned an error",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	c.log.Debug("catalog API request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.endpoint, err)
	}
	return nil
}
