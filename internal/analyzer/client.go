// Package analyzer talks to the remote fee-analysis service.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"git.sr.ht/~jakintosh/feescan/internal/core"
	"git.sr.ht/~jakintosh/feescan/internal/logging"
)

const (
	// AnalyzePath is appended to the backend base URL.
	AnalyzePath = "/api/fees/analyze"
	// FileField is the multipart field carrying the statement.
	FileField = "file"

	maxErrorBody = 1 << 20
)

// ErrBusy is returned when Analyze is called while another call is running.
var ErrBusy = errors.New("an analysis is already in progress")

// StatusError is a non-2xx response. Its message is the response body as
// sent by the service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return e.Body
}

// Client uploads statements to one analysis service.
type Client struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
	logger    *logging.Logger
	inflight  *semaphore.Weighted
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the internal HTTP client (e.g., for custom timeouts or tracing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpc = c
		}
	}
}

// WithLogger sets the logger used for request records.
func WithLogger(l *logging.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          4,
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Timeout=0: callers bound the request through its context.
		httpc:    &http.Client{Transport: tr},
		logger:   logging.Discard(),
		inflight: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full analysis URL.
func (c *Client) Endpoint() string {
	return c.baseURL + AnalyzePath
}

// Analyze uploads the statement and decodes the service's report. A JSON
// null body yields a nil report and no error.
func (c *Client) Analyze(ctx context.Context, statement core.Statement) (*core.AnalysisResult, error) {
	if !c.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer c.inflight.Release(1)

	requestID := uuid.NewString()
	log := c.logger.With("request_id", requestID, "file", statement.Name)
	start := time.Now()

	data, err := os.ReadFile(statement.Path)
	if err != nil {
		log.Error("read statement failed", "error", err)
		return nil, fmt.Errorf("read statement: %w", err)
	}

	body, contentType, err := encodeUpload(statement.Name, data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug("uploading statement", "endpoint", c.Endpoint(), "bytes", len(data))
	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Error("upload failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf("read error response: %w", err)
		}
		log.Info("analysis rejected", "status", resp.StatusCode, "duration", time.Since(start))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	var result *core.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Error("decode failed", "error", err)
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	if result == nil {
		log.Info("analysis empty", "status", resp.StatusCode, "duration", time.Since(start))
		return nil, nil
	}
	log.Info("analysis received",
		"status", resp.StatusCode,
		"categories", len(result.ByCategory),
		"matches", len(result.Matches),
		"duration", time.Since(start),
	)
	return result, nil
}

// encodeUpload builds the multipart body with the statement under FileField.
func encodeUpload(filename string, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FileField, escapeQuotes(filename)))
	h.Set("Content-Type", sniffContentType(filename, data))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// sniffContentType prefers the bytes, then the extension.
func sniffContentType(filename string, data []byte) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return "application/pdf"
	}
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return "text/csv"
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
