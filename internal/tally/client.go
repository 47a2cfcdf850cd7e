package tally

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the remote ledger system's HTTP+XML endpoint. The endpoint
// answers 200 for everything; business failures surface only as the
// <LINEERROR> marker in the body.
type Client struct {
	url  string
	http *http.Client
	log  *logrus.Logger
}

// NewClient builds a gateway for the configured endpoint. The *http.Client is
// injected so tests and callers control transport behavior; per-call timeouts
// come from the operation, not the client.
func NewClient(url string, httpClient *http.Client, log *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{url: url, http: httpClient, log: log}
}

// Export sends a report-export envelope (Content-Type: text/xml) and returns
// the raw response body.
func (c *Client) Export(ctx context.Context, payload string, timeout time.Duration) (string, error) {
	return c.call(ctx, "export", payload, "text/xml", timeout)
}

// Import posts a voucher-import envelope (Content-Type: application/xml) and
// returns the raw response body.
func (c *Client) Import(ctx context.Context, payload string, timeout time.Duration) (string, error) {
	return c.call(ctx, "import", payload, "application/xml", timeout)
}

func (c *Client) call(ctx context.Context, operation, payload, contentType string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(payload))
	if err != nil {
		return "", &TransportError{Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Operation: operation, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"operation": operation,
		"bytes":     len(body),
		"duration":  time.Since(start).String(),
	}).Debug("tally call completed")

	if strings.Contains(string(body), lineErrorMarker) {
		return "", &BusinessError{Operation: operation}
	}
	return string(body), nil
}
