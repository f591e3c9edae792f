// Package downstream is the thin HTTP client wrapper the resolve path
// uses to reach an origin service: one buffered round trip per call,
// nothing more.
package downstream

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// Request is one downstream call to an origin.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is the origin's reply, body fully buffered.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client issues downstream calls. The zero value is usable; it is a
// struct (rather than a bare *http.Client alias) so a custom transport
// or timeout can be set by callers that need one.
type Client struct {
	HTTP *http.Client
}

// New returns a Client with default transport settings; downstream
// calls inherit the HTTP client defaults, no explicit timeout.
func New() *Client {
	return &Client{HTTP: &http.Client{}}
}

// Do issues req and fully buffers the response body.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	httpReq.Header = req.Headers

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}
