// Package chatbot implements the client side of the chatbot wire protocol:
// a single JSON POST carrying the user's message, answered by a JSON body
// carrying the reply.
//
// Failures come in two classes. A reply that decodes but carries no usable
// "response" (absent, null, false, zero, empty, or a body that is not an
// object) is reported as [ErrNoResponse]. Everything else that goes wrong
// (transport, status, undecodable or null body, a non-string reply) matches
// [ErrExchange].
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultEndpoint is the path the widget posts to when none is configured.
const DefaultEndpoint = "/chatbot"

var (
	// ErrNoResponse reports a successful exchange whose reply is empty.
	ErrNoResponse = errors.New("chatbot: no response received")

	// ErrExchange reports a failed exchange.
	ErrExchange = errors.New("chatbot: exchange failed")
)

// Request is the body posted to the endpoint.
type Request struct {
	Message string `json:"message"`
}

// Response is the body expected back.
type Response struct {
	Response string `json:"response"`
}

// Client posts messages to a chatbot endpoint.
type Client struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	header   http.Header
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// so options never modify it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each exchange. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Add(key, value) }
}

// WithLogger sets the logger failed exchanges are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client posting to endpoint. An empty endpoint falls back
// to DefaultEndpoint.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{},
		header:   make(http.Header),
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{}
	if c.client != nil {
		hc = *c.client
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.client = &hc

	return c
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Respond sends message and returns the reply text.
func (c *Client) Respond(ctx context.Context, message string) (string, error) {
	start := time.Now()

	reply, err := c.exchange(ctx, message)
	if err != nil {
		c.log.Debug().Err(err).Dur("elapsed", time.Since(start)).Str("endpoint", c.endpoint).Msg("chatbot exchange failed")
		return "", err
	}

	c.log.Debug().Dur("elapsed", time.Since(start)).Int("reply_len", len(reply)).Msg("chatbot exchange done")

	return reply, nil
}

func (c *Client) exchange(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(Request{Message: message})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrExchange, err)
	}

	maps.Copy(req.Header, c.header.Clone())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExchange, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrExchange, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrExchange, resp.StatusCode)
	}

	return decodeReply(data)
}

// decodeReply extracts the "response" string from a reply body. Falsy
// values count as no response; a truthy value that is not a string cannot
// be shown and fails the exchange.
func decodeReply(data []byte) (string, error) {
	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return "", fmt.Errorf("%w: decode body: %w", ErrExchange, err)
	}
	if body == nil {
		return "", fmt.Errorf("%w: decode body: null", ErrExchange)
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return "", ErrNoResponse
	}

	switch v := obj["response"].(type) {
	case nil:
		return "", ErrNoResponse
	case string:
		if v == "" {
			return "", ErrNoResponse
		}
		return v, nil
	case bool:
		if !v {
			return "", ErrNoResponse
		}
	case float64:
		if v == 0 {
			return "", ErrNoResponse
		}
	}

	return "", fmt.Errorf("%w: response is %T, not a string", ErrExchange, obj["response"])
}
