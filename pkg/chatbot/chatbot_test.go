package chatbot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]Request) {
	t.Helper()

	var got []Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, &got
}

func TestNew_DefaultEndpoint(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
}

func TestRespond_Success(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"response":"hi there"}`)

	reply, err := New(srv.URL).Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	require.Len(t, *got, 1)
	assert.Equal(t, "hello", (*got)[0].Message)
}

func TestRespond_MultilineReplyVerbatim(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"response":"line one\nline two"}`)

	reply, err := New(srv.URL).Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", reply)
}

func TestRespond_SoftFailures(t *testing.T) {
	for name, body := range map[string]string{
		"missing field": `{}`,
		"empty string":  `{"response":""}`,
		"null field":    `{"response":null}`,
		"other fields":  `{"error":"model offline"}`,
		"false":         `{"response":false}`,
		"zero":          `{"response":0}`,
		"array body":    `[]`,
		"string body":   `"hello"`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, body)

			_, err := New(srv.URL).Respond(context.Background(), "hello")
			require.ErrorIs(t, err, ErrNoResponse)
			assert.NotErrorIs(t, err, ErrExchange)
		})
	}
}

func TestRespond_HardFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not json", http.StatusOK, `<html>oops</html>`},
		{"null body", http.StatusOK, `null`},
		{"number response", http.StatusOK, `{"response":42}`},
		{"true response", http.StatusOK, `{"response":true}`},
		{"object response", http.StatusOK, `{"response":{"text":"hi"}}`},
		{"server error", http.StatusInternalServerError, `{"response":"ignored"}`},
		{"not found", http.StatusNotFound, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)

			_, err := New(srv.URL).Respond(context.Background(), "hello")
			require.ErrorIs(t, err, ErrExchange)
			assert.NotErrorIs(t, err, ErrNoResponse)
		})
	}
}

func TestRespond_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Respond(context.Background(), "hello")
	require.ErrorIs(t, err, ErrExchange)
}

func TestRespond_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = io.WriteString(w, `{"response":"late"}`)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Respond(context.Background(), "hello")
	require.ErrorIs(t, err, ErrExchange)
}

func TestRespond_CanceledContext(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"response":"hi"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).Respond(ctx, "hello")
	require.ErrorIs(t, err, ErrExchange)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *got)
}

func TestRespond_CustomHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "widget", r.Header.Get("X-Client"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"response":"ok"}`)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL,
		WithHeader("X-Client", "widget"),
		WithHeader("Content-Type", "text/plain"),
	)

	reply, err := c.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestRespond_EncodedReply(t *testing.T) {
	body, err := json.Marshal(Response{Response: "encoded"})
	require.NoError(t, err)
	srv, _ := newTestServer(t, http.StatusOK, string(body))

	reply, err := New(srv.URL).Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "encoded", reply)
}

func TestWithHTTPClient(t *testing.T) {
	tr := &http.Transport{}
	hc := &http.Client{Transport: tr}
	c := New("http://example.invalid/chatbot", WithHTTPClient(hc))
	assert.Same(t, tr, c.client.Transport)
	assert.NotSame(t, hc, c.client)
}

func TestWithTimeout_AnyOptionOrder(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = io.WriteString(w, `{"response":"late"}`)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	tests := map[string][]Option{
		"timeout first": {WithTimeout(50 * time.Millisecond), WithHTTPClient(&http.Client{})},
		"timeout last":  {WithHTTPClient(&http.Client{}), WithTimeout(50 * time.Millisecond)},
	}

	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(srv.URL, opts...).Respond(context.Background(), "hello")
			require.ErrorIs(t, err, ErrExchange)
		})
	}
}

func TestWithTimeout_LeavesSharedClientUntouched(t *testing.T) {
	hc := &http.Client{}
	c := New("http://example.invalid/chatbot", WithHTTPClient(hc), WithTimeout(5*time.Second))

	assert.Zero(t, hc.Timeout)
	assert.Equal(t, 5*time.Second, c.client.Timeout)
}
