package diagnosis

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

var errConnReset = errors.New("connection reset by peer")

// brokenBody yields a partial payload and then fails.
type brokenBody struct {
	r      io.Reader
	closed bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF {
		return n, errConnReset
	}
	return n, err
}

func (b *brokenBody) Close() error {
	b.closed = true
	return nil
}

func TestLoggingTransportResponseReadError(t *testing.T) {
	body := &brokenBody{r: strings.NewReader(`{"message":"Tens`)}
	next := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: body, Request: req}, nil
	})

	req, err := http.NewRequest(http.MethodPost, "http://upstream.local/v1/symptoms", strings.NewReader(`{"symptoms":"x"}`))
	require.NoError(t, err)

	resp, err := NewLoggingTransport(next, zap.NewExample()).RoundTrip(req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, errConnReset)
	assert.True(t, body.closed)
}

func TestHTTPClientDiagnoseBodyReadErrorIsNotMalformed(t *testing.T) {
	next := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       &brokenBody{r: strings.NewReader(`{"message":"Tens`)},
			Request:    req,
		}, nil
	})
	httpClient := &http.Client{Transport: NewLoggingTransport(next, zap.NewExample())}

	_, err := NewHTTPClient(httpClient, "http://upstream.local/v1/symptoms", "k").Diagnose(context.Background(), "headache")

	require.Error(t, err)
	assert.ErrorIs(t, err, errConnReset)
	assert.NotErrorIs(t, err, ErrMalformedReply)
}

func TestLoggingTransportSkipsBodiesAboveDebug(t *testing.T) {
	body := &brokenBody{r: strings.NewReader(`{"message":"ok"}`)}
	next := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: body, Request: req}, nil
	})

	req, err := http.NewRequest(http.MethodGet, "http://upstream.local/", nil)
	require.NoError(t, err)

	// At info level the body is left for the caller to read.
	resp, err := NewLoggingTransport(next, zap.NewNop()).RoundTrip(req)
	require.NoError(t, err)
	assert.Same(t, body, resp.Body)
	assert.False(t, body.closed)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "empty", truncate(nil))
	assert.Equal(t, "short", truncate([]byte("short")))

	long := strings.Repeat("a", maxLoggedBody+10)
	got := truncate([]byte(long))
	assert.True(t, strings.HasPrefix(got, strings.Repeat("a", maxLoggedBody)))
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
}
