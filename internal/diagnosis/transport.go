package diagnosis

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxLoggedBody = 2000

// LoggingTransport logs each outbound request and its response at debug level.
type LoggingTransport struct {
	Transport http.RoundTripper
	Logger    *zap.Logger
}

func NewLoggingTransport(next http.RoundTripper, log *zap.Logger) *LoggingTransport {
	return &LoggingTransport{Transport: next, Logger: log}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	// The Authorization header is never logged.
	log := t.Logger.With(zap.String("method", req.Method), zap.String("url", req.URL.String()))

	if req.Body != nil && log.Core().Enabled(zap.DebugLevel) {
		bodyBytes, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			log.Error("Failed to read upstream request body", zap.Error(err))
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		log.Debug("Upstream request", zap.String("body", truncate(bodyBytes)))
	}

	start := time.Now()
	resp, err := transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		log.Error("Upstream request failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{zap.Int("status", resp.StatusCode), zap.Duration("duration", duration)}
	if resp.Body != nil && log.Core().Enabled(zap.DebugLevel) {
		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Error("Failed to read upstream response body", append(fields, zap.Error(err))...)
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		fields = append(fields, zap.String("body", truncate(bodyBytes)))
	}
	log.Debug("Upstream response", fields...)

	return resp, nil
}

func truncate(body []byte) string {
	if len(body) == 0 {
		return "empty"
	}
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "...(truncated)"
	}
	return string(body)
}
