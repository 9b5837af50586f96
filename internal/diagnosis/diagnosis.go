// Package diagnosis talks to the third-party symptom-analysis service.
package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gwi.com/symptoms-checker/internal/config"
)

var (
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	ErrMalformedReply = errors.New("malformed upstream reply")
)

// Diagnoser turns free-text symptoms into the upstream service's answer.
type Diagnoser interface {
	Diagnose(ctx context.Context, symptoms string) (string, error)
}

// New picks the provider named by cfg.DiagnosisProvider.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (Diagnoser, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set, upstream calls will be unauthorized")
	}

	switch cfg.DiagnosisProvider {
	case config.ProviderHTTP, "":
		httpClient := &http.Client{Transport: NewLoggingTransport(http.DefaultTransport, log)}
		return NewHTTPClient(httpClient, cfg.DiagnosisURL, cfg.GeminiAPIKey), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	default:
		return nil, fmt.Errorf("unknown diagnosis provider %q", cfg.DiagnosisProvider)
	}
}
