package diagnosis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gwi.com/symptoms-checker/internal/config"
)

func TestNewHTTPProvider(t *testing.T) {
	cfg := &config.Config{DiagnosisProvider: config.ProviderHTTP, DiagnosisURL: "http://upstream.local"}

	d, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	client, ok := d.(*HTTPClient)
	require.True(t, ok)
	assert.Equal(t, "http://upstream.local", client.endpoint)
	assert.IsType(t, &LoggingTransport{}, client.httpClient.Transport)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), &config.Config{DiagnosisProvider: "carrier-pigeon"}, zap.NewNop())
	assert.Error(t, err)
}
