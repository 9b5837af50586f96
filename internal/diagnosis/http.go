package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type symptomsRequest struct {
	Symptoms string `json:"symptoms"`
}

type symptomsReply struct {
	Message *string `json:"message"`
}

// HTTPClient posts symptoms as JSON to a fixed endpoint with a bearer credential.
type HTTPClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewHTTPClient(httpClient *http.Client, endpoint, apiKey string) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// Diagnose makes exactly one call and returns the reply's message field unchanged.
func (c *HTTPClient) Diagnose(ctx context.Context, symptoms string) (string, error) {
	payload, err := json.Marshal(symptomsRequest{Symptoms: symptoms})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d, body: %.200s", ErrUpstreamStatus, resp.StatusCode, body)
	}

	var reply symptomsReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if reply.Message == nil {
		return "", fmt.Errorf("%w: no message field, body: %.200s", ErrMalformedReply, body)
	}

	return *reply.Message, nil
}
