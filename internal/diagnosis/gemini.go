package diagnosis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const triageSystemInstruction = "You are a cautious medical triage assistant. " +
	"Given a patient's description of their symptoms, list the most likely causes in plain language " +
	"and say when they should see a doctor or seek emergency care. " +
	"Keep the answer short. Never present the answer as a definitive diagnosis."

// GeminiClient answers through the Gemini SDK instead of a raw JSON endpoint.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	log       *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName, log: log}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Diagnose(ctx context.Context, symptoms string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(triageSystemInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(symptoms))
	if err != nil {
		return "", fmt.Errorf("gemini GenerateContent failed: %w", err)
	}

	text, err := candidateText(resp)
	if err != nil {
		c.log.Warn("Gemini reply had no usable text", zap.Error(err))
		return "", err
	}
	return text, nil
}

// candidateText joins the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedReply)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: no text parts", ErrMalformedReply)
	}
	return text.String(), nil
}
