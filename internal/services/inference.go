package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/config"
)

// ErrUpstream marks failures of the remote inference service. They surface
// to the client with the upstream message and never touch ledger or
// credential state.
var ErrUpstream = errors.New("inference service error")

// Inference is the collaborator contract toward the remote model.
type Inference interface {
	Chat(ctx context.Context, message string) (string, error)
	AnalyzeImage(ctx context.Context, imageURL string) (string, error)
}

const chatSystemPrompt = `You are a friendly nutrition assistant. Answer questions about food, ` +
	`calories and healthy eating concisely.`

const foodSystemPrompt = `You are a nutrition analyst. Identify the food in the image and estimate ` +
	`its calories, protein, carbs and fat per portion. Respond with a short analysis.`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// InferenceClient relays requests to an OpenAI-compatible chat completions
// endpoint.
type InferenceClient struct {
	cfg    *config.Config
	client *http.Client
}

func NewInferenceClient(cfg *config.Config) *InferenceClient {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &InferenceClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *InferenceClient) Chat(ctx context.Context, message string) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: message},
	}
	return c.complete(ctx, c.cfg.AIModel, messages)
}

// AnalyzeImage accepts an https URL or a base64 data URL.
func (c *InferenceClient) AnalyzeImage(ctx context.Context, imageURL string) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: foodSystemPrompt},
		{Role: "user", Content: []chatContentPart{
			{Type: "text", Text: "Analyze the food in this photo."},
			{Type: "image_url", ImageURL: &chatImageURL{URL: imageURL, Detail: "auto"}},
		}},
	}
	return c.complete(ctx, c.cfg.AIVisionModel, messages)
}

func (c *InferenceClient) complete(ctx context.Context, model string, messages []chatMessage) (string, error) {
	if c.cfg.AIAPIURL == "" || c.cfg.AIAPIKey == "" {
		return "", fmt.Errorf("%w: no inference endpoint configured", ErrUpstream)
	}

	payload, err := json.Marshal(chatRequest{Model: model, Messages: messages, Temperature: 0.7})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AIAPIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AIAPIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}

	// Some providers return content parts instead of a plain string.
	switch v := completion.Choices[0].Message.Content.(type) {
	case string:
		return strings.TrimSpace(v), nil
	default:
		contentBytes, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: unreadable content", ErrUpstream)
		}
		return string(contentBytes), nil
	}
}
