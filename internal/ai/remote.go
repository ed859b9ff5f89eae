package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/testforge-hq/testforge/pkg/model"
)

// Remote suggests steps by calling an Ollama-compatible chat endpoint.
type Remote struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewRemote creates a suggester backed by the chat endpoint at
// baseURL, generating with the named model.
func NewRemote(baseURL, modelName string) *Remote {
	return &Remote{
		baseURL: baseURL,
		model:   modelName,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute, // generation can be slow
		},
	}
}

func (c *Remote) Name() Provider {
	return ProviderRemote
}

// Available probes the backend's model listing with a short timeout.
func (c *Remote) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// chatRequest is the Ollama chat API request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama chat API response format.
type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func (c *Remote) SuggestSteps(ctx context.Context, tc model.TestCase, focus string) ([]model.TestStep, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: suggestionSystemPrompt},
			{Role: "user", Content: SuggestionPrompt(tc, focus)},
		},
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Cap error bodies so a misbehaving backend can't balloon memory.
		limited := io.LimitReader(resp.Body, 1024)
		bodyBytes, _ := io.ReadAll(limited)
		return nil, fmt.Errorf("suggestion backend returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("decoding interrupted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	steps, err := ParseSteps(chatResp.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse suggested steps: %w", err)
	}
	return steps, nil
}
