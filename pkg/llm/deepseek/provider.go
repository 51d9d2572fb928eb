package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ai-assistant-be/pkg/llm"

	"github.com/cenkalti/backoff/v5"
)

// DeepSeekProvider talks to the DeepSeek chat completions API (OpenAI-compatible).
type DeepSeekProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client

	maxRetries      uint
	initialInterval time.Duration
}

// Ensure DeepSeekProvider implements LLMProvider
var _ llm.LLMProvider = &DeepSeekProvider{}

func NewDeepSeekProvider(baseURL, apiKey, modelName string) *DeepSeekProvider {
	return &DeepSeekProvider{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries:      2,
		initialInterval: 2 * time.Second,
	}
}

// --- Request/Response structs (Internal to this package) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// --- Interface Implementation ---

func (p *DeepSeekProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
		MaxTokens:   2000,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := chatRequest{
		Model:       model,
		Messages:    messages,
		Stream:      false,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// Transient failures get a couple of retries with exponential backoff.
	// Timeouts are permanent: waiting longer will not make a slow model fast.
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.initialInterval

	reply, err := backoff.Retry(ctx, func() (string, error) {
		return p.doRequest(ctx, payloadBytes)
	},
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(p.maxRetries+1),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrCompletion, err)
	}

	return cleanResponse(reply), nil
}

func (p *DeepSeekProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *DeepSeekProvider) doRequest(ctx context.Context, payload []byte) (string, error) {
	url := strings.TrimRight(p.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", backoff.Permanent(fmt.Errorf("deepseek request timed out: %w", err))
		}
		return "", fmt.Errorf("deepseek request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("deepseek error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("unmarshal response: %w", err))
	}

	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(errors.New("deepseek response has no choices"))
	}
	if content := parsed.Choices[0].Message.Content; content != "" {
		return content, nil
	}
	// Older completion-style payloads put the reply in "text"
	return parsed.Choices[0].Text, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// cleanResponse strips markdown fences and triple quotes the model sometimes
// wraps around plain-text replies.
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx != -1 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	if strings.HasPrefix(cleaned, `"""`) && strings.HasSuffix(cleaned, `"""`) && len(cleaned) >= 6 {
		cleaned = strings.TrimSpace(cleaned[3 : len(cleaned)-3])
	}

	return cleaned
}
