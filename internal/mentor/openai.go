package mentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const maxAttempts = 3

// Config holds the language model settings.
type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
}

// Enabled reports whether a model can be called.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

var _ Completer = (*OpenAICompleter)(nil)

// OpenAICompleter is a Completer for OpenAI-compatible chat APIs.
type OpenAICompleter struct {
	client *openai.Client
	model  string
	logger *slog.Logger
	// backoff returns the wait before retry n (0-based).
	backoff func(n int) time.Duration
}

// NewOpenAICompleter creates a completer from cfg.
func NewOpenAICompleter(cfg Config, logger *slog.Logger) *OpenAICompleter {
	// Rate limits are retried by Complete, not by the client.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Organization != "" {
		opts = append(opts, option.WithOrganization(cfg.Organization))
	}
	client := openai.NewClient(opts...)

	return &OpenAICompleter{
		client: &client,
		model:  cfg.Model,
		logger: logger,
		backoff: func(n int) time.Duration {
			return time.Duration(2<<n) * time.Second // 2s, 4s
		},
	}
}

// Complete sends p as a system + user message pair. Rate-limited calls are
// retried with backoff.
func (c *OpenAICompleter) Complete(ctx context.Context, p Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
	}
	if p.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(p.MaxTokens)
	}
	if p.Temperature > 0 {
		params.Temperature = openai.Float(p.Temperature)
	}

	var completion *openai.ChatCompletion
	var err error
	for attempt := range maxAttempts {
		completion, err = c.client.Chat.Completions.New(ctx, params)
		if err == nil {
			break
		}
		if !rateLimited(err) || attempt == maxAttempts-1 {
			return "", fmt.Errorf("mentor: chat completion: %w", err)
		}
		wait := c.backoff(attempt)
		c.logger.Warn("rate limited by language model", slog.Duration("retry_in", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", fmt.Errorf("mentor: chat completion: %w", ctx.Err())
		}
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("mentor: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

func rateLimited(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return strings.Contains(err.Error(), "429")
}
