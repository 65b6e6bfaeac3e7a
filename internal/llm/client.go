package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/refineryiq/server/pkg/circuitbreaker"
	"github.com/refineryiq/server/pkg/config"
	"github.com/refineryiq/server/pkg/logger"
	"github.com/refineryiq/server/pkg/retry"
)

// Client wraps an OpenAI-compatible chat completion endpoint. Every call
// carries an explicit timeout and a single bounded retry, and runs through a
// circuit breaker so a dead endpoint fails fast.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	topP        float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.Breaker
	retryConfig retry.Config
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
}

func NewClient(cfg config.LLMConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialDelay:   500 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("LLM client initialized",
		zap.String("model", cfg.Model),
		zap.Duration("timeout", timeout),
		zap.Int("max_retries", cfg.MaxRetries),
	)

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// Complete issues one chat completion. The context bounds the whole call
// including retries; abandoning it discards the result without side effects.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
	}

	var content string

	err := c.cb.Execute(func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       c.model,
				Messages:    messages,
				Temperature: c.temperature,
				TopP:        c.topP,
				MaxTokens:   c.maxTokens,
			})
			if err != nil {
				return fmt.Errorf("chat completion failed: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("chat completion returned no candidates")
			}

			logger.Debug("completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			content = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	return content, nil
}
