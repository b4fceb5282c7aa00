// Package llm calls an OpenAI-compatible chat-completions API to extract
// structured growth facts from free-form chat messages and to draft
// natural-language replies.
//
// The upstream is treated as an unreliable collaborator: calls are retried
// with exponential backoff on transport errors and 5xx responses, and a
// circuit breaker stops hammering a dead upstream so the bot can degrade to
// template replies.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config holds client settings.
type Config struct {
	BaseURL         string
	Model           string
	APIKey          string
	Timeout         time.Duration
	MaxRetries      int
	BreakerFailures int
}

// Client is a chat-completions client.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// New creates a Client. A zero Timeout defaults to 20s; zero MaxRetries
// defaults to 3; zero BreakerFailures defaults to 5.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("llm breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		log:     log,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// statusError marks a non-2xx upstream response; 5xx is retryable, 4xx is not.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("llm upstream status %d: %s", e.code, e.body)
}

// Complete sends one system+user exchange and returns the model's text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode llm request: %w", err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.completeWithRetry(ctx, body)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (c *Client) completeWithRetry(ctx context.Context, body []byte) (string, error) {
	var text string
	op := func() error {
		t, err := c.doOnce(ctx, body)
		if err != nil {
			var se *statusError
			if errors.As(err, &se) && se.code < 500 {
				// Client errors won't heal on retry.
				return backoff.Permanent(err)
			}
			c.log.Debug("llm call failed, retrying", zap.Error(err))
			return err
		}
		text = t
		return nil
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) doOnce(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &statusError{code: resp.StatusCode, body: string(snippet)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
