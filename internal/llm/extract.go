package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Extraction is the structured result of reading one chat message. Nil
// pointers mean the message did not state that fact.
type Extraction struct {
	BirthDate *string  `json:"birth_date"`
	Sex       *string  `json:"sex"`
	HeightCM  *float64 `json:"height_cm"`
	WeightKG  *float64 `json:"weight_kg"`
	Reset     bool     `json:"reset"`
}

// ExtractProfile asks the model to pull growth facts out of text. The model
// is instructed to emit strict JSON; fenced or prefixed output is tolerated
// by locating the outermost object before decoding.
func (c *Client) ExtractProfile(ctx context.Context, text string) (*Extraction, error) {
	raw, err := c.Complete(ctx, extractSystemPrompt, text)
	if err != nil {
		return nil, err
	}
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("llm extraction output: %w", err)
	}
	var ex Extraction
	if err := json.Unmarshal([]byte(payload), &ex); err != nil {
		return nil, fmt.Errorf("decode llm extraction: %w", err)
	}
	return &ex, nil
}

// DraftReply asks the model to phrase a percentile summary for the user.
// Callers fall back to the plain summary when this fails.
func (c *Client) DraftReply(ctx context.Context, summary string) (string, error) {
	reply, err := c.Complete(ctx, replySystemPrompt, summary)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// extractJSONObject returns the first top-level {...} object in s. Models
// occasionally wrap JSON in markdown fences or lead-in prose despite the
// prompt.
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in %q", s)
	}
	return s[start : end+1], nil
}
