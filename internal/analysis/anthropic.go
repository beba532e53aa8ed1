package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// Anthropic analyzes text with the Claude Messages API. The model is asked
// for a strict JSON object so the response can be decoded directly.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic builds a provider for the given API key and model.
// An empty model selects DefaultModel.
func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = DefaultModel
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *Anthropic) Analyze(ctx context.Context, text string) (*Result, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api call: %w", err)
	}
	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("anthropic: empty response")
	}

	jsonStr, err := extractJSON(msg.Content[0].Text)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	var r Result
	if err := json.Unmarshal([]byte(jsonStr), &r); err != nil {
		return nil, fmt.Errorf("anthropic: decode response: %w", err)
	}
	r.Source = "anthropic"
	return &r, nil
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`You are a thoughtful journaling assistant.

Read the diary entry below and produce a short reflection in JSON format.

Diary entry:
%s

Output ONLY a valid JSON object matching this exact schema:
{
  "summary": "<2-3 sentence summary of the entry>",
  "suggestions": ["<follow-up question or prompt>", "..."],
  "tags": ["<lowercase topic tag>", "..."]
}

Rules:
- Keep the summary under 60 words
- Provide 2-4 suggestions, each a single sentence
- Provide 1-5 lowercase tags without spaces (use dashes)
- Output ONLY the JSON, no markdown, no explanations`, text)
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
