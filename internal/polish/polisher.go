package polish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured reports that no credential is configured for the remote
// text-generation service.
var ErrNotConfigured = errors.New("polish: no API key configured")

// ErrMalformedResponse reports that the remote service answered but the
// payload lacked the required "polished" key.
var ErrMalformedResponse = errors.New("polish: malformed response")

// Result is a structured transcript edit returned by the remote model.
type Result struct {
	Polished       string   `json:"polished"`
	ChangesSummary []string `json:"changes_summary"`
	Warnings       []string `json:"warnings"`
}

// Polisher rewrites raw transcripts for readability through a remote
// text-generation API, constrained by an explicit editing policy.
type Polisher struct {
	client *openai.Client
	model  string
	policy *PolicySource
}

// New builds a polisher. An empty apiKey yields a polisher whose Polish
// always returns ErrNotConfigured; the caller falls back to the raw text.
func New(apiKey, baseURL, model string, policy *PolicySource) *Polisher {
	p := &Polisher{model: model, policy: policy}
	if policy == nil {
		p.policy = NewPolicySource("")
	}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		p.client = openai.NewClientWithConfig(cfg)
	}
	return p
}

// Polish sends the raw transcript with the editing policy and parses the
// JSON-formatted edit. Each failure mode returns an error the caller is
// expected to absorb: a polish failure never blocks the primary result.
func (p *Polisher) Polish(ctx context.Context, rawText, languageHint string) (Result, error) {
	if p.client == nil {
		return Result{}, ErrNotConfigured
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(rawText, languageHint)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("polish request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return parseEdit(resp.Choices[0].Message.Content)
}

// parseEdit decodes the model's JSON payload. "polished" is required;
// "changes_summary" and "warnings" are optional.
func parseEdit(content string) (Result, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	polishedRaw, ok := raw["polished"]
	if !ok {
		return Result{}, fmt.Errorf("%w: missing \"polished\" key", ErrMalformedResponse)
	}

	var result Result
	if err := json.Unmarshal(polishedRaw, &result.Polished); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if v, ok := raw["changes_summary"]; ok {
		_ = json.Unmarshal(v, &result.ChangesSummary)
	}
	if v, ok := raw["warnings"]; ok {
		_ = json.Unmarshal(v, &result.Warnings)
	}
	return result, nil
}

func (p *Polisher) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an expert transcript editor. Rewrite the transcript for readability while following every rule below.\n\nRules:\n")
	for _, rule := range p.policy.Rules() {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with a JSON object containing: \"polished\" (string, required), \"changes_summary\" (list of strings), \"warnings\" (list of strings).")
	return b.String()
}

func userPrompt(rawText, languageHint string) string {
	var b strings.Builder
	if languageHint != "" {
		fmt.Fprintf(&b, "Transcript language: %s\n\n", languageHint)
	}
	b.WriteString("Raw transcript:\n")
	b.WriteString(rawText)
	return b.String()
}
