// Package summarize asks an OpenAI-compatible chat model for a short summary
// of a scraped article. The model is treated as an opaque text-in/text-out
// service.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/smartscrape/internal/blocks"
	"github.com/hyperifyio/smartscrape/internal/scrape"
)

// Client is the subset of the chat API the summarizer needs.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider adapts *openai.Client to Client.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

// NewOpenAIProvider builds a provider for baseURL (empty means the OpenAI
// default endpoint).
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}

const DefaultMaxInputChars = 12000

const defaultSystemPrompt = "You summarize web articles. Reply with a concise plain-text summary of three to five sentences. Use only the supplied article text and do not add facts."

var (
	ErrNotConfigured = errors.New("summarizer not configured")
	ErrNoContent     = errors.New("article has no content to summarize")
	ErrNoChoices     = errors.New("model returned no summary")
)

// Summarizer produces a short summary for an article.
type Summarizer struct {
	Client Client
	Model  string
	// SystemPrompt, when non-empty, overrides the default system message.
	SystemPrompt string
	// MaxInputChars caps the article text sent to the model. Zero means
	// DefaultMaxInputChars.
	MaxInputChars int
}

// Summarize returns the model's summary of a.
func (s *Summarizer) Summarize(ctx context.Context, a scrape.Article) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", ErrNotConfigured
	}
	if a.Failed() || strings.TrimSpace(a.PlainText) == "" || a.PlainText == scrape.NoContent {
		return "", ErrNoContent
	}
	system := defaultSystemPrompt
	if strings.TrimSpace(s.SystemPrompt) != "" {
		system = s.SystemPrompt
	}
	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: s.userMessage(a)},
		},
		Temperature: 0.2,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summary call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrNoChoices
	}
	log.Debug().Str("url", a.SourceURL).Int("chars", len(out)).Msg("summary generated")
	return out, nil
}

func (s *Summarizer) userMessage(a scrape.Article) string {
	limit := s.MaxInputChars
	if limit <= 0 {
		limit = DefaultMaxInputChars
	}
	var sb strings.Builder
	sb.WriteString("Title: ")
	sb.WriteString(a.Title)
	sb.WriteString("\nURL: ")
	sb.WriteString(a.SourceURL)
	if a.MetaDescription != "" {
		sb.WriteString("\nDescription: ")
		sb.WriteString(a.MetaDescription)
	}
	sb.WriteString("\n\nArticle text:\n\n")
	sb.WriteString(blocks.Truncate(a.PlainText, limit))
	return sb.String()
}
