package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Polisher optionally cleans up a formatted transcript with OpenAI:
// punctuation, obvious mis-hearings, casing. It never changes the speaker
// labels or the line structure.
type Polisher struct {
	client *openai.Client
	log    zerolog.Logger
}

// NewPolisher returns nil when apiKey is empty; callers treat a nil
// Polisher as "polish disabled".
func NewPolisher(apiKey string, log zerolog.Logger) *Polisher {
	if apiKey == "" {
		return nil
	}
	return &Polisher{
		client: openai.NewClient(apiKey),
		log:    log.With().Str("component", "polisher").Logger(),
	}
}

const systemPrompt = `You clean up speech-to-text transcripts. Fix punctuation, casing and obvious recognition errors. Keep every line's "Speaker X:" prefix and the header line exactly as they are. Do not merge, reorder or drop lines. Do not add commentary. Return only the corrected transcript.`

// Polish returns the cleaned transcript, or an error the caller is
// expected to treat as non-fatal by keeping the original text.
func (p *Polisher) Polish(ctx context.Context, formatted string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: formatted},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("transcript polish request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("transcript polish returned no choices")
	}

	cleaned := strings.TrimSpace(resp.Choices[0].Message.Content)
	if cleaned == "" {
		return "", fmt.Errorf("transcript polish returned empty text")
	}

	p.log.Info().Int("original_chars", len(formatted)).Int("cleaned_chars", len(cleaned)).
		Msg("transcript polished")
	return cleaned, nil
}
