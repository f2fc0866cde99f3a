// Package summary provides optional AI-generated summaries for filed
// documents. When unavailable, documents are delivered without a summary
// section rather than blocked.
package summary

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	apperrors "fiialert/internal/errors"
)

// Summarizer produces a short summary of a document.
type Summarizer interface {
	Summarize(ctx context.Context, documentText string) (string, error)
}

const systemPrompt = "Você é um analista de fundos imobiliários. Resuma o documento " +
	"a seguir em no máximo três frases, em português, destacando rendimento, " +
	"vacância e fatos relevantes."

// OpenAISummarizer implements Summarizer using the OpenAI API.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISummarizer creates an OpenAI-backed summarizer.
func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	return &OpenAISummarizer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Summarize sends the document text to the model and returns the summary.
func (s *OpenAISummarizer) Summarize(ctx context.Context, documentText string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: documentText},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// Disabled is a Summarizer that reports itself unavailable.
type Disabled struct{}

// Summarize always returns ErrSummaryDisabled.
func (Disabled) Summarize(context.Context, string) (string, error) {
	return "", apperrors.ErrSummaryDisabled
}
