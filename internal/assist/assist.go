// Package assist wraps the Gemini API for short one-shot text generation,
// used to draft payment reminder messages and bill notes.
package assist

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

type Assistant struct {
	client *genai.Client
	model  string
}

// New creates an Assistant. The API key may be empty, in which case the
// client falls back to GEMINI_API_KEY from the environment.
func New(ctx context.Context, apiKey, model string) (*Assistant, error) {
	var cc *genai.ClientConfig
	if apiKey != "" {
		cc = &genai.ClientConfig{APIKey: apiKey}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Assistant{client: client, model: model}, nil
}

// Complete sends the prompt and returns the first candidate's text.
func (a *Assistant) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model %s", a.model)
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	slog.DebugContext(ctx, "Assist completion",
		"model", a.model,
		"prompt_len", len(prompt),
		"response_len", len(text))
	return text, nil
}

// DraftReminder asks the model for a short reminder message about a bill.
func (a *Assistant) DraftReminder(ctx context.Context, billName string, amountUnits float64, dueDate string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short, friendly one-sentence reminder that the bill %q for %.2f is due on %s. Plain text only.",
		billName, amountUnits, dueDate)
	return a.Complete(ctx, prompt)
}
