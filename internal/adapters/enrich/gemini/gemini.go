// Package gemini backs the distiller port with Google's Gemini API
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	perr "bookmarkd/internal/platform/errors"
	"bookmarkd/internal/platform/logger"
)

const defaultModel = "gemini-1.5-flash"

// Config selects the model and credentials
type Config struct {
	APIKey string
	Model  string
}

// Distiller condenses fetched content into short summaries
type Distiller struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// New creates a Distiller, the API key is required
func New(ctx context.Context, cfg Config) (*Distiller, error) {
	if cfg.APIKey == "" {
		return nil, perr.Configf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "create gemini client")
	}
	return &Distiller{client: client, model: cfg.Model, log: logger.Named("gemini")}, nil
}

// Distill sends the prompt and content to the model and returns the text.
// Upstream failures map onto the retry taxonomy: quota errors are rate
// limited, everything else from the transport is transient.
func (d *Distiller) Distill(ctx context.Context, prompt, content string) (string, error) {
	model := d.client.GenerativeModel(d.model)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt+"\n\n"+content))
	if err != nil {
		if isQuotaErr(err) {
			return "", perr.Wrap(err, perr.ErrorCodeRateLimited, "gemini generate")
		}
		return "", perr.Wrap(err, perr.ErrorCodeTransient, "gemini generate")
	}

	text := extractText(resp)
	if text == "" {
		return "", perr.Malformedf("gemini returned no text parts")
	}
	return text, nil
}

// Close releases the underlying client
func (d *Distiller) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

func isQuotaErr(err error) bool {
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "quota") || strings.Contains(s, "rate limit")
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
