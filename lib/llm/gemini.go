package llm

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Gemini generates text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the client. An empty baseURL keeps the library default.
func NewGemini(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, err
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil {
				out.WriteString(part.Text)
			}
		}
		break
	}

	if strings.TrimSpace(out.String()) == "" {
		return "", ErrEmptyResponse
	}
	return out.String(), nil
}
