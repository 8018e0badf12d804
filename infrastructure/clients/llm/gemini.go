package llm

import (
	"context"
	"errors"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider calls the Google Generative Language API directly.
type GeminiProvider struct {
	svc *generativelanguage.Service
}

func NewGeminiProvider(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GeminiProvider, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{svc: svc}, nil
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

func (p *GeminiProvider) Complete(ctx context.Context, req Completion) (string, error) {
	genReq := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{Role: "user", Parts: []*generativelanguage.Part{{Text: req.User}}},
		},
		GenerationConfig: &generativelanguage.GenerationConfig{Temperature: float64(req.Temperature)},
	}
	if req.System != "" {
		genReq.SystemInstruction = &generativelanguage.Content{Parts: []*generativelanguage.Part{{Text: req.System}}}
	}
	if req.JSON {
		genReq.GenerationConfig.ResponseMimeType = "application/json"
	}

	model := req.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	resp, err := p.svc.Models.GenerateContent(model, genReq).Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			return "", &StatusError{Provider: ProviderGemini, Code: gErr.Code, Err: err}
		}
		return "", err
	}

	var sb strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		break
	}
	return strings.TrimSpace(sb.String()), nil
}
