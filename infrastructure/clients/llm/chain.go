package llm

import (
	"context"

	"scriptgo/infrastructure/configuration"
	"scriptgo/infrastructure/logger"
)

// NewProviders builds a provider for every backend that has credentials.
func NewProviders(ctx context.Context, cfg configuration.LLM, siteURL string) map[string]Provider {
	providers := map[string]Provider{}
	if cfg.HasKey(ProviderOpenAI) {
		providers[ProviderOpenAI] = NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	}
	if cfg.HasKey(ProviderOpenRouter) {
		providers[ProviderOpenRouter] = NewOpenRouterProvider(cfg.OpenRouterKey, cfg.OpenRouterBaseURL, siteURL, "ScriptGo")
	}
	if cfg.HasKey(ProviderGemini) {
		gemini, err := NewGeminiProvider(ctx, cfg.GeminiKey)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Gemini provider unavailable")
		} else {
			providers[ProviderGemini] = gemini
		}
	}
	return providers
}

// BuildTargets resolves a configured chain against the available providers, skipping
// steps whose provider is missing.
func BuildTargets(providers map[string]Provider, chain []configuration.ChainTarget) []Target {
	targets := make([]Target, 0, len(chain))
	for _, step := range chain {
		p, ok := providers[step.Provider]
		if !ok {
			logger.GetLogger().WithField("provider", step.Provider).WithField("model", step.Model).Info("Skipping chain step without credentials")
			continue
		}
		targets = append(targets, Target{Provider: p, Model: step.Model, JSONMode: step.JSONMode})
	}
	return targets
}
