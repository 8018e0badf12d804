package configuration

import (
	"os"
	"strconv"
)

// LLM holds provider credentials and the fallback chains used for generation.
type LLM struct {
	OpenAIKey         string        `json:"openaiKey"`
	OpenAIBaseURL     string        `json:"openaiBaseUrl"`
	OpenRouterKey     string        `json:"openrouterKey"`
	OpenRouterBaseURL string        `json:"openrouterBaseUrl"`
	GeminiKey         string        `json:"geminiKey"`
	TimeoutSeconds    int           `json:"timeoutSeconds"`
	Temperature       float32       `json:"temperature"`
	ScriptChain       []ChainTarget `json:"scriptChain"`
	PlannerChain      []ChainTarget `json:"plannerChain"`
}

// ChainTarget names one step of a fallback chain.
type ChainTarget struct {
	Provider string `json:"provider"` // openai | openrouter | gemini
	Model    string `json:"model"`
	JSONMode bool   `json:"jsonMode"`
}

// DefaultScriptChain is tried in order for single script generation.
func DefaultScriptChain() []ChainTarget {
	return []ChainTarget{
		{Provider: "openai", Model: "gpt-3.5-turbo"},
		{Provider: "openrouter", Model: "google/gemini-2.0-flash-exp:free"},
		{Provider: "gemini", Model: "gemini-1.5-flash"},
	}
}

// DefaultPlannerChain is tried in order for planner campaigns.
func DefaultPlannerChain() []ChainTarget {
	return []ChainTarget{
		{Provider: "openrouter", Model: "google/gemini-2.0-flash-exp:free", JSONMode: true},
		{Provider: "openrouter", Model: "google/gemini-flash-1.5-exp:free", JSONMode: true},
		{Provider: "openrouter", Model: "meta-llama/llama-3.1-8b-instruct:free"},
	}
}

func initLLM(C *Config) {
	C.LLM.OpenAIKey = getConfigValue(C.LLM.OpenAIKey, "OPENAI_API_KEY", "")
	C.LLM.OpenAIBaseURL = getConfigValue(C.LLM.OpenAIBaseURL, "OPENAI_BASE_URL", "")
	C.LLM.OpenRouterKey = getConfigValue(C.LLM.OpenRouterKey, "OPENROUTER_API_KEY", "")
	C.LLM.OpenRouterBaseURL = getConfigValue(C.LLM.OpenRouterBaseURL, "OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	C.LLM.GeminiKey = getConfigValue(C.LLM.GeminiKey, "GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY"))
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.LLM.TimeoutSeconds = n
		}
	}
	if C.LLM.TimeoutSeconds <= 0 {
		C.LLM.TimeoutSeconds = 60
	}
	if C.LLM.Temperature == 0 {
		C.LLM.Temperature = 0.7
	}
	if len(C.LLM.ScriptChain) == 0 {
		C.LLM.ScriptChain = DefaultScriptChain()
	}
	if len(C.LLM.PlannerChain) == 0 {
		C.LLM.PlannerChain = DefaultPlannerChain()
	}
}

// HasKey reports whether credentials exist for the named provider.
func (l LLM) HasKey(provider string) bool {
	switch provider {
	case "openai":
		return l.OpenAIKey != ""
	case "openrouter":
		return l.OpenRouterKey != ""
	case "gemini":
		return l.GeminiKey != ""
	}
	return false
}
