package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"scriptgo/domain/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const scriptSystemPrompt = "You are a professional script writer."

// Prompt is the instruction pair sent to a provider.
type Prompt struct {
	System string
	User   string
}

// ScriptBrief describes a single script request.
type ScriptBrief struct {
	Topic          string
	Platform       model.Platform
	Tone           string
	Language       string
	Framework      string
	Length         string
	Audience       string
	IncludeVisuals bool
}

// CampaignBrief describes a planner request.
type CampaignBrief struct {
	Topic     string
	Platform  model.Platform
	Tone      string
	Language  string
	Framework string
	Length    string
	Days      int
}

// displayTone title-cases a tone. Casers hold state, so each call gets its own.
func displayTone(tone string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(tone)))
}

// BuildScriptPrompt assembles the instructions for one script.
func BuildScriptPrompt(b ScriptBrief) Prompt {
	var sb strings.Builder
	tone := displayTone(b.Tone)
	switch b.Platform {
	case model.PlatformLinkedIn:
		fmt.Fprintf(&sb, "Write a structured LinkedIn post about %q.\nTone: %s.\n", b.Topic, tone)
		sb.WriteString("Structure:\n- Hook (catchy opening)\n- Short story / insight\n- Clear CTA\n- Relevant hashtags\n")
	case model.PlatformInstagram:
		fmt.Fprintf(&sb, "Write an Instagram reel script and caption about %q.\nTone: %s.\n", b.Topic, tone)
		sb.WriteString("Structure:\n- Scroll-stopping hook (first 3 seconds)\n- Value / story beats\n- Clear CTA\n- Caption with relevant hashtags\n")
	default:
		fmt.Fprintf(&sb, "Write a YouTube script about %q.\nTone: %s.\n", b.Topic, tone)
		if b.Length != "" {
			fmt.Fprintf(&sb, "Target length: %s.\n", b.Length)
		}
		sb.WriteString("Structure:\n- Hook\n- Intro\n- Main points\n- Outro + CTA\n")
	}
	if b.Language != "" {
		fmt.Fprintf(&sb, "Write in %s.\n", b.Language)
	}
	if b.Framework != "" {
		fmt.Fprintf(&sb, "Follow the %s copywriting framework.\n", b.Framework)
	}
	if b.Audience != "" {
		fmt.Fprintf(&sb, "Target audience: %s.\n", b.Audience)
	}
	if b.IncludeVisuals {
		sb.WriteString("Include visual and B-roll cues in [brackets].\n")
	}
	return Prompt{System: scriptSystemPrompt, User: strings.TrimRight(sb.String(), "\n")}
}

// BuildPlannerPrompt assembles the instructions for a content calendar.
func BuildPlannerPrompt(b CampaignBrief) Prompt {
	system := fmt.Sprintf("You are a world-class content strategist and professional script writer.\n"+
		"You specialize in creating high-conversion, viral content calendars for social media.\n"+
		"You speak native-level %s and specialize in the %s marketing framework.", b.Language, b.Framework)

	length := "Standard post length"
	if b.Platform == model.PlatformYouTube && b.Length != "" {
		length = b.Length
	}
	tone := displayTone(b.Tone)
	user := fmt.Sprintf("Generate a %d-day content calendar about %q for %s.\n"+
		"Tone: %s.\n"+
		"Marketing Framework: %s.\n"+
		"Language: %s.\n"+
		"Target Duration/Length: %s.\n\n"+
		"For each day, provide:\n"+
		"1. A compelling Title\n"+
		"2. A full script/post content that follows the %s framework and matches the %s tone perfectly.\n\n"+
		"Format the output as a JSON object with a \"scripts\" key containing an array of objects.\n"+
		"Each object in the array should have: \"day\" (1 to %d), \"title\", and \"content\".",
		b.Days, b.Topic, b.Platform, tone, b.Framework, b.Language, length, b.Framework, tone, b.Days)
	return Prompt{System: system, User: user}
}

// PlannedEntry is one day of a generated calendar.
type PlannedEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

var (
	ErrPlannerUnparsable = errors.New("Failed to parse AI response as JSON")
	ErrPlannerEmpty      = &UserError{Kind: ErrValidation, Message: "AI did not return any scripts. Try a more specific topic."}
)

var codeFence = regexp.MustCompile("(?i)```(?:json)?\\s*")

// ParsePlannerResponse accepts {"scripts":[...]} or a bare array, optionally wrapped in a Markdown fence.
func ParsePlannerResponse(raw string) ([]PlannedEntry, error) {
	clean := strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))
	if clean == "" {
		return nil, ErrPlannerEmpty
	}

	var entries []PlannedEntry
	if strings.HasPrefix(clean, "[") {
		if err := json.Unmarshal([]byte(clean), &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPlannerUnparsable, err)
		}
	} else {
		var wrapped struct {
			Scripts []PlannedEntry `json:"scripts"`
		}
		if err := json.Unmarshal([]byte(clean), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPlannerUnparsable, err)
		}
		entries = wrapped.Scripts
	}
	if len(entries) == 0 {
		return nil, ErrPlannerEmpty
	}
	return entries, nil
}
