package usecase_test

import (
	"errors"
	"strings"
	"testing"

	"scriptgo/domain/model"
	"scriptgo/usecase"

	qt "github.com/frankban/quicktest"
)

func TestBuildScriptPrompt_LinkedIn(t *testing.T) {
	c := qt.New(t)
	p := usecase.BuildScriptPrompt(usecase.ScriptBrief{
		Topic:    "remote work",
		Platform: model.PlatformLinkedIn,
		Tone:     "professional",
		Language: "Spanish",
	})

	c.Assert(p.System, qt.Equals, "You are a professional script writer.")
	c.Assert(p.User, qt.Contains, `LinkedIn post about "remote work"`)
	c.Assert(p.User, qt.Contains, "Tone: Professional.")
	c.Assert(p.User, qt.Contains, "Hook (catchy opening)")
	c.Assert(p.User, qt.Contains, "Relevant hashtags")
	c.Assert(p.User, qt.Contains, "Write in Spanish.")
	c.Assert(strings.Contains(p.User, "B-roll"), qt.IsFalse)
}

func TestBuildScriptPrompt_YouTubeWithExtras(t *testing.T) {
	c := qt.New(t)
	p := usecase.BuildScriptPrompt(usecase.ScriptBrief{
		Topic:          "home espresso",
		Platform:       model.PlatformYouTube,
		Tone:           "CASUAL",
		Length:         "5 minutes",
		Framework:      "PAS",
		Audience:       "coffee beginners",
		IncludeVisuals: true,
	})

	c.Assert(p.User, qt.Contains, "Tone: Casual.")
	c.Assert(p.User, qt.Contains, "Target length: 5 minutes.")
	c.Assert(p.User, qt.Contains, "Outro + CTA")
	c.Assert(p.User, qt.Contains, "PAS copywriting framework")
	c.Assert(p.User, qt.Contains, "Target audience: coffee beginners.")
	c.Assert(p.User, qt.Contains, "[brackets]")
}

func TestBuildScriptPrompt_Instagram(t *testing.T) {
	c := qt.New(t)
	p := usecase.BuildScriptPrompt(usecase.ScriptBrief{Topic: "plants", Platform: model.PlatformInstagram, Tone: "fun"})
	c.Assert(p.User, qt.Contains, "Instagram reel script")
	c.Assert(p.User, qt.Contains, "Caption with relevant hashtags")
}

func TestBuildPlannerPrompt(t *testing.T) {
	c := qt.New(t)
	p := usecase.BuildPlannerPrompt(usecase.CampaignBrief{
		Topic:     "fitness",
		Platform:  model.PlatformLinkedIn,
		Tone:      "motivational",
		Language:  "German",
		Framework: "AIDA",
		Length:    "ignored",
		Days:      5,
	})

	c.Assert(p.System, qt.Contains, "native-level German")
	c.Assert(p.System, qt.Contains, "the AIDA marketing framework")
	c.Assert(p.User, qt.Contains, `Generate a 5-day content calendar about "fitness" for LinkedIn.`)
	c.Assert(p.User, qt.Contains, "Tone: Motivational.")
	c.Assert(p.User, qt.Contains, "Target Duration/Length: Standard post length.")
	c.Assert(p.User, qt.Contains, `"day" (1 to 5)`)
}

func TestBuildPlannerPrompt_YouTubeLength(t *testing.T) {
	c := qt.New(t)
	p := usecase.BuildPlannerPrompt(usecase.CampaignBrief{Topic: "t", Platform: model.PlatformYouTube, Length: "60 seconds", Days: 3})
	c.Assert(p.User, qt.Contains, "Target Duration/Length: 60 seconds.")
}

func TestParsePlannerResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		count int
		first string
	}{
		{"object", `{"scripts":[{"day":1,"title":"A","content":"a"},{"day":2,"title":"B","content":"b"}]}`, 2, "A"},
		{"bare array", `[{"day":1,"title":"Only","content":"x"}]`, 1, "Only"},
		{"fenced", "```json\n{\"scripts\":[{\"title\":\"F\",\"content\":\"f\"}]}\n```", 1, "F"},
		{"fenced uppercase", "```JSON\n[{\"title\":\"U\",\"content\":\"u\"}]```", 1, "U"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			entries, err := usecase.ParsePlannerResponse(tt.raw)
			c.Assert(err, qt.IsNil)
			c.Assert(entries, qt.HasLen, tt.count)
			c.Assert(entries[0].Title, qt.Equals, tt.first)
		})
	}
}

func TestParsePlannerResponse_Failures(t *testing.T) {
	c := qt.New(t)

	_, err := usecase.ParsePlannerResponse("Sure! Here is your plan")
	c.Assert(errors.Is(err, usecase.ErrPlannerUnparsable), qt.IsTrue)

	_, err = usecase.ParsePlannerResponse(`{"scripts":[]}`)
	c.Assert(errors.Is(err, usecase.ErrValidation), qt.IsTrue)
	c.Assert(err.Error(), qt.Equals, "AI did not return any scripts. Try a more specific topic.")

	_, err = usecase.ParsePlannerResponse("```json\n```")
	c.Assert(errors.Is(err, usecase.ErrValidation), qt.IsTrue)
}
