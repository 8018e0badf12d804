package mailer

import (
	"testing"
	"time"

	"scriptgo/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposer_ScriptEmail(t *testing.T) {
	content := "## Hook\n\nStop **scrolling**."
	s := &model.Script{ID: "abc-123", Title: `Remote "work"`, Platform: model.PlatformLinkedIn, Content: &content}

	msg, err := NewComposer("https://scriptgo.example/").ScriptEmail("alice@example.com", s)

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, `Your Script: Remote "work"`, msg.Subject)
	assert.Equal(t, "abc-123", msg.ScriptID)
	assert.Contains(t, msg.HTML, "<h2>Hook</h2>")
	assert.Contains(t, msg.HTML, "<strong>scrolling</strong>")
	assert.Contains(t, msg.HTML, "https://scriptgo.example/editor?id=abc-123")
	assert.Contains(t, msg.HTML, "View in Editor")
	assert.Contains(t, msg.HTML, "Remote &#34;work&#34;")
	assert.Contains(t, msg.HTML, "ScriptGo Studio. All rights reserved.")
}

func TestComposer_EditorLink(t *testing.T) {
	c := NewComposer("https://scriptgo.example")
	assert.Equal(t, "https://scriptgo.example/editor?id=s-1", c.EditorLink("s-1"))
	assert.Equal(t, "https://scriptgo.example/dashboard", c.EditorLink(""))
}

func TestComposer_CampaignEmail(t *testing.T) {
	d1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	scripts := []*model.Script{
		{ID: "p1", Title: "Kickoff", Platform: model.PlatformYouTube, ScheduledDate: &d1},
		{ID: "p2", Title: "Follow up", Platform: model.PlatformYouTube, ScheduledDate: &d2},
	}

	msg, err := NewComposer("https://scriptgo.example").CampaignEmail("alice@example.com", scripts)

	require.NoError(t, err)
	assert.Equal(t, "Your 2-day campaign is ready", msg.Subject)
	assert.Contains(t, msg.HTML, "Mar 1")
	assert.Contains(t, msg.HTML, "Mar 2")
	assert.Contains(t, msg.HTML, "Kickoff")
	assert.Contains(t, msg.HTML, "https://scriptgo.example/planner")

	_, err = NewComposer("x").CampaignEmail("alice@example.com", nil)
	assert.Error(t, err)
}
