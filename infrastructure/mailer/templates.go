package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"scriptgo/domain/model"

	"github.com/google/go-querystring/query"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

const brand = "ScriptGo Studio"

// editorQuery is the query string of the editor deep link.
type editorQuery struct {
	ID string `url:"id"`
}

func markdown(content string) template.HTML {
	var buf strings.Builder
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return template.HTML("<p>Error rendering markdown</p>")
	}
	return template.HTML(buf.String())
}

func page(body string) *template.Template {
	return template.Must(template.New("").
		Funcs(template.FuncMap{"markdown": markdown}).
		ParseFS(templateFS, "templates/layout.html", "templates/"+body))
}

// Composer renders notification emails in the shared layout.
type Composer struct {
	siteURL  string
	script   *template.Template
	campaign *template.Template
}

func NewComposer(siteURL string) *Composer {
	return &Composer{
		siteURL:  strings.TrimRight(siteURL, "/"),
		script:   page("script.html"),
		campaign: page("campaign.html"),
	}
}

// EditorLink points at the editor with the script preloaded.
func (c *Composer) EditorLink(scriptID string) string {
	if scriptID == "" {
		return c.siteURL + "/dashboard"
	}
	v, err := query.Values(editorQuery{ID: scriptID})
	if err != nil {
		return c.siteURL + "/dashboard"
	}
	return c.siteURL + "/editor?" + v.Encode()
}

func (c *Composer) ScriptEmail(to string, s *model.Script) (model.EmailMessage, error) {
	data := map[string]interface{}{
		"Brand":    brand,
		"Year":     time.Now().Year(),
		"Title":    s.Title,
		"Platform": string(s.Platform),
		"Content":  s.Body(),
		"Link":     c.EditorLink(s.ID),
	}
	if s.ScheduledDate != nil {
		data["Scheduled"] = s.ScheduledDate.Format(time.DateOnly)
	}
	html, err := render(c.script, data)
	if err != nil {
		return model.EmailMessage{}, err
	}
	return model.EmailMessage{
		To:       to,
		Subject:  "Your Script: " + s.Title,
		HTML:     html,
		ScriptID: s.ID,
	}, nil
}

type campaignRow struct {
	Date  string
	Title string
	Link  string
}

func (c *Composer) CampaignEmail(to string, scripts []*model.Script) (model.EmailMessage, error) {
	if len(scripts) == 0 {
		return model.EmailMessage{}, fmt.Errorf("campaign email needs at least one script")
	}
	rows := make([]campaignRow, 0, len(scripts))
	for _, s := range scripts {
		row := campaignRow{Title: s.Title, Link: c.EditorLink(s.ID)}
		if s.ScheduledDate != nil {
			row.Date = s.ScheduledDate.Format("Jan 2")
		}
		rows = append(rows, row)
	}
	data := map[string]interface{}{
		"Brand":    brand,
		"Year":     time.Now().Year(),
		"Days":     len(scripts),
		"Platform": string(scripts[0].Platform),
		"From":     rows[0].Date,
		"To":       rows[len(rows)-1].Date,
		"Rows":     rows,
		"Link":     c.siteURL + "/planner",
	}
	html, err := render(c.campaign, data)
	if err != nil {
		return model.EmailMessage{}, err
	}
	return model.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("Your %d-day campaign is ready", len(scripts)),
		HTML:    html,
	}, nil
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
