package dto

import (
	"time"

	"scriptgo/domain/model"
)

// Res is the envelope used by the auth middleware.
type Res struct {
	ResponseCode    string      `json:"responseCode"`
	ResponseMessage string      `json:"responseMessage"`
	Data            interface{} `json:"data,omitempty"`
}

// GenerateScriptRequest is the editor form. ID is set when regenerating an existing script.
type GenerateScriptRequest struct {
	ID             string `json:"id"              form:"id"`
	Topic          string `json:"topic"           form:"topic"`
	Platform       string `json:"platform"        form:"platform"`
	Tone           string `json:"tone"            form:"tone"`
	Language       string `json:"language"        form:"language"`
	Framework      string `json:"framework"       form:"framework"`
	Length         string `json:"length"          form:"length"`
	Audience       string `json:"audience"        form:"audience"`
	IncludeVisuals bool   `json:"include_visuals" form:"include_visuals"`
	SendEmail      bool   `json:"send_email"      form:"send_email"`
}

// PlannerRequest asks for a campaign of Days scripts starting at StartDate (YYYY-MM-DD).
type PlannerRequest struct {
	Topic     string `json:"topic"      form:"topic"`
	Platform  string `json:"platform"   form:"platform"`
	Tone      string `json:"tone"       form:"tone"`
	Language  string `json:"language"   form:"language"`
	Framework string `json:"framework"  form:"framework"`
	Length    string `json:"length"     form:"length"`
	Days      int    `json:"days"       form:"days"`
	StartDate string `json:"start_date" form:"start_date"`
	SendEmail bool   `json:"send_email" form:"send_email"`
}

type SaveScriptRequest struct {
	Content string `json:"content" binding:"required"`
}

type ScriptIDsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// ScriptResponse renders scheduled_date as a calendar day.
type ScriptResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Platform      string    `json:"platform"`
	Tone          string    `json:"tone,omitempty"`
	Language      string    `json:"language,omitempty"`
	Framework     string    `json:"framework,omitempty"`
	Length        string    `json:"length,omitempty"`
	Content       *string   `json:"content"`
	ScheduledDate *string   `json:"scheduled_date"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewScriptResponse(s *model.Script) ScriptResponse {
	res := ScriptResponse{
		ID:        s.ID,
		Title:     s.Title,
		Platform:  string(s.Platform),
		Tone:      s.Tone,
		Language:  s.Language,
		Framework: s.Framework,
		Length:    s.Length,
		Content:   s.Content,
		CreatedAt: s.CreatedAt,
	}
	if s.ScheduledDate != nil {
		day := s.ScheduledDate.Format(time.DateOnly)
		res.ScheduledDate = &day
	}
	return res
}

func NewScriptResponses(list []*model.Script) []ScriptResponse {
	out := make([]ScriptResponse, 0, len(list))
	for _, s := range list {
		out = append(out, NewScriptResponse(s))
	}
	return out
}

// ProfileResponse backs the profile page.
type ProfileResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	ScriptCount  int    `json:"script_count"`
	PlannedCount int    `json:"planned_count"`
}
