package model

import "time"

const (
	EventScriptCreated  = "script.created"
	EventScriptUpdated  = "script.updated"
	EventScriptDeleted  = "script.deleted"
	EventPlannerCreated = "planner.created"
)

// ScriptEvent is pushed to a user's realtime subscribers after a write.
type ScriptEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	ScriptIDs []string  `json:"script_ids"`
	At        time.Time `json:"at"`
}

// EmailMessage is a rendered notification waiting to be delivered.
type EmailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
	ScriptID string `json:"script_id,omitempty"`
}
