package model

import "time"

const (
	GenerationKindScript  = "script"
	GenerationKindPlanner = "planner"
)

// GenerationAttempt is one provider call made while generating content.
type GenerationAttempt struct {
	UserID     string    `json:"user_id"     bson:"userId"`
	Kind       string    `json:"kind"        bson:"kind"`
	Provider   string    `json:"provider"    bson:"provider"`
	Model      string    `json:"model"       bson:"model"`
	Outcome    string    `json:"outcome"     bson:"outcome"` // success | retryable | fatal
	StatusCode int       `json:"status_code" bson:"statusCode"`
	Error      string    `json:"error"       bson:"error,omitempty"`
	LatencyMs  int64     `json:"latency_ms"  bson:"latencyMs"`
	CreatedAt  time.Time `json:"created_at"  bson:"createdAt"`
}
