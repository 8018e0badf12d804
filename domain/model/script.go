package model

import (
	"fmt"
	"strings"
	"time"
)

type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformInstagram Platform = "Instagram"
)

// Platforms lists the supported platforms in display order.
var Platforms = []Platform{PlatformLinkedIn, PlatformInstagram, PlatformYouTube}

// ParsePlatform matches a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q", s)
}

// Script is a single generated or hand-edited piece of content owned by one user.
// ScheduledDate is only set for planner rows.
type Script struct {
	ID            string     `json:"id"             gorm:"primaryKey;type:varchar(36)"`
	UserID        string     `json:"user_id"        gorm:"type:varchar(64);index;not null"`
	Title         string     `json:"title"          gorm:"type:varchar(512);not null"`
	Platform      Platform   `json:"platform"       gorm:"type:varchar(32);not null"`
	Tone          string     `json:"tone"           gorm:"type:varchar(64)"`
	Language      string     `json:"language"       gorm:"type:varchar(64)"`
	Framework     string     `json:"framework"      gorm:"type:varchar(64)"`
	Length        string     `json:"length"         gorm:"type:varchar(64)"`
	Content       *string    `json:"content"        gorm:"type:text"`
	ScheduledDate *time.Time `json:"scheduled_date" gorm:"type:date;index"`
	CreatedAt     time.Time  `json:"created_at"     gorm:"autoCreateTime;index"`
}

func (Script) TableName() string { return "scripts" }

// IsPlanned reports whether the script belongs to a planner campaign.
func (s *Script) IsPlanned() bool { return s.ScheduledDate != nil }

// Body returns the content or an empty string.
func (s *Script) Body() string {
	if s.Content == nil {
		return ""
	}
	return *s.Content
}

// ScriptStats summarises a user's library for the profile page.
type ScriptStats struct {
	Total   int `json:"total"`
	Planned int `json:"planned"`
}
