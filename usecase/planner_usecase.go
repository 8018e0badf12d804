package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scriptgo/domain/dto"
	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/clients/llm"
	"scriptgo/infrastructure/logger"
)

const (
	DefaultPlannerLanguage  = "English"
	DefaultPlannerFramework = "AIDA"
	DefaultPlannerDays      = 7
	MaxPlannerDays          = 30
)

type IPlannerUsecase interface {
	Generate(ctx context.Context, p model.Principal, req dto.PlannerRequest) ([]*model.Script, error)
	List(ctx context.Context, p model.Principal) ([]*model.Script, error)
}

type plannerUsecase struct {
	ScriptDeps
}

func NewPlannerUsecase(deps ScriptDeps) IPlannerUsecase {
	return &plannerUsecase{ScriptDeps: deps}
}

// Generate asks for a campaign and stores exactly req.Days rows, one per calendar day.
func (u *plannerUsecase) Generate(ctx context.Context, p model.Principal, req dto.PlannerRequest) ([]*model.Script, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	brief, start, err := plannerBrief(req)
	if err != nil {
		return nil, err
	}

	prompt := BuildPlannerPrompt(brief)
	res, err := u.Generator.Generate(ctx, llm.Completion{
		System:      prompt.System,
		User:        prompt.User,
		Temperature: u.Temperature,
		JSON:        true,
	})
	u.recordAttempts(ctx, p.UserID, res)
	if err != nil {
		return nil, err
	}

	entries, err := ParsePlannerResponse(res.Text)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("provider", res.Provider).Warn("Unusable planner reply")
		return nil, err
	}
	scripts, err := campaignRows(p.UserID, brief, start, entries)
	if err != nil {
		return nil, err
	}
	if err := u.Scripts.InsertBatch(ctx, scripts); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(scripts))
	for _, s := range scripts {
		ids = append(ids, s.ID)
	}
	logger.GetLogger().
		WithField("user_id", p.UserID).
		WithField("days", brief.Days).
		WithField("provider", res.Provider).
		Info("Campaign generated")

	afterWrite(ctx, u.ScriptDeps, p.UserID, model.EventPlannerCreated, ids...)
	if req.SendEmail {
		u.notifyCampaign(ctx, p, scripts)
	}
	return scripts, nil
}

func (u *plannerUsecase) List(ctx context.Context, p model.Principal) ([]*model.Script, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	return cachedList(ctx, u.ScriptDeps, p.UserID, repository.CacheViewPlanner, repository.ListFilter{ScheduledOnly: true})
}

func (u *plannerUsecase) recordAttempts(ctx context.Context, userID string, res *llm.Result) {
	recordAttempts(ctx, u.GenerationLog, userID, model.GenerationKindPlanner, res)
}

func (u *plannerUsecase) notifyCampaign(ctx context.Context, p model.Principal, scripts []*model.Script) {
	if u.Notifier == nil || u.Composer == nil || p.Email == "" {
		return
	}
	msg, err := u.Composer.CampaignEmail(p.Email, scripts)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to render campaign email")
		return
	}
	u.Notifier.Notify(ctx, msg)
}

func plannerBrief(req dto.PlannerRequest) (CampaignBrief, time.Time, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" || strings.TrimSpace(req.Platform) == "" || strings.TrimSpace(req.Tone) == "" || strings.TrimSpace(req.StartDate) == "" {
		return CampaignBrief{}, time.Time{}, ErrMissingFields
	}
	platform, err := model.ParsePlatform(req.Platform)
	if err != nil {
		return CampaignBrief{}, time.Time{}, validationError("Unsupported platform %q", req.Platform)
	}
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(req.StartDate))
	if err != nil {
		return CampaignBrief{}, time.Time{}, validationError("Invalid start date %q, expected YYYY-MM-DD", req.StartDate)
	}

	days := req.Days
	if days == 0 {
		days = DefaultPlannerDays
	}
	if days < 1 || days > MaxPlannerDays {
		return CampaignBrief{}, time.Time{}, validationError("Days must be between 1 and %d", MaxPlannerDays)
	}

	brief := CampaignBrief{
		Topic:     topic,
		Platform:  platform,
		Tone:      req.Tone,
		Language:  firstNonEmpty(req.Language, DefaultPlannerLanguage),
		Framework: firstNonEmpty(req.Framework, DefaultPlannerFramework),
		Days:      days,
	}
	if platform == model.PlatformYouTube {
		brief.Length = strings.TrimSpace(req.Length)
	}
	return brief, start, nil
}

// campaignRows keeps the first brief.Days entries that have content and dates them from start.
func campaignRows(userID string, brief CampaignBrief, start time.Time, entries []PlannedEntry) ([]*model.Script, error) {
	usable := make([]PlannedEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Content) != "" {
			usable = append(usable, e)
		}
	}
	if len(usable) == 0 {
		return nil, ErrPlannerEmpty
	}
	if len(usable) < brief.Days {
		return nil, validationError("AI returned %d of %d days. Please try again.", len(usable), brief.Days)
	}

	rows := make([]*model.Script, 0, brief.Days)
	for i, e := range usable[:brief.Days] {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = fmt.Sprintf("%s - Day %d", brief.Topic, i+1)
		}
		content := e.Content
		day := start.AddDate(0, 0, i)
		rows = append(rows, &model.Script{
			UserID:        userID,
			Title:         title,
			Platform:      brief.Platform,
			Tone:          brief.Tone,
			Language:      brief.Language,
			Framework:     brief.Framework,
			Length:        brief.Length,
			Content:       &content,
			ScheduledDate: &day,
		})
	}
	return rows, nil
}

func firstNonEmpty(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}
