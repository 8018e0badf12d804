package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"scriptgo/domain/dto"
	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/clients/llm"
	"scriptgo/infrastructure/logger"
)

type IScriptUsecase interface {
	Generate(ctx context.Context, p model.Principal, req dto.GenerateScriptRequest) (*model.Script, error)
	Save(ctx context.Context, p model.Principal, id, content string) error
	Get(ctx context.Context, p model.Principal, id string) (*model.Script, error)
	List(ctx context.Context, p model.Principal) ([]*model.Script, error)
	Delete(ctx context.Context, p model.Principal, id string) error
	DeleteMany(ctx context.Context, p model.Principal, ids []string) (int64, error)
	SendSelected(ctx context.Context, p model.Principal, ids []string) (int, error)
	Profile(ctx context.Context, p model.Principal) (*dto.ProfileResponse, error)
}

// ScriptDeps groups the collaborators shared by the script and planner use cases.
// Cache, GenerationLog, Hub, Notifier and Composer are optional.
type ScriptDeps struct {
	Scripts       repository.IScript
	Cache         repository.IScriptCache
	GenerationLog repository.IGenerationLog
	Generator     IGenerator
	Hub           IBroadcaster
	Notifier      INotifier
	Composer      IEmailComposer
	Temperature   float32
}

type scriptUsecase struct {
	ScriptDeps
}

func NewScriptUsecase(deps ScriptDeps) IScriptUsecase {
	return &scriptUsecase{ScriptDeps: deps}
}

func (u *scriptUsecase) Generate(ctx context.Context, p model.Principal, req dto.GenerateScriptRequest) (*model.Script, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" || strings.TrimSpace(req.Platform) == "" || strings.TrimSpace(req.Tone) == "" {
		return nil, ErrMissingFields
	}
	platform, err := model.ParsePlatform(req.Platform)
	if err != nil {
		return nil, validationError("Unsupported platform %q", req.Platform)
	}

	prompt := BuildScriptPrompt(ScriptBrief{
		Topic:          topic,
		Platform:       platform,
		Tone:           req.Tone,
		Language:       req.Language,
		Framework:      req.Framework,
		Length:         req.Length,
		Audience:       req.Audience,
		IncludeVisuals: req.IncludeVisuals,
	})
	res, err := u.Generator.Generate(ctx, llm.Completion{System: prompt.System, User: prompt.User, Temperature: u.Temperature})
	u.recordAttempts(ctx, p.UserID, model.GenerationKindScript, res)
	if err != nil {
		return nil, err
	}

	content := res.Text
	script := &model.Script{
		ID:        strings.TrimSpace(req.ID),
		UserID:    p.UserID,
		Title:     topic,
		Platform:  platform,
		Tone:      req.Tone,
		Language:  req.Language,
		Framework: req.Framework,
		Length:    req.Length,
		Content:   &content,
	}

	event := model.EventScriptCreated
	if script.ID != "" {
		if err := u.Scripts.Update(ctx, script); err != nil {
			return nil, storageError(err, "Script not found")
		}
		// Reload so created_at and scheduled_date come from the stored row.
		stored, err := u.Scripts.GetByID(ctx, p.UserID, script.ID)
		if err != nil {
			return nil, storageError(err, "Script not found")
		}
		script = stored
		event = model.EventScriptUpdated
	} else if err := u.Scripts.Insert(ctx, script); err != nil {
		return nil, err
	}

	logger.GetLogger().
		WithField("user_id", p.UserID).
		WithField("script_id", script.ID).
		WithField("provider", res.Provider).
		WithField("model", res.Model).
		Info("Script generated")

	u.afterWrite(ctx, p.UserID, event, script.ID)
	if req.SendEmail {
		u.notifyScript(ctx, p, script)
	}
	return script, nil
}

func (u *scriptUsecase) Save(ctx context.Context, p model.Principal, id, content string) error {
	if !p.Authenticated() {
		return ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return ErrMissingFields
	}
	if err := u.Scripts.UpdateContent(ctx, p.UserID, id, content); err != nil {
		return storageError(err, "Script not found")
	}
	u.afterWrite(ctx, p.UserID, model.EventScriptUpdated, id)
	return nil
}

func (u *scriptUsecase) Get(ctx context.Context, p model.Principal, id string) (*model.Script, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	script, err := u.Scripts.GetByID(ctx, p.UserID, id)
	if err != nil {
		return nil, storageError(err, "Script not found")
	}
	return script, nil
}

func (u *scriptUsecase) List(ctx context.Context, p model.Principal) ([]*model.Script, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	return cachedList(ctx, u.ScriptDeps, p.UserID, repository.CacheViewDashboard, repository.ListFilter{})
}

func (u *scriptUsecase) Delete(ctx context.Context, p model.Principal, id string) error {
	if !p.Authenticated() {
		return ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return ErrMissingFields
	}
	if err := u.Scripts.Delete(ctx, p.UserID, id); err != nil {
		return storageError(err, "Script not found")
	}
	u.afterWrite(ctx, p.UserID, model.EventScriptDeleted, id)
	return nil
}

func (u *scriptUsecase) DeleteMany(ctx context.Context, p model.Principal, ids []string) (int64, error) {
	if !p.Authenticated() {
		return 0, ErrUnauthorized
	}
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, validationError("No scripts selected")
	}
	n, err := u.Scripts.DeleteMany(ctx, p.UserID, ids)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, notFoundError("No scripts found")
	}
	u.afterWrite(ctx, p.UserID, model.EventScriptDeleted, ids...)
	return n, nil
}

// SendSelected queues one email per owned script and reports how many were queued.
func (u *scriptUsecase) SendSelected(ctx context.Context, p model.Principal, ids []string) (int, error) {
	if !p.Authenticated() {
		return 0, ErrUnauthorized
	}
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, validationError("No scripts selected")
	}
	if p.Email == "" {
		return 0, validationError("Your account has no email address")
	}
	scripts, err := u.Scripts.GetByIDs(ctx, p.UserID, ids)
	if err != nil {
		return 0, err
	}
	if len(scripts) == 0 {
		return 0, notFoundError("No scripts found")
	}
	for _, s := range scripts {
		u.notifyScript(ctx, p, s)
	}
	return len(scripts), nil
}

func (u *scriptUsecase) Profile(ctx context.Context, p model.Principal) (*dto.ProfileResponse, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	stats, err := u.Scripts.Count(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{
		UserID:       p.UserID,
		Email:        p.Email,
		ScriptCount:  stats.Total,
		PlannedCount: stats.Planned,
	}, nil
}

func (u *scriptUsecase) notifyScript(ctx context.Context, p model.Principal, s *model.Script) {
	if u.Notifier == nil || u.Composer == nil {
		return
	}
	msg, err := u.Composer.ScriptEmail(p.Email, s)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("script_id", s.ID).Error("Failed to render script email")
		return
	}
	u.Notifier.Notify(ctx, msg)
}

func (u *scriptUsecase) afterWrite(ctx context.Context, userID, event string, ids ...string) {
	afterWrite(ctx, u.ScriptDeps, userID, event, ids...)
}

func (u *scriptUsecase) recordAttempts(ctx context.Context, userID, kind string, res *llm.Result) {
	recordAttempts(ctx, u.GenerationLog, userID, kind, res)
}

// afterWrite drops cached listings and tells live sessions about the change.
func afterWrite(ctx context.Context, deps ScriptDeps, userID, event string, ids ...string) {
	if deps.Cache != nil {
		if err := deps.Cache.Invalidate(ctx, userID); err != nil {
			logger.GetLogger().WithError(err).WithField("user_id", userID).Warn("Failed to invalidate script cache")
		}
	}
	if deps.Hub != nil {
		deps.Hub.Broadcast(userID, model.ScriptEvent{Type: event, UserID: userID, ScriptIDs: ids, At: time.Now().UTC()})
	}
}

func cachedList(ctx context.Context, deps ScriptDeps, userID, view string, filter repository.ListFilter) ([]*model.Script, error) {
	lg := logger.GetLogger().WithField("user_id", userID).WithField("view", view)
	if deps.Cache != nil {
		list, ok, err := deps.Cache.GetList(ctx, userID, view)
		if err != nil {
			lg.WithError(err).Warn("Script cache read failed")
		} else if ok {
			return list, nil
		}
	}
	list, err := deps.Scripts.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if deps.Cache != nil {
		if err := deps.Cache.SetList(ctx, userID, view, list); err != nil {
			lg.WithError(err).Warn("Script cache write failed")
		}
	}
	return list, nil
}

func recordAttempts(ctx context.Context, log repository.IGenerationLog, userID, kind string, res *llm.Result) {
	if log == nil || res == nil || len(res.Attempts) == 0 {
		return
	}
	now := time.Now().UTC()
	rows := make([]model.GenerationAttempt, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		row := model.GenerationAttempt{
			UserID:     userID,
			Kind:       kind,
			Provider:   a.Provider,
			Model:      a.Model,
			Outcome:    a.Outcome.String(),
			StatusCode: a.StatusCode,
			LatencyMs:  a.Latency.Milliseconds(),
			CreatedAt:  now,
		}
		if a.Err != nil {
			row.Error = a.Err.Error()
		}
		rows = append(rows, row)
	}
	if err := log.Record(ctx, rows...); err != nil {
		logger.GetLogger().WithError(err).Warn("Failed to record generation attempts")
	}
}

// storageError turns a missing row into a user-facing not found error.
func storageError(err error, notFound string) error {
	if errors.Is(err, repository.ErrScriptNotFound) {
		return notFoundError(notFound)
	}
	return err
}

func compactIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
