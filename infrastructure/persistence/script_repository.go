package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"scriptgo/domain/model"
	"scriptgo/domain/repository"

	"github.com/google/uuid"
)

const scriptColumns = `id, user_id, title, platform, tone, language, framework, length, content, scheduled_date, created_at`

// ScriptRepository stores scripts in PostgreSQL using database/sql.
type ScriptRepository struct {
	db *sql.DB
}

func NewScriptRepository(db *sql.DB) repository.IScript { return &ScriptRepository{db: db} }

// prepareScript assigns id and created_at to rows that do not have them yet.
func prepareScript(s *model.Script, now time.Time) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
}

func (r *ScriptRepository) Insert(ctx context.Context, s *model.Script) error {
	prepareScript(s, time.Now().UTC())
	_, err := r.db.ExecContext(ctx, `INSERT INTO scripts (`+scriptColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`, scriptArgs(s)...)
	if err != nil {
		return fmt.Errorf("insert script: %w", err)
	}
	return nil
}

func (r *ScriptRepository) InsertBatch(ctx context.Context, scripts []*model.Script) (err error) {
	if len(scripts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scripts (`+scriptColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	now := time.Now().UTC()
	for _, s := range scripts {
		prepareScript(s, now)
		if _, err = stmt.ExecContext(ctx, scriptArgs(s)...); err != nil {
			return fmt.Errorf("insert planner script: %w", err)
		}
	}
	return tx.Commit()
}

func (r *ScriptRepository) Update(ctx context.Context, s *model.Script) error {
	res, err := r.db.ExecContext(ctx, `UPDATE scripts SET title=$1, platform=$2, tone=$3, language=$4, framework=$5, length=$6, content=$7
WHERE id=$8 AND user_id=$9`,
		s.Title, string(s.Platform), nullString(s.Tone), nullString(s.Language), nullString(s.Framework), nullString(s.Length), s.Content, s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("update script: %w", err)
	}
	return expectAffected(res)
}

func (r *ScriptRepository) UpdateContent(ctx context.Context, userID, id, content string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE scripts SET content=$1 WHERE id=$2 AND user_id=$3`, content, id, userID)
	if err != nil {
		return fmt.Errorf("save script: %w", err)
	}
	return expectAffected(res)
}

func (r *ScriptRepository) GetByID(ctx context.Context, userID, id string) (*model.Script, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scriptColumns+` FROM scripts WHERE id=$1 AND user_id=$2`, id, userID)
	s, err := scanScript(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrScriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get script: %w", err)
	}
	return s, nil
}

func (r *ScriptRepository) GetByIDs(ctx context.Context, userID string, ids []string) ([]*model.Script, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := []interface{}{userID}
	q := `SELECT ` + scriptColumns + ` FROM scripts WHERE user_id=$1 AND id IN (` + placeholders(2, len(ids), "$") + `) ORDER BY created_at DESC`
	for _, id := range ids {
		args = append(args, id)
	}
	return r.query(ctx, q, args...)
}

func (r *ScriptRepository) List(ctx context.Context, userID string, filter repository.ListFilter) ([]*model.Script, error) {
	q := `SELECT ` + scriptColumns + ` FROM scripts WHERE user_id=$1 ORDER BY created_at DESC`
	if filter.ScheduledOnly {
		q = `SELECT ` + scriptColumns + ` FROM scripts WHERE user_id=$1 AND scheduled_date IS NOT NULL ORDER BY scheduled_date ASC, created_at ASC`
	}
	return r.query(ctx, q, userID)
}

func (r *ScriptRepository) Count(ctx context.Context, userID string) (model.ScriptStats, error) {
	var stats model.ScriptStats
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(scheduled_date) FROM scripts WHERE user_id=$1`, userID)
	if err := row.Scan(&stats.Total, &stats.Planned); err != nil {
		return stats, fmt.Errorf("count scripts: %w", err)
	}
	return stats, nil
}

func (r *ScriptRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scripts WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	return expectAffected(res)
}

func (r *ScriptRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []interface{}{userID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM scripts WHERE user_id=$1 AND id IN (`+placeholders(2, len(ids), "$")+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete scripts: %w", err)
	}
	return res.RowsAffected()
}

func (r *ScriptRepository) query(ctx context.Context, q string, args ...interface{}) ([]*model.Script, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()
	var list []*model.Script
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScript(row rowScanner) (*model.Script, error) {
	s := &model.Script{}
	var platform string
	var tone, language, framework, length, content sql.NullString
	var scheduled sql.NullTime
	if err := row.Scan(&s.ID, &s.UserID, &s.Title, &platform, &tone, &language, &framework, &length, &content, &scheduled, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Platform = model.Platform(platform)
	s.Tone, s.Language, s.Framework, s.Length = tone.String, language.String, framework.String, length.String
	if content.Valid {
		s.Content = &content.String
	}
	if scheduled.Valid {
		d := scheduled.Time.UTC()
		s.ScheduledDate = &d
	}
	return s, nil
}

func scriptArgs(s *model.Script) []interface{} {
	var scheduled interface{}
	if s.ScheduledDate != nil {
		scheduled = s.ScheduledDate.Format(time.DateOnly)
	}
	return []interface{}{
		s.ID, s.UserID, s.Title, string(s.Platform),
		nullString(s.Tone), nullString(s.Language), nullString(s.Framework), nullString(s.Length),
		s.Content, scheduled, s.CreatedAt,
	}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// placeholders renders n bind parameters starting at index start, e.g. "$2,$3" or "@p2,@p3".
func placeholders(start, n int, prefix string) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%s%d", prefix, start+i)
	}
	return strings.Join(parts, ",")
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrScriptNotFound
	}
	return nil
}
