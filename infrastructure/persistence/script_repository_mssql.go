package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/logger"
)

// ScriptRepositoryMSSQL implements script persistence for SQL Server/Azure SQL using database/sql.
type ScriptRepositoryMSSQL struct{ db *sql.DB }

func NewScriptRepositoryMSSQL(db *sql.DB) repository.IScript { return &ScriptRepositoryMSSQL{db: db} }

const insertScriptMSSQL = `INSERT INTO dbo.[scripts] (` + scriptColumns + `)
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11)`

func (r *ScriptRepositoryMSSQL) Insert(ctx context.Context, s *model.Script) error {
	prepareScript(s, time.Now().UTC())
	if _, err := r.db.ExecContext(ctx, insertScriptMSSQL, scriptArgs(s)...); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while inserting script")
		return fmt.Errorf("insert script: %w", err)
	}
	return nil
}

func (r *ScriptRepositoryMSSQL) InsertBatch(ctx context.Context, scripts []*model.Script) (err error) {
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
	now := time.Now().UTC()
	for _, s := range scripts {
		prepareScript(s, now)
		if _, err = tx.ExecContext(ctx, insertScriptMSSQL, scriptArgs(s)...); err != nil {
			return fmt.Errorf("insert planner script: %w", err)
		}
	}
	return tx.Commit()
}

func (r *ScriptRepositoryMSSQL) Update(ctx context.Context, s *model.Script) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dbo.[scripts] SET title=@p1, platform=@p2, tone=@p3, language=@p4, framework=@p5, length=@p6, content=@p7
WHERE id=@p8 AND user_id=@p9`,
		s.Title, string(s.Platform), nullString(s.Tone), nullString(s.Language), nullString(s.Framework), nullString(s.Length), s.Content, s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("update script: %w", err)
	}
	return expectAffected(res)
}

func (r *ScriptRepositoryMSSQL) UpdateContent(ctx context.Context, userID, id, content string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dbo.[scripts] SET content=@p1 WHERE id=@p2 AND user_id=@p3`, content, id, userID)
	if err != nil {
		return fmt.Errorf("save script: %w", err)
	}
	return expectAffected(res)
}

func (r *ScriptRepositoryMSSQL) GetByID(ctx context.Context, userID, id string) (*model.Script, error) {
	row := r.db.QueryRowContext(ctx, `SELECT TOP (1) `+scriptColumns+` FROM dbo.[scripts] WHERE id=@p1 AND user_id=@p2`, id, userID)
	s, err := scanScript(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrScriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get script: %w", err)
	}
	return s, nil
}

func (r *ScriptRepositoryMSSQL) GetByIDs(ctx context.Context, userID string, ids []string) ([]*model.Script, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := []interface{}{userID}
	for _, id := range ids {
		args = append(args, id)
	}
	return r.query(ctx, `SELECT `+scriptColumns+` FROM dbo.[scripts] WHERE user_id=@p1 AND id IN (`+placeholders(2, len(ids), "@p")+`) ORDER BY created_at DESC`, args...)
}

func (r *ScriptRepositoryMSSQL) List(ctx context.Context, userID string, filter repository.ListFilter) ([]*model.Script, error) {
	q := `SELECT ` + scriptColumns + ` FROM dbo.[scripts] WHERE user_id=@p1 ORDER BY created_at DESC`
	if filter.ScheduledOnly {
		q = `SELECT ` + scriptColumns + ` FROM dbo.[scripts] WHERE user_id=@p1 AND scheduled_date IS NOT NULL ORDER BY scheduled_date ASC, created_at ASC`
	}
	return r.query(ctx, q, userID)
}

func (r *ScriptRepositoryMSSQL) Count(ctx context.Context, userID string) (model.ScriptStats, error) {
	var stats model.ScriptStats
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(scheduled_date) FROM dbo.[scripts] WHERE user_id=@p1`, userID)
	if err := row.Scan(&stats.Total, &stats.Planned); err != nil {
		return stats, fmt.Errorf("count scripts: %w", err)
	}
	return stats, nil
}

func (r *ScriptRepositoryMSSQL) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[scripts] WHERE id=@p1 AND user_id=@p2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	return expectAffected(res)
}

func (r *ScriptRepositoryMSSQL) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []interface{}{userID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[scripts] WHERE user_id=@p1 AND id IN (`+placeholders(2, len(ids), "@p")+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete scripts: %w", err)
	}
	return res.RowsAffected()
}

func (r *ScriptRepositoryMSSQL) query(ctx context.Context, q string, args ...interface{}) ([]*model.Script, error) {
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
