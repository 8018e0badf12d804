package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/configuration"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MySQLDSN builds a go-sql-driver DSN from the mysql config block. clientFoundRows makes
// RowsAffected count matched rows instead of changed rows.
func MySQLDSN(cfg configuration.Db) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// NewRepositories opens the MySQL store through gorm and migrates the scripts table.
func NewRepositories() (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(MySQLDSN(configuration.C.Database.MySql)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Script{}); err != nil {
		return nil, fmt.Errorf("migrate scripts: %w", err)
	}
	return db, nil
}

// ScriptRepositoryGorm stores scripts in MySQL through gorm.
type ScriptRepositoryGorm struct {
	db *gorm.DB
}

func NewScriptRepositoryGorm(db *gorm.DB) repository.IScript { return &ScriptRepositoryGorm{db: db} }

func (r *ScriptRepositoryGorm) Insert(ctx context.Context, s *model.Script) error {
	prepareScript(s, time.Now().UTC())
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("insert script: %w", err)
	}
	return nil
}

func (r *ScriptRepositoryGorm) InsertBatch(ctx context.Context, scripts []*model.Script) error {
	if len(scripts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, s := range scripts {
		prepareScript(s, now)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scripts).Error; err != nil {
			return fmt.Errorf("insert planner scripts: %w", err)
		}
		return nil
	})
}

func (r *ScriptRepositoryGorm) Update(ctx context.Context, s *model.Script) error {
	res := r.db.WithContext(ctx).Model(&model.Script{}).
		Where("id = ? AND user_id = ?", s.ID, s.UserID).
		Updates(map[string]interface{}{
			"title":     s.Title,
			"platform":  s.Platform,
			"tone":      s.Tone,
			"language":  s.Language,
			"framework": s.Framework,
			"length":    s.Length,
			"content":   s.Content,
		})
	if res.Error != nil {
		return fmt.Errorf("update script: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrScriptNotFound
	}
	return nil
}

func (r *ScriptRepositoryGorm) UpdateContent(ctx context.Context, userID, id, content string) error {
	res := r.db.WithContext(ctx).Model(&model.Script{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if res.Error != nil {
		return fmt.Errorf("save script: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrScriptNotFound
	}
	return nil
}

func (r *ScriptRepositoryGorm) GetByID(ctx context.Context, userID, id string) (*model.Script, error) {
	var s model.Script
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrScriptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get script: %w", err)
	}
	return &s, nil
}

func (r *ScriptRepositoryGorm) GetByIDs(ctx context.Context, userID string, ids []string) ([]*model.Script, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []*model.Script
	err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	return list, nil
}

func (r *ScriptRepositoryGorm) List(ctx context.Context, userID string, filter repository.ListFilter) ([]*model.Script, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.ScheduledOnly {
		q = q.Where("scheduled_date IS NOT NULL").Order("scheduled_date ASC").Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	var list []*model.Script
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	return list, nil
}

func (r *ScriptRepositoryGorm) Count(ctx context.Context, userID string) (model.ScriptStats, error) {
	var total, planned int64
	db := r.db.WithContext(ctx).Model(&model.Script{})
	if err := db.Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return model.ScriptStats{}, fmt.Errorf("count scripts: %w", err)
	}
	db = r.db.WithContext(ctx).Model(&model.Script{})
	if err := db.Where("user_id = ? AND scheduled_date IS NOT NULL", userID).Count(&planned).Error; err != nil {
		return model.ScriptStats{}, fmt.Errorf("count scripts: %w", err)
	}
	return model.ScriptStats{Total: int(total), Planned: int(planned)}, nil
}

func (r *ScriptRepositoryGorm) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Script{})
	if res.Error != nil {
		return fmt.Errorf("delete script: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrScriptNotFound
	}
	return nil
}

func (r *ScriptRepositoryGorm) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&model.Script{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete scripts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
