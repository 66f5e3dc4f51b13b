package history

import (
	"context"
	"fmt"
	"time"

	domainHistory "github.com/AzielCF/az-autopost/domains/history"
	"github.com/AzielCF/az-autopost/domains/job"
	"gorm.io/gorm"
)

type postHistoryModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	JobID        string    `gorm:"size:36;index"`
	ContentPath  string    `gorm:"not null"`
	ArchivedPath string
	Caption      string
	TargetTime   time.Time `gorm:"not null"`
	ExecutedAt   time.Time `gorm:"not null;index"`
	Outcome      string    `gorm:"size:16;not null"`
	Error        string
	MediaID      string    `gorm:"size:128"`
}

func (postHistoryModel) TableName() string {
	return "post_history"
}

func toModel(e domainHistory.Entry) postHistoryModel {
	return postHistoryModel{
		ID:           e.ID,
		JobID:        e.JobID,
		ContentPath:  e.ContentPath,
		ArchivedPath: e.ArchivedPath,
		Caption:      e.Caption,
		TargetTime:   e.TargetTime.UTC(),
		ExecutedAt:   e.ExecutedAt.UTC(),
		Outcome:      string(e.Outcome),
		Error:        e.Error,
		MediaID:      e.MediaID,
	}
}

func (m postHistoryModel) toEntry() domainHistory.Entry {
	return domainHistory.Entry{
		ID:           m.ID,
		JobID:        m.JobID,
		ContentPath:  m.ContentPath,
		ArchivedPath: m.ArchivedPath,
		Caption:      m.Caption,
		TargetTime:   m.TargetTime,
		ExecutedAt:   m.ExecutedAt,
		Outcome:      job.Outcome(m.Outcome),
		Error:        m.Error,
		MediaID:      m.MediaID,
	}
}

// GormRepository stores execution results in the post_history table.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) InitSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&postHistoryModel{}); err != nil {
		return fmt.Errorf("failed to migrate post_history: %w", err)
	}
	return nil
}

func (r *GormRepository) Record(ctx context.Context, e domainHistory.Entry) error {
	if e.ID == "" {
		return fmt.Errorf("history entry requires an id")
	}
	m := toModel(e)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first.
func (r *GormRepository) ListRecent(ctx context.Context, limit int) ([]domainHistory.Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []postHistoryModel
	err := r.db.WithContext(ctx).
		Order("executed_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]domainHistory.Entry, 0, len(models))
	for _, m := range models {
		entries = append(entries, m.toEntry())
	}
	return entries, nil
}
