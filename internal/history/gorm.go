package history

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/creatorstation/tweetbot/internal/models"
)

type GormRecorder struct {
	db *gorm.DB
}

// NewGormRecorder migrates the job run table and returns a recorder writing to it.
func NewGormRecorder(db *gorm.DB) (*GormRecorder, error) {
	if err := db.AutoMigrate(&models.JobRun{}); err != nil {
		return nil, fmt.Errorf("migrate job runs: %w", err)
	}
	return &GormRecorder{db: db}, nil
}

func (r *GormRecorder) Record(ctx context.Context, run models.JobRun) error {
	return r.db.WithContext(ctx).Create(&run).Error
}

func (r *GormRecorder) Recent(ctx context.Context, job string, limit int) ([]models.JobRun, error) {
	var runs []models.JobRun

	query := r.db.WithContext(ctx).Order("started_at desc").Limit(limit)
	if job != "" {
		query = query.Where("job = ?", job)
	}

	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
