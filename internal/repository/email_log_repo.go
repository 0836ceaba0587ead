package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/OfficialEseosa/panther-watch/internal/model"
)

// EmailLogRepository is the email_logs table access interface.
type EmailLogRepository interface {
	Create(ctx context.Context, log *model.EmailLog) error
	// SentRecently reports whether the user was already notified about
	// this (crn, term, kind) after the cutoff. The watcher uses it to
	// avoid re-mailing for a seat that stays open across poll cycles.
	SentRecently(ctx context.Context, userID, crn, term, kind string, since time.Time) (bool, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type emailLogRepo struct {
	db *gorm.DB
}

// NewEmailLogRepo creates the GORM-backed EmailLogRepository.
func NewEmailLogRepo(db *gorm.DB) EmailLogRepository {
	return &emailLogRepo{db: db}
}

func (r *emailLogRepo) Create(ctx context.Context, log *model.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *emailLogRepo) SentRecently(ctx context.Context, userID, crn, term, kind string, since time.Time) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.EmailLog{}).
		Where("user_id = ? AND crn = ? AND term = ? AND kind = ? AND sent_at >= ?",
			userID, crn, term, kind, since).
		Count(&total).Error
	return total > 0, err
}

func (r *emailLogRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.EmailLog{}).
		Where("sent_at >= ?", since).
		Count(&total).Error
	return total, err
}
