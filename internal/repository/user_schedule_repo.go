package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/OfficialEseosa/panther-watch/internal/model"
)

// UserScheduleRepository is the user_schedules table access interface.
type UserScheduleRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error)
	ListByUserAndTerm(ctx context.Context, userID, termCode string) ([]model.UserSchedule, error)
	// Create inserts the entry unless the (user, term, crn) row already
	// exists; the existing row is returned in that case.
	Create(ctx context.Context, entry *model.UserSchedule) (*model.UserSchedule, error)
	Delete(ctx context.Context, userID, termCode, crn string) error
	CountAll(ctx context.Context) (int64, error)
}

type userScheduleRepo struct {
	db *gorm.DB
}

// NewUserScheduleRepo creates the GORM-backed UserScheduleRepository.
func NewUserScheduleRepo(db *gorm.DB) UserScheduleRepository {
	return &userScheduleRepo{db: db}
}

func (r *userScheduleRepo) ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error) {
	var entries []model.UserSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *userScheduleRepo) ListByUserAndTerm(ctx context.Context, userID, termCode string) ([]model.UserSchedule, error) {
	var entries []model.UserSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND term_code = ?", userID, termCode).
		Order("added_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *userScheduleRepo) Create(ctx context.Context, entry *model.UserSchedule) (*model.UserSchedule, error) {
	var existing model.UserSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND term_code = ? AND crn = ?", entry.UserID, entry.TermCode, entry.CRN).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *userScheduleRepo) Delete(ctx context.Context, userID, termCode, crn string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND term_code = ? AND crn = ?", userID, termCode, crn).
		Delete(&model.UserSchedule{}).Error
}

func (r *userScheduleRepo) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.UserSchedule{}).Count(&total).Error
	return total, err
}
