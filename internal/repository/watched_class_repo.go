package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
)

// CRNTermPair identifies a watched section independent of who watches it.
type CRNTermPair struct {
	CRN  string
	Term string
}

// WatchedClassRepository is the watched_classes table access interface.
type WatchedClassRepository interface {
	Create(ctx context.Context, wc *model.WatchedClass) error
	Delete(ctx context.Context, userID, crn, term string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.WatchedClass, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Exists(ctx context.Context, userID, crn, term string) (bool, error)
	ListUniquePairs(ctx context.Context) ([]CRNTermPair, error)
	ListByCRNTerm(ctx context.Context, crn, term string) ([]model.WatchedClass, error)
	CountAll(ctx context.Context) (int64, error)
	CountUniquePairs(ctx context.Context) (int64, error)
	WatchReport(ctx context.Context) ([]dto.WatchReportRow, error)
}

type watchedClassRepo struct {
	db *gorm.DB
}

// NewWatchedClassRepo creates the GORM-backed WatchedClassRepository.
func NewWatchedClassRepo(db *gorm.DB) WatchedClassRepository {
	return &watchedClassRepo{db: db}
}

func (r *watchedClassRepo) Create(ctx context.Context, wc *model.WatchedClass) error {
	return r.db.WithContext(ctx).Create(wc).Error
}

func (r *watchedClassRepo) Delete(ctx context.Context, userID, crn, term string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND crn = ? AND term = ?", userID, crn, term).
		Delete(&model.WatchedClass{})
	return result.RowsAffected > 0, result.Error
}

func (r *watchedClassRepo) ListByUser(ctx context.Context, userID string) ([]model.WatchedClass, error) {
	var classes []model.WatchedClass
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&classes).Error
	return classes, err
}

func (r *watchedClassRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.WatchedClass{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

func (r *watchedClassRepo) Exists(ctx context.Context, userID, crn, term string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.WatchedClass{}).
		Where("user_id = ? AND crn = ? AND term = ?", userID, crn, term).
		Count(&total).Error
	return total > 0, err
}

func (r *watchedClassRepo) ListUniquePairs(ctx context.Context) ([]CRNTermPair, error) {
	var pairs []CRNTermPair
	err := r.db.WithContext(ctx).
		Model(&model.WatchedClass{}).
		Distinct("crn", "term").
		Find(&pairs).Error
	return pairs, err
}

func (r *watchedClassRepo) ListByCRNTerm(ctx context.Context, crn, term string) ([]model.WatchedClass, error) {
	var classes []model.WatchedClass
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("crn = ? AND term = ?", crn, term).
		Find(&classes).Error
	return classes, err
}

func (r *watchedClassRepo) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.WatchedClass{}).Count(&total).Error
	return total, err
}

func (r *watchedClassRepo) CountUniquePairs(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.WatchedClass{}).
		Distinct("crn", "term").
		Count(&total).Error
	return total, err
}

func (r *watchedClassRepo) WatchReport(ctx context.Context) ([]dto.WatchReportRow, error) {
	var rows []dto.WatchReportRow
	err := r.db.WithContext(ctx).
		Model(&model.WatchedClass{}).
		Select("crn, term, subject, course_number, course_title, COUNT(*) AS watchers").
		Group("crn, term, subject, course_number, course_title").
		Order("watchers DESC, term DESC").
		Find(&rows).Error
	return rows, err
}
