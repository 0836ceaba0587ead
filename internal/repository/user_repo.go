package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OfficialEseosa/panther-watch/internal/model"
)

// UserRepository is the users table access interface.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetBySupabaseID(ctx context.Context, supabaseID string) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Search(ctx context.Context, query string, offset, limit int) ([]model.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates the GORM-backed UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetBySupabaseID(ctx context.Context, supabaseID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("supabase_id = ?", supabaseID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert inserts the user or refreshes the profile fields copied from the
// identity provider. Called on every authenticated request's first user
// lookup, so it must stay a single statement.
func (r *userRepo) Upsert(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "supabase_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "name", "avatar_url", "last_login_at", "updated_at",
			}),
		}).
		Create(user).Error
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"name":       user.Name,
			"avatar_url": user.AvatarURL,
		}).Error
}

func (r *userRepo) Search(ctx context.Context, query string, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if query != "" {
		pattern := "%" + query + "%"
		db = db.Where("email ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}
