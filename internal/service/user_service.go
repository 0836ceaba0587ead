package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
	"github.com/OfficialEseosa/panther-watch/pkg/jwt"
)

var ErrUserNotFound = errors.New("user not found")

// UserService manages the local user shadow of Supabase identities.
type UserService interface {
	// EnsureUser upserts the local row for a verified token and returns
	// it. Called by the auth middleware on every authenticated request.
	EnsureUser(ctx context.Context, claims *jwt.Claims) (*model.User, error)
	Profile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo        *repository.Repository
	adminEmails map[string]bool
	logger      *zap.Logger
}

// NewUserService creates the UserService. adminEmails grants the admin
// flag on first sight of the listed addresses.
func NewUserService(repo *repository.Repository, adminEmails []string, logger *zap.Logger) UserService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[email] = true
	}
	return &userService{
		repo:        repo,
		adminEmails: admins,
		logger:      logger,
	}
}

func (s *userService) EnsureUser(ctx context.Context, claims *jwt.Claims) (*model.User, error) {
	now := time.Now()
	user := &model.User{
		SupabaseID:  claims.Subject,
		Email:       claims.Email,
		Name:        claims.UserMetadata.FullName,
		AvatarURL:   claims.UserMetadata.AvatarURL,
		IsAdmin:     s.adminEmails[claims.Email],
		LastLoginAt: &now,
	}
	if err := s.repo.User.Upsert(ctx, user); err != nil {
		s.logger.Error("user upsert failed",
			zap.String("supabase_id", claims.Subject),
			zap.Error(err))
		return nil, err
	}

	// Upsert does not overwrite is_admin for existing rows; read the
	// row back so the request sees the stored flag.
	stored, err := s.repo.User.GetBySupabaseID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *userService) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := userFromModel(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("user update failed", zap.Error(err))
		return nil, err
	}

	resp := userFromModel(user)
	return &resp, nil
}

func userFromModel(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		v := user.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &v
	}
	return resp
}
