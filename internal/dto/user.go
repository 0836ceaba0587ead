package dto

// ── user module DTOs ──

// UserResponse is the caller's own profile.
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	AvatarURL   string  `json:"avatar_url"`
	IsAdmin     bool    `json:"is_admin"`
	CreatedAt   string  `json:"created_at"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

// UpdateUserRequest updates profile fields the user owns.
type UpdateUserRequest struct {
	Name      *string `json:"name"       binding:"omitempty,max=255"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=2048"`
}
