package dto

// ── announcement module DTOs ──

// CreateAnnouncementRequest creates a site-wide banner message.
type CreateAnnouncementRequest struct {
	Title    string  `json:"title"    binding:"required,min=1,max=255"`
	Body     string  `json:"body"     binding:"required"`
	Severity string  `json:"severity" binding:"omitempty,oneof=info warning critical"`
	StartsAt *string `json:"starts_at"`
	EndsAt   *string `json:"ends_at"`
}

// UpdateAnnouncementRequest partially updates an announcement.
type UpdateAnnouncementRequest struct {
	Title    *string `json:"title"    binding:"omitempty,min=1,max=255"`
	Body     *string `json:"body"`
	Severity *string `json:"severity" binding:"omitempty,oneof=info warning critical"`
	IsActive *bool   `json:"is_active"`
	StartsAt *string `json:"starts_at"`
	EndsAt   *string `json:"ends_at"`
}

// AnnouncementResponse is an announcement as shown to clients.
type AnnouncementResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Severity  string  `json:"severity"`
	IsActive  bool    `json:"is_active"`
	StartsAt  *string `json:"starts_at,omitempty"`
	EndsAt    *string `json:"ends_at,omitempty"`
	CreatedAt string  `json:"created_at"`
	Dismissed bool    `json:"dismissed"`
}
