package dto

// ── admin module DTOs ──

// UserSearchRequest filters the admin user listing.
type UserSearchRequest struct {
	Query    string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// AdminStatsResponse is the aggregate dashboard counters.
type AdminStatsResponse struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalWatchedClasses int64 `json:"totalWatchedClasses"`
	UniqueWatchedCRNs   int64 `json:"uniqueWatchedCrns"`
	TotalScheduleRows   int64 `json:"totalScheduleRows"`
	EmailsSent24h       int64 `json:"emailsSent24h"`
}

// SendCustomEmailRequest sends an ad-hoc email to one user.
type SendCustomEmailRequest struct {
	UserID  string `json:"userId"  binding:"required"`
	Subject string `json:"subject" binding:"required,max=255"`
	Body    string `json:"body"    binding:"required"`
}

/// WatchReportRow is one line of the admin watch-list report: how many
// users track each section.
type WatchReportRow struct {
	CRN          string `json:"crn"`
	Term         string `json:"term"`
	Subject      string `json:"subject"`
	CourseNumber string `json:"courseNumber"`
	CourseTitle  string `json:"courseTitle"`
	Watchers     int64  `json:"watchers"`
}
