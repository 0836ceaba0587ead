package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/service"
	"github.com/OfficialEseosa/panther-watch/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler creates the AdminHandler.
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Stats returns the aggregate dashboard counters.
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// SearchUsers pages through users matching a query.
// GET /api/v1/admin/users?q=...&page=1&page_size=20
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	var req dto.UserSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid search parameters")
		return
	}

	users, total, err := h.adminSvc.SearchUsers(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, users, total)
}

// WatchReport returns the per-section watcher counts.
// GET /api/v1/admin/watch-report
func (h *AdminHandler) WatchReport(c *gin.Context) {
	rows, err := h.adminSvc.WatchReport(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, rows, int64(len(rows)))
}

// WatchReportXLSX downloads the watch report as a spreadsheet.
// GET /api/v1/admin/watch-report/export
func (h *AdminHandler) WatchReportXLSX(c *gin.Context) {
	buf, filename, err := h.adminSvc.WatchReportXLSX(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SendEmail sends an ad-hoc email to one user.
// POST /api/v1/admin/emails
func (h *AdminHandler) SendEmail(c *gin.Context) {
	var req dto.SendCustomEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "userId, subject and body are required")
		return
	}

	if err := h.adminSvc.SendCustomEmail(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrMailDisabled):
			response.BadRequest(c, "outbound mail is not configured")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OKMessage(c, "email sent")
}
