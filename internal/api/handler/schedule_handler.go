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

// ScheduleHandler manages per-user schedules and their derived views.
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler creates the ScheduleHandler.
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// List returns every persisted schedule entry for the caller.
// GET /api/v1/schedule
func (h *ScheduleHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entries, err := h.scheduleSvc.ListEntries(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, entries, int64(len(entries)))
}

// Add puts a section on the caller's schedule.
// POST /api/v1/schedule
func (h *ScheduleHandler) Add(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "termCode and crn are required")
		return
	}

	entry, err := h.scheduleSvc.AddEntry(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			response.NotFound(c, "section not found for the requested term")
			return
		}
		response.BadGateway(c, "the registration system is temporarily unavailable")
		return
	}
	response.Created(c, entry)
}

// Remove takes a section off the caller's schedule.
// DELETE /api/v1/schedule/:termCode/:crn
func (h *ScheduleHandler) Remove(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	termCode := c.Param("termCode")
	crn := c.Param("crn")

	if err := h.scheduleSvc.RemoveEntry(c.Request.Context(), userID, termCode, crn); err != nil {
		response.InternalError(c)
		return
	}
	response.OKMessage(c, "entry removed")
}

// Sync reconciles the stored schedule with a client snapshot.
// PUT /api/v1/schedule/sync
func (h *ScheduleHandler) Sync(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SyncScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "schedule snapshot is required")
		return
	}

	entries, err := h.scheduleSvc.Sync(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, entries, int64(len(entries)))
}

// Sections returns the hydrated sections for one term.
// GET /api/v1/schedule/:termCode/sections
func (h *ScheduleHandler) Sections(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sections, err := h.scheduleSvc.Sections(c.Request.Context(), userID, c.Param("termCode"))
	if err != nil {
		response.BadGateway(c, "the registration system is temporarily unavailable")
		return
	}
	response.OKCount(c, sections, int64(len(sections)))
}

// Grid returns the positioned weekly grid for one term.
// GET /api/v1/schedule/:termCode/grid
func (h *ScheduleHandler) Grid(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grid, err := h.scheduleSvc.Grid(c.Request.Context(), userID, c.Param("termCode"))
	if err != nil {
		response.BadGateway(c, "the registration system is temporarily unavailable")
		return
	}
	response.OK(c, grid)
}

// Export downloads the term's schedule as an iCalendar file.
// GET /api/v1/schedule/:termCode/export
func (h *ScheduleHandler) Export(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	content, filename, err := h.scheduleSvc.ExportCalendar(c.Request.Context(), userID, c.Param("termCode"))
	if err != nil {
		if errors.Is(err, service.ErrEmptySchedule) {
			response.NotFound(c, "no exportable meetings for this term")
			return
		}
		response.BadGateway(c, "the registration system is temporarily unavailable")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}
