package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/service"
	"github.com/OfficialEseosa/panther-watch/pkg/response"
)

// WatchedHandler manages the seat-availability watch list.
type WatchedHandler struct {
	watchedSvc service.WatchedService
}

// NewWatchedHandler creates the WatchedHandler.
func NewWatchedHandler(watchedSvc service.WatchedService) *WatchedHandler {
	return &WatchedHandler{watchedSvc: watchedSvc}
}

// List returns the caller's tracked tuples.
// GET /api/v1/watched-classes
func (h *WatchedHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	classes, err := h.watchedSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, classes, int64(len(classes)))
}

// Watch adds a section to the caller's watch list.
// POST /api/v1/watched-classes
func (h *WatchedHandler) Watch(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.WatchClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid watch request")
		return
	}

	watched, err := h.watchedSvc.Watch(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyWatching) {
			response.BadRequest(c, "class is already on the watch list")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, watched)
}

// Unwatch removes a section from the caller's watch list.
// DELETE /api/v1/watched-classes?crn=...&term=...
func (h *WatchedHandler) Unwatch(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	crn := c.Query("crn")
	term := c.Query("term")
	if crn == "" || term == "" {
		response.BadRequest(c, "crn and term are required")
		return
	}

	if err := h.watchedSvc.Unwatch(c.Request.Context(), userID, crn, term); err != nil {
		if errors.Is(err, service.ErrWatchNotFound) {
			response.NotFound(c, "class not found in watch list")
			return
		}
		response.InternalError(c)
		return
	}
	response.OKMessage(c, "class removed from watch list")
}

// Check reports whether the caller is watching a section.
// GET /api/v1/watched-classes/check?crn=...&term=...
func (h *WatchedHandler) Check(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	crn := c.Query("crn")
	term := c.Query("term")
	if crn == "" || term == "" {
		response.BadRequest(c, "crn and term are required")
		return
	}

	watching, err := h.watchedSvc.IsWatching(c.Request.Context(), userID, crn, term)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"isWatching": watching})
}

// Count returns the caller's watch-list size.
// GET /api/v1/watched-classes/count
func (h *WatchedHandler) Count(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.watchedSvc.Count(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, nil, count)
}

// Details returns the merged tracked-plus-fresh-detail view.
// GET /api/v1/watched-classes/full-details
func (h *WatchedHandler) Details(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	details, err := h.watchedSvc.Details(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, details, int64(len(details)))
}
