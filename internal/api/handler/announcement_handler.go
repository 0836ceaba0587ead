package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/service"
	"github.com/OfficialEseosa/panther-watch/pkg/response"
)

// AnnouncementHandler serves site-wide banner messages. Reads are for
// every signed-in user; mutations sit behind the admin group.
type AnnouncementHandler struct {
	announcementSvc service.AnnouncementService
}

// NewAnnouncementHandler creates the AnnouncementHandler.
func NewAnnouncementHandler(announcementSvc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementSvc: announcementSvc}
}

// ListVisible returns active announcements with the caller's dismissals
// marked.
// GET /api/v1/announcements
func (h *AnnouncementHandler) ListVisible(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.announcementSvc.ListVisible(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, list, int64(len(list)))
}

// Dismiss hides an announcement for the caller.
// POST /api/v1/announcements/:id/dismiss
func (h *AnnouncementHandler) Dismiss(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.announcementSvc.Dismiss(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, "announcement not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OKMessage(c, "announcement dismissed")
}

// Stream pushes announcement change events over SSE until the client
// disconnects.
// GET /api/v1/announcements/stream
func (h *AnnouncementHandler) Stream(c *gin.Context) {
	events, cancel := h.announcementSvc.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return true
			}
			c.SSEvent("announcement", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ListAll returns every announcement, active or not.
// GET /api/v1/admin/announcements
func (h *AnnouncementHandler) ListAll(c *gin.Context) {
	list, err := h.announcementSvc.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKCount(c, list, int64(len(list)))
}

// Create publishes a new announcement.
// POST /api/v1/admin/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title and body are required")
		return
	}

	created, err := h.announcementSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, created)
}

// Update edits an announcement.
// PATCH /api/v1/admin/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid announcement update")
		return
	}

	updated, err := h.announcementSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, "announcement not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, updated)
}

// Delete removes an announcement.
// DELETE /api/v1/admin/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.announcementSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, "announcement not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OKMessage(c, "announcement deleted")
}
