package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/service"
	"github.com/OfficialEseosa/panther-watch/pkg/response"
)

// CourseHandler proxies course search and term listing.
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler creates the CourseHandler.
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Search runs a section search against the registration system.
// GET /api/v1/courses/search?txtTerm=...&txtSubject=...
func (h *CourseHandler) Search(c *gin.Context) {
	var req dto.CourseSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "txtTerm is required")
		return
	}

	result, err := h.courseSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.BadGateway(c, "course search is temporarily unavailable")
		return
	}

	// The upstream envelope is passed through as-is.
	c.JSON(200, result)
}

// Terms lists the available registration terms.
// GET /api/v1/courses/terms?offset=1&max=10
func (h *CourseHandler) Terms(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "1"))
	max, _ := strconv.Atoi(c.DefaultQuery("max", "10"))

	terms, err := h.courseSvc.Terms(c.Request.Context(), offset, max)
	if err != nil {
		response.BadGateway(c, "term listing is temporarily unavailable")
		return
	}
	response.OK(c, terms)
}
