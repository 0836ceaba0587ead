package dto

// ── watched-classes module DTOs ──

// WatchClassRequest adds a section to the user's watch list.
type WatchClassRequest struct {
	CRN          string `json:"crn"          binding:"required"`
	Term         string `json:"term"         binding:"required"`
	Subject      string `json:"subject"      binding:"required"`
	CourseNumber string `json:"courseNumber" binding:"required"`
	CourseTitle  string `json:"courseTitle"`
	Instructor   string `json:"instructor"`
}

// WatchedClassResponse is the lightweight tracked tuple.
type WatchedClassResponse struct {
	CRN          string `json:"crn"`
	Term         string `json:"term"`
	Subject      string `json:"subject"`
	CourseNumber string `json:"courseNumber"`
	CourseTitle  string `json:"courseTitle"`
	Instructor   string `json:"instructor"`
	CreatedAt    string `json:"createdAt"`
}

// WatchedClassDetail is the merged view of a tracked tuple and a freshly
// fetched full section. When the detail fetch did not return the CRN the
// record is synthesized from the tuple with zeroed enrollment counts and
// IsPartialData set.
type WatchedClassDetail struct {
	CourseSection
	IsPartialData bool `json:"isPartialData"`
}
