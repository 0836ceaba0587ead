package dto

// ── schedule module DTOs ──

// AddScheduleEntryRequest adds a (term, CRN) pair to the user's schedule.
type AddScheduleEntryRequest struct {
	TermCode string `json:"termCode" binding:"required"`
	CRN      string `json:"crn"      binding:"required"`
}

// ScheduleEntryResponse is one persisted schedule row.
type ScheduleEntryResponse struct {
	ID       int64  `json:"id"`
	TermCode string `json:"termCode"`
	CRN      string `json:"crn"`
	AddedAt  string `json:"addedAt"`
}

// SyncScheduleRequest reconciles the server store with a client snapshot:
// term code → CRN list. Terms absent from the snapshot are removed.
type SyncScheduleRequest struct {
	Schedule map[string][]string `json:"schedule" binding:"required"`
}

// ScheduleBlock is the ephemeral per-day projection of one meeting,
// recomputed from the hydrated sections on every request.
type ScheduleBlock struct {
	MeetingID    string `json:"meetingId"` // "{crn}-{meetingIndex}-{day}"
	Day          string `json:"day"`
	StartMinutes int    `json:"startMinutes"`
	EndMinutes   int    `json:"endMinutes"`
	CourseCode   string `json:"courseCode"`
	CourseTitle  string `json:"courseTitle"`
	CRN          string `json:"crn"`
	Instructor   string `json:"instructor"`
	Location     string `json:"location"`
}

// GridSlot is one hourly row of the weekly grid.
type GridSlot struct {
	Label        string `json:"label"` // "8:00 AM"
	StartMinutes int    `json:"startMinutes"`
}

// GridBlock is a ScheduleBlock placed inside a slot, with the pixel
// offsets the clients use for absolute positioning.
type GridBlock struct {
	ScheduleBlock
	TopPx    float64 `json:"topPx"`
	HeightPx float64 `json:"heightPx"`
}

// GridCell holds the blocks filed into one (day, slot) bucket.
type GridCell struct {
	Day       string      `json:"day"`
	SlotStart int         `json:"slotStart"`
	Blocks    []GridBlock `json:"blocks"`
}

// GridResponse is the full weekly layout for one term.
type GridResponse struct {
	Days         []string   `json:"days"`
	Slots        []GridSlot `json:"slots"`
	SlotHeightPx int        `json:"slotHeightPx"`
	Cells        []GridCell `json:"cells"`
}
