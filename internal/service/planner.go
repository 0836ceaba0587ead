package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
)

// The planner turns hydrated sections into the derived views the clients
// render: flat per-day meeting blocks and the positioned weekly grid.
// Everything here is recomputed per request; nothing is persisted.

const (
	gridStartMinutes = 8 * 60  // 8:00 AM
	gridEndMinutes   = 21 * 60 // exclusive; the last slot starts at 8:00 PM
	slotMinutes      = 60
	slotHeightPx     = 80
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// ParseTimeToMinutes converts an upstream clock string to minutes past
// midnight. Non-digit characters are stripped and the rest is
// left-padded to four digits, so "930", "0930" and "9:30" all parse to
// 570. Empty input returns nil. Hours are not range-checked; garbage in
// yields a large minute count rather than an error, matching how the
// rest of the pipeline treats unparseable times (the meeting is simply
// not drawable).
func ParseTimeToMinutes(raw string) *int {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if s == "" {
		return nil
	}
	for len(s) < 4 {
		s = "0" + s
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[2]-'0')*10 + int(s[3]-'0')
	total := hours*60 + mins
	return &total
}

// FormatMinutesToLabel renders minutes past midnight as a 12-hour label
// like "1:30 PM". Nil yields the empty string.
func FormatMinutesToLabel(minutes *int) string {
	if minutes == nil {
		return ""
	}
	hours := *minutes / 60
	mins := *minutes % 60
	suffix := "AM"
	if hours >= 12 {
		suffix = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, mins, suffix)
}

// meetingWeekdays returns the Monday–Friday day names a meeting pattern
// is active on, in week order. Weekend flags are ignored; the planner
// only renders a five-day week.
func meetingWeekdays(mt *dto.MeetingTime) []string {
	var days []string
	for _, d := range []struct {
		name string
		on   bool
	}{
		{"Monday", mt.Monday},
		{"Tuesday", mt.Tuesday},
		{"Wednesday", mt.Wednesday},
		{"Thursday", mt.Thursday},
		{"Friday", mt.Friday},
	} {
		if d.on {
			days = append(days, d.name)
		}
	}
	return days
}

// meetingLocation builds the display location from building and room,
// falling back to "TBA" when neither is set.
func meetingLocation(mt *dto.MeetingTime) string {
	var parts []string
	if mt.BuildingDescription != "" {
		parts = append(parts, mt.BuildingDescription)
	}
	if mt.Room != "" {
		parts = append(parts, "Room "+mt.Room)
	}
	if len(parts) == 0 {
		return "TBA"
	}
	return strings.Join(parts, " - ")
}

// sectionInstructor joins the section's faculty display names with
// commas, falling back to "TBA" when the roster is empty.
func sectionInstructor(section *dto.CourseSection) string {
	var names []string
	for _, f := range section.Faculty {
		if f.DisplayName != "" {
			names = append(names, f.DisplayName)
		}
	}
	if len(names) == 0 {
		return "TBA"
	}
	return strings.Join(names, ", ")
}

// BuildScheduleBlocks flattens sections into one block per (meeting,
// weekday). Meetings with unparseable begin or end times are skipped
// entirely; weekend meetings produce no blocks. The meeting ID encodes
// CRN, the meeting's index within the section, and the day, so a block
// is stable across recomputations.
func BuildScheduleBlocks(sections []dto.CourseSection) []dto.ScheduleBlock {
	var blocks []dto.ScheduleBlock
	for si := range sections {
		section := &sections[si]
		code := strings.TrimSpace(section.Subject + " " + section.CourseNumber)
		instructor := sectionInstructor(section)
		for mi := range section.MeetingsFaculty {
			mt := &section.MeetingsFaculty[mi].MeetingTime
			start := ParseTimeToMinutes(mt.BeginTime)
			end := ParseTimeToMinutes(mt.EndTime)
			if start == nil || end == nil {
				continue
			}
			location := meetingLocation(mt)
			for _, day := range meetingWeekdays(mt) {
				blocks = append(blocks, dto.ScheduleBlock{
					MeetingID:    fmt.Sprintf("%s-%d-%s", section.CourseReferenceNumber, mi, day),
					Day:          day,
					StartMinutes: *start,
					EndMinutes:   *end,
					CourseCode:   code,
					CourseTitle:  section.CourseTitle,
					CRN:          section.CourseReferenceNumber,
					Instructor:   instructor,
					Location:     location,
				})
			}
		}
	}
	return blocks
}

// BuildGrid places blocks on the hourly Monday–Friday grid. A block is
// filed into the slot containing its start minute and carries pixel
// offsets relative to that slot, so a 1:30 PM meeting lands in the
// 1:00 PM row with a 40px top offset. Blocks starting outside the
// 8:00 AM – 9:00 PM window are dropped. Every (day, slot) cell is
// present in the response, empty ones included.
func BuildGrid(blocks []dto.ScheduleBlock) *dto.GridResponse {
	var slots []dto.GridSlot
	for start := gridStartMinutes; start < gridEndMinutes; start += slotMinutes {
		m := start
		slots = append(slots, dto.GridSlot{
			Label:        FormatMinutesToLabel(&m),
			StartMinutes: start,
		})
	}

	cellIndex := make(map[string]int, len(weekdays)*len(slots))
	cells := make([]dto.GridCell, 0, len(weekdays)*len(slots))
	for _, day := range weekdays {
		for _, slot := range slots {
			cellIndex[fmt.Sprintf("%s|%d", day, slot.StartMinutes)] = len(cells)
			cells = append(cells, dto.GridCell{
				Day:       day,
				SlotStart: slot.StartMinutes,
				Blocks:    []dto.GridBlock{},
			})
		}
	}

	for _, block := range blocks {
		if block.StartMinutes < gridStartMinutes || block.StartMinutes >= gridEndMinutes {
			continue
		}
		slotStart := block.StartMinutes - (block.StartMinutes-gridStartMinutes)%slotMinutes
		idx, ok := cellIndex[fmt.Sprintf("%s|%d", block.Day, slotStart)]
		if !ok {
			continue
		}
		cells[idx].Blocks = append(cells[idx].Blocks, dto.GridBlock{
			ScheduleBlock: block,
			TopPx:         float64(block.StartMinutes-slotStart) / slotMinutes * slotHeightPx,
			HeightPx:      float64(block.EndMinutes-block.StartMinutes) / slotMinutes * slotHeightPx,
		})
	}

	for i := range cells {
		sort.SliceStable(cells[i].Blocks, func(a, b int) bool {
			return cells[i].Blocks[a].StartMinutes < cells[i].Blocks[b].StartMinutes
		})
	}

	return &dto.GridResponse{
		Days:         weekdays,
		Slots:        slots,
		SlotHeightPx: slotHeightPx,
		Cells:        cells,
	}
}
