package service

import (
	"testing"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
)

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"0930", 570},
		{"930", 570},
		{"9:30", 570},
		{"1330", 810},
		{"0000", 0},
		{"5", 5},
	}
	for _, c := range cases {
		got := ParseTimeToMinutes(c.in)
		if got == nil {
			t.Errorf("ParseTimeToMinutes(%q) = nil, expected %d", c.in, c.want)
			continue
		}
		if *got != c.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, expected %d", c.in, *got, c.want)
		}
	}
}

func TestParseTimeToMinutesEmpty(t *testing.T) {
	for _, in := range []string{"", "TBA", "--"} {
		if got := ParseTimeToMinutes(in); got != nil {
			t.Errorf("ParseTimeToMinutes(%q) = %d, expected nil", in, *got)
		}
	}
}

func TestFormatMinutesToLabel(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "12:00 AM"},
		{570, "9:30 AM"},
		{720, "12:00 PM"},
		{810, "1:30 PM"},
		{1260, "9:00 PM"},
	}
	for _, c := range cases {
		m := c.in
		if got := FormatMinutesToLabel(&m); got != c.want {
			t.Errorf("FormatMinutesToLabel(%d) = %q, expected %q", c.in, got, c.want)
		}
	}
	if got := FormatMinutesToLabel(nil); got != "" {
		t.Errorf("FormatMinutesToLabel(nil) = %q, expected empty", got)
	}
}

func testSection() dto.CourseSection {
	return dto.CourseSection{
		Term:                  "202508",
		CourseReferenceNumber: "80331",
		Subject:               "CSC",
		CourseNumber:          "1301",
		CourseTitle:           "Principles of Computer Science I",
		Faculty: []dto.Faculty{
			{DisplayName: "Jane Smith"},
		},
		MeetingsFaculty: []dto.MeetingFaculty{
			{MeetingTime: dto.MeetingTime{
				BeginTime:           "1000",
				EndTime:             "1050",
				BuildingDescription: "Classroom South",
				Room:                "301",
				Monday:              true,
				Wednesday:           true,
			}},
		},
	}
}

func TestBuildScheduleBlocks(t *testing.T) {
	blocks := BuildScheduleBlocks([]dto.CourseSection{testSection()})
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	first := blocks[0]
	if first.MeetingID != "80331-0-Monday" {
		t.Errorf("expected meeting ID 80331-0-Monday, got %s", first.MeetingID)
	}
	if first.StartMinutes != 600 || first.EndMinutes != 650 {
		t.Errorf("expected 600-650, got %d-%d", first.StartMinutes, first.EndMinutes)
	}
	if first.CourseCode != "CSC 1301" {
		t.Errorf("expected course code CSC 1301, got %s", first.CourseCode)
	}
	if first.Instructor != "Jane Smith" {
		t.Errorf("expected instructor Jane Smith, got %s", first.Instructor)
	}
	if first.Location != "Classroom South - Room 301" {
		t.Errorf("expected location Classroom South - Room 301, got %s", first.Location)
	}
	if blocks[1].Day != "Wednesday" {
		t.Errorf("expected second block on Wednesday, got %s", blocks[1].Day)
	}
}

func TestBuildScheduleBlocksSkipsUnparseableTimes(t *testing.T) {
	section := testSection()
	section.MeetingsFaculty[0].MeetingTime.BeginTime = ""
	blocks := BuildScheduleBlocks([]dto.CourseSection{section})
	if len(blocks) != 0 {
		t.Errorf("expected no blocks for a meeting without a begin time, got %d", len(blocks))
	}
}

func TestBuildScheduleBlocksFallbacks(t *testing.T) {
	section := testSection()
	section.Faculty = nil
	section.MeetingsFaculty[0].MeetingTime.BuildingDescription = ""
	section.MeetingsFaculty[0].MeetingTime.Room = ""

	blocks := BuildScheduleBlocks([]dto.CourseSection{section})
	if len(blocks) == 0 {
		t.Fatal("expected blocks")
	}
	if blocks[0].Instructor != "TBA" {
		t.Errorf("expected instructor TBA, got %s", blocks[0].Instructor)
	}
	if blocks[0].Location != "TBA" {
		t.Errorf("expected location TBA, got %s", blocks[0].Location)
	}
}

func TestBuildScheduleBlocksIgnoresWeekends(t *testing.T) {
	section := testSection()
	section.MeetingsFaculty[0].MeetingTime.Monday = false
	section.MeetingsFaculty[0].MeetingTime.Wednesday = false
	section.MeetingsFaculty[0].MeetingTime.Saturday = true

	blocks := BuildScheduleBlocks([]dto.CourseSection{section})
	if len(blocks) != 0 {
		t.Errorf("expected no blocks for a Saturday-only meeting, got %d", len(blocks))
	}
}

func TestBuildGridLayout(t *testing.T) {
	grid := BuildGrid(nil)

	if len(grid.Days) != 5 || grid.Days[0] != "Monday" || grid.Days[4] != "Friday" {
		t.Errorf("unexpected day list: %v", grid.Days)
	}
	if len(grid.Slots) != 13 {
		t.Fatalf("expected 13 hourly slots, got %d", len(grid.Slots))
	}
	if grid.Slots[0].Label != "8:00 AM" || grid.Slots[0].StartMinutes != 480 {
		t.Errorf("unexpected first slot: %+v", grid.Slots[0])
	}
	if grid.Slots[12].Label != "8:00 PM" || grid.Slots[12].StartMinutes != 1200 {
		t.Errorf("unexpected last slot: %+v", grid.Slots[12])
	}
	if grid.SlotHeightPx != 80 {
		t.Errorf("expected slot height 80, got %d", grid.SlotHeightPx)
	}
	if len(grid.Cells) != 5*13 {
		t.Errorf("expected %d cells, got %d", 5*13, len(grid.Cells))
	}
}

func TestBuildGridPlacesBlockByStartMinute(t *testing.T) {
	// 1:30 PM – 2:45 PM Tuesday: files into the 1:00 PM slot with a
	// half-slot top offset and a 75-minute height.
	block := dto.ScheduleBlock{
		MeetingID:    "80331-0-Tuesday",
		Day:          "Tuesday",
		StartMinutes: 810,
		EndMinutes:   885,
	}
	grid := BuildGrid([]dto.ScheduleBlock{block})

	var cell *dto.GridCell
	for i := range grid.Cells {
		if grid.Cells[i].Day == "Tuesday" && grid.Cells[i].SlotStart == 780 {
			cell = &grid.Cells[i]
			break
		}
	}
	if cell == nil {
		t.Fatal("expected a Tuesday 1:00 PM cell")
	}
	if len(cell.Blocks) != 1 {
		t.Fatalf("expected 1 block in the 1:00 PM cell, got %d", len(cell.Blocks))
	}
	placed := cell.Blocks[0]
	if placed.TopPx != 40 {
		t.Errorf("expected top offset 40px, got %v", placed.TopPx)
	}
	if placed.HeightPx != 100 {
		t.Errorf("expected height 100px, got %v", placed.HeightPx)
	}

	for i := range grid.Cells {
		c := &grid.Cells[i]
		if c.Day == "Tuesday" && c.SlotStart == 780 {
			continue
		}
		if len(c.Blocks) != 0 {
			t.Errorf("unexpected block in cell %s/%d", c.Day, c.SlotStart)
		}
	}
}

func TestBuildGridDropsOutOfWindowBlocks(t *testing.T) {
	early := dto.ScheduleBlock{Day: "Monday", StartMinutes: 420, EndMinutes: 470}
	grid := BuildGrid([]dto.ScheduleBlock{early})
	for i := range grid.Cells {
		if len(grid.Cells[i].Blocks) != 0 {
			t.Fatalf("expected 7:00 AM block to be dropped, found it in cell %s/%d",
				grid.Cells[i].Day, grid.Cells[i].SlotStart)
		}
	}
}
