package service

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
)

// icsDayCodes maps weekday flags to the iCalendar BYDAY tokens, in week
// order. The weekly grid only shows Monday through Friday, but the
// export carries weekend meetings too.
var icsDayCodes = []struct {
	code string
	on   func(*dto.MeetingTime) bool
}{
	{"MO", func(mt *dto.MeetingTime) bool { return mt.Monday }},
	{"TU", func(mt *dto.MeetingTime) bool { return mt.Tuesday }},
	{"WE", func(mt *dto.MeetingTime) bool { return mt.Wednesday }},
	{"TH", func(mt *dto.MeetingTime) bool { return mt.Thursday }},
	{"FR", func(mt *dto.MeetingTime) bool { return mt.Friday }},
	{"SA", func(mt *dto.MeetingTime) bool { return mt.Saturday }},
	{"SU", func(mt *dto.MeetingTime) bool { return mt.Sunday }},
}

// BuildCalendar renders the sections as an iCalendar document with one
// weekly-recurring VEVENT per meeting pattern. Times are emitted as
// floating local values so the events land at wall-clock time in
// whatever calendar imports them. Meetings missing a start date, start
// time, or weekday flags are skipped.
func BuildCalendar(sections []dto.CourseSection, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId("-//PantherWatch//Class Schedule//EN")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	stamp := now.UTC().Format("20060102T150405Z")

	for si := range sections {
		section := &sections[si]
		for mi := range section.MeetingsFaculty {
			mt := &section.MeetingsFaculty[mi].MeetingTime

			byDay := icsByDay(mt)
			startDate := icsDate(mt.StartDate)
			startTime := icsTime(mt.BeginTime)
			if startDate == "" || startTime == "" || byDay == "" {
				continue
			}

			uid := fmt.Sprintf("%s-%s-%d@pantherwatch.app",
				section.CourseReferenceNumber, termOrDefault(section.Term), mi)
			event := cal.AddEvent(uid)
			event.SetProperty(ics.ComponentPropertyDtstamp, stamp)
			event.SetSummary(fmt.Sprintf("%s - %s %s",
				section.CourseTitle, section.Subject, section.CourseNumber))
			event.SetDescription(icsDescription(section))
			event.SetLocation(icsLocation(mt))
			event.SetProperty(ics.ComponentPropertyDtStart, startDate+"T"+startTime)
			if endTime := icsTime(mt.EndTime); endTime != "" {
				event.SetProperty(ics.ComponentPropertyDtEnd, startDate+"T"+endTime)
			}
			if endDate := icsDate(mt.EndDate); endDate != "" {
				event.SetProperty(ics.ComponentPropertyRrule,
					fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%sT235959", byDay, endDate))
			} else {
				event.SetProperty(ics.ComponentPropertyRrule,
					fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", byDay))
			}
		}
	}

	// RFC 5545 requires CRLF line endings.
	raw := cal.Serialize()
	return strings.ReplaceAll(strings.ReplaceAll(raw, "\r\n", "\n"), "\n", "\r\n")
}

// CalendarFilename names the download for a term's calendar export.
func CalendarFilename(termCode string) string {
	return fmt.Sprintf("pantherwatch-schedule-%s.ics", termCode)
}

func icsByDay(mt *dto.MeetingTime) string {
	var codes []string
	for _, d := range icsDayCodes {
		if d.on(mt) {
			codes = append(codes, d.code)
		}
	}
	return strings.Join(codes, ",")
}

// icsDate converts an upstream "MM/DD/YYYY" date to basic "YYYYMMDD".
func icsDate(raw string) string {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return ""
	}
	month, day, year := parts[0], parts[1], parts[2]
	if len(month) == 1 {
		month = "0" + month
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return year + month + day
}

// icsTime converts an upstream clock string to "HHMMSS".
func icsTime(raw string) string {
	minutes := ParseTimeToMinutes(raw)
	if minutes == nil {
		return ""
	}
	return fmt.Sprintf("%02d%02d00", *minutes/60, *minutes%60)
}

func icsDescription(section *dto.CourseSection) string {
	term := section.TermDesc
	if term == "" {
		term = section.Term
	}
	if term == "" {
		term = "TBA"
	}
	return strings.Join([]string{
		"CRN: " + section.CourseReferenceNumber,
		"Instructor: " + sectionInstructor(section),
		"Term: " + term,
	}, "\n")
}

func icsLocation(mt *dto.MeetingTime) string {
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

func termOrDefault(term string) string {
	if term == "" {
		return "term"
	}
	return term
}
