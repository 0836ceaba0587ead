package dto

// Wire types for the upstream registration system's search API. Field
// names follow the upstream JSON exactly; these objects are also what the
// schedule read model caches, so renaming a field is a cache-format change.

// CourseSection is one section row returned by the course search.
type CourseSection struct {
	Term                    string           `json:"term"`
	TermDesc                string           `json:"termDesc"`
	CourseReferenceNumber   string           `json:"courseReferenceNumber"`
	PartOfTerm              string           `json:"partOfTerm"`
	CourseNumber            string           `json:"courseNumber"`
	Subject                 string           `json:"subject"`
	SubjectDescription      string           `json:"subjectDescription"`
	SequenceNumber          string           `json:"sequenceNumber"`
	CampusDescription       string           `json:"campusDescription"`
	ScheduleTypeDescription string           `json:"scheduleTypeDescription"`
	CourseTitle             string           `json:"courseTitle"`
	CreditHours             int              `json:"creditHours"`
	MaximumEnrollment       int              `json:"maximumEnrollment"`
	Enrollment              int              `json:"enrollment"`
	SeatsAvailable          int              `json:"seatsAvailable"`
	WaitCapacity            int              `json:"waitCapacity"`
	WaitCount               int              `json:"waitCount"`
	WaitAvailable           int              `json:"waitAvailable"`
	CreditHourHigh          int              `json:"creditHourHigh"`
	CreditHourLow           int              `json:"creditHourLow"`
	SubjectCourse           string           `json:"subjectCourse"`
	Faculty                 []Faculty        `json:"faculty"`
	MeetingsFaculty         []MeetingFaculty `json:"meetingsFaculty"`
}

// Faculty is one instructor attached to a section.
type Faculty struct {
	BannerID              string `json:"bannerId"`
	CourseReferenceNumber string `json:"courseReferenceNumber"`
	DisplayName           string `json:"displayName"`
	EmailAddress          string `json:"emailAddress"`
	PrimaryIndicator      bool   `json:"primaryIndicator"`
}

// MeetingFaculty wraps a meeting time block.
type MeetingFaculty struct {
	Category    string      `json:"category"`
	MeetingTime MeetingTime `json:"meetingTime"`
}

// MeetingTime is one weekly meeting pattern. Begin/end times are 4-digit
// 24-hour strings ("0930"); start/end dates are "MM/DD/YYYY".
type MeetingTime struct {
	BeginTime              string  `json:"beginTime"`
	EndTime                string  `json:"endTime"`
	StartDate              string  `json:"startDate"`
	EndDate                string  `json:"endDate"`
	BuildingDescription    string  `json:"buildingDescription"`
	Room                   string  `json:"room"`
	CampusDescription      string  `json:"campusDescription"`
	Category               string  `json:"category"`
	MeetingTypeDescription string  `json:"meetingTypeDescription"`
	HoursWeek              float64 `json:"hoursWeek"`

	Sunday    bool `json:"sunday"`
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
}

// CourseSearchRequest carries the query parameters the clients send.
type CourseSearchRequest struct {
	Term         string `form:"txtTerm"         binding:"required"`
	Subject      string `form:"txtSubject"`
	CourseNumber string `form:"txtCourseNumber"`
	Level        string `form:"txtLevel"`
	PageOffset   int    `form:"pageOffset"`
	PageMaxSize  int    `form:"pageMaxSize"`
}

// CourseSearchResponse is the upstream search envelope, passed through to
// the clients unchanged.
type CourseSearchResponse struct {
	Success     bool            `json:"success"`
	TotalCount  int             `json:"totalCount"`
	Data        []CourseSection `json:"data"`
	PageOffset  int             `json:"pageOffset"`
	PageMaxSize int             `json:"pageMaxSize"`
}

// Term is an academic period as returned by the registration system.
type Term struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
