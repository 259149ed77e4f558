package models

import (
	"fmt"
	"strconv"
	"time"
)

// Date and time layouts used on forms, in templates and in the export.
const (
	DateLayout             = "2006-01-02"
	InterviewInputLayout   = "2006-01-02T15:04" // HTML datetime-local
	InterviewDisplayLayout = "2006-01-02 15:04"
)

// Status is the closed set of stages an application moves through. Inputs are
// parsed through ParseStatus, so an unknown label can never be persisted.
type Status string

const (
	StatusPreparing       Status = "preparing"
	StatusApplied         Status = "applied"
	StatusWrittenTest     Status = "written_test"
	StatusFirstInterview  Status = "first_interview"
	StatusSecondInterview Status = "second_interview"
	StatusThirdInterview  Status = "third_interview"
	StatusHRInterview     Status = "hr_interview"
	StatusOffer           Status = "offer"
	StatusRejected        Status = "rejected"
)

// DefaultStatus is assigned when a new record does not name a stage.
const DefaultStatus = StatusApplied

var statusDisplay = map[Status]string{
	StatusPreparing:       "Preparing",
	StatusApplied:         "Applied",
	StatusWrittenTest:     "Written Test",
	StatusFirstInterview:  "First Interview",
	StatusSecondInterview: "Second Interview",
	StatusThirdInterview:  "Third Interview",
	StatusHRInterview:     "HR Interview",
	StatusOffer:           "Offer",
	StatusRejected:        "Rejected",
}

// StatusOptions lists every stage in progression order.
func StatusOptions() []Status {
	return []Status{
		StatusPreparing,
		StatusApplied,
		StatusWrittenTest,
		StatusFirstInterview,
		StatusSecondInterview,
		StatusThirdInterview,
		StatusHRInterview,
		StatusOffer,
		StatusRejected,
	}
}

// ParseStatus maps a raw label to a Status, rejecting anything outside the
// fixed set.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusDisplay[st]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Display returns the human-readable name of the stage.
func (s Status) Display() string {
	if d, ok := statusDisplay[s]; ok {
		return d
	}
	return string(s)
}

// Channel is the closed set of ways an application was submitted.
type Channel string

const (
	ChannelOfficialSite Channel = "official_site"
	ChannelJobBoard     Channel = "job_board"
	ChannelReferral     Channel = "referral"
	ChannelCampus       Channel = "campus"
	ChannelHeadhunter   Channel = "headhunter"
	ChannelOther        Channel = "other"
)

var channelDisplay = map[Channel]string{
	ChannelOfficialSite: "Official Site",
	ChannelJobBoard:     "Job Board",
	ChannelReferral:     "Referral",
	ChannelCampus:       "Campus Recruiting",
	ChannelHeadhunter:   "Headhunter",
	ChannelOther:        "Other",
}

// ChannelOptions lists every application channel.
func ChannelOptions() []Channel {
	return []Channel{
		ChannelOfficialSite,
		ChannelJobBoard,
		ChannelReferral,
		ChannelCampus,
		ChannelHeadhunter,
		ChannelOther,
	}
}

// ParseChannel maps a raw label to a Channel. The empty string is allowed
// (channel is optional).
func ParseChannel(s string) (Channel, error) {
	if s == "" {
		return "", nil
	}
	ch := Channel(s)
	if _, ok := channelDisplay[ch]; !ok {
		return "", fmt.Errorf("unknown channel %q", s)
	}
	return ch, nil
}

// Display returns the human-readable name of the channel.
func (ch Channel) Display() string {
	if d, ok := channelDisplay[ch]; ok {
		return d
	}
	return string(ch)
}

// Application is one job-application record owned by a user.
type Application struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"index;not null"`
	CompanyName   string    `gorm:"size:100;not null"`
	PositionName  string    `gorm:"size:100;not null"`
	ApplyDate     time.Time `gorm:"not null"`
	Status        Status    `gorm:"size:20;index;not null"`
	Notes         string    `gorm:"type:text"`
	SalaryMin     *int      // thousands
	SalaryMax     *int
	WorkLocation  string  `gorm:"size:100"`
	ApplyChannel  Channel `gorm:"size:50"`
	Referrer      string  `gorm:"size:50"`
	InterviewTime *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SalaryRange formats the salary bounds as "10-20K", or returns the empty
// string when either bound is missing.
func (a *Application) SalaryRange() string {
	if a.SalaryMin == nil || a.SalaryMax == nil {
		return ""
	}
	return fmt.Sprintf("%d-%dK", *a.SalaryMin, *a.SalaryMax)
}

// InterviewDisplay formats the interview time for templates and the export,
// blank when not scheduled.
func (a *Application) InterviewDisplay() string {
	if a.InterviewTime == nil {
		return ""
	}
	return a.InterviewTime.Format(InterviewDisplayLayout)
}

// InterviewInputValue formats the interview time for a datetime-local form
// field, blank when not scheduled.
func (a *Application) InterviewInputValue() string {
	if a.InterviewTime == nil {
		return ""
	}
	return a.InterviewTime.Format(InterviewInputLayout)
}

// SalaryMinDisplay and SalaryMaxDisplay render the optional bounds for form
// fields, blank when unset.
func (a *Application) SalaryMinDisplay() string { return intDisplay(a.SalaryMin) }

func (a *Application) SalaryMaxDisplay() string { return intDisplay(a.SalaryMax) }

func intDisplay(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
