package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Weekday day of the week as it appears on the wire
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays all weekdays in calendar order starting from Monday
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayByTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// ParseWeekday parses a weekday name, rejecting anything outside Monday..Sunday
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// WeekdayOf returns the weekday of a calendar date
func WeekdayOf(date time.Time) Weekday {
	return weekdayByTime[date.Weekday()]
}

// WeeklyTemplateEntry recurring availability of a provider on one weekday
type WeeklyTemplateEntry struct {
	Day             Weekday
	StartTime       types.TimeString
	EndTime         types.TimeString
	CapacityPerSlot int
}

// Provider a doctor together with the versioned weekly template slots are generated from.
// Generation is incremented on every regeneration of the slot set.
type Provider struct {
	ID             int64
	ClinicLocation *string
	Generation     int64
	Template       []WeeklyTemplateEntry
	UpdatedAt      time.Time
}

// EntryFor returns the template entry for the weekday, if any
func (p *Provider) EntryFor(day Weekday) (WeeklyTemplateEntry, bool) {
	for _, e := range p.Template {
		if e.Day == day {
			return e, true
		}
	}
	return WeeklyTemplateEntry{}, false
}

// HasTemplate returns true if the provider has at least one working day
func (p *Provider) HasTemplate() bool {
	return len(p.Template) > 0
}
