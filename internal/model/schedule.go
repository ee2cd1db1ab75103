package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

// TimeOfDay is a minute-granularity time of day, serialized as "HH:MM".
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, errors.NewValidation(fmt.Sprintf("time must be in HH:MM format, got %q", s))
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.NewValidation(fmt.Sprintf("time must be in HH:MM format, got %q", s))
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.NewValidation(fmt.Sprintf("time must be in HH:MM format, got %q", s))
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, errors.NewValidation(fmt.Sprintf("time out of range: %q", s))
	}
	return TimeOfDay(hour*60 + minute), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// AddMinutes returns the time of day m minutes later.
func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	return t + TimeOfDay(m)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time as its "HH:MM" form, which compares correctly
// as text for 24-hour times.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		s = v.Format("15:04")
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	// TIME columns come back as "HH:MM:SS"
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeSlot is a [start, end) interval within a day.
type TimeSlot struct {
	StartTime TimeOfDay `json:"start_time" db:"start_time"`
	EndTime   TimeOfDay `json:"end_time" db:"end_time"`
}

// Duration returns the slot length in minutes.
func (s TimeSlot) Duration() int {
	return int(s.EndTime - s.StartTime)
}

// Contains reports whether other lies fully within s.
func (s TimeSlot) Contains(other TimeSlot) bool {
	return s.StartTime <= other.StartTime && other.EndTime <= s.EndTime
}

// Weekday names a day of the week as stored in schedule templates.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekdays = map[Weekday]struct{}{
	Monday: {}, Tuesday: {}, Wednesday: {}, Thursday: {},
	Friday: {}, Saturday: {}, Sunday: {},
}

// IsValid reports whether w is one of the seven known weekday keys.
func (w Weekday) IsValid() bool {
	_, ok := weekdays[w]
	return ok
}

// WeekdayOf maps a calendar date to its schedule key.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToLower(date.Weekday().String()))
}

// SessionDurations are the accepted per-appointment lengths in minutes.
var SessionDurations = []int{15, 30, 60}

func validSessionDuration(minutes int) bool {
	for _, d := range SessionDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// DaySchedule is one weekday's entry in a doctor's weekly template. Work
// windows may be stored unsorted and overlapping; consumers must not assume
// otherwise.
type DaySchedule struct {
	IsWorking   bool       `json:"is_working"`
	WorkWindows []TimeSlot `json:"work_windows"`
}

// Slots expands the day's work windows into consecutive fixed-length
// candidate slots. Windows are processed in stored order; a window shorter
// than the session duration yields nothing. A non-working day yields nil.
func (d DaySchedule) Slots(sessionDuration int) []TimeSlot {
	if !d.IsWorking || sessionDuration <= 0 {
		return nil
	}

	var slots []TimeSlot
	for _, window := range d.WorkWindows {
		for cursor := window.StartTime; cursor.AddMinutes(sessionDuration) <= window.EndTime; cursor = cursor.AddMinutes(sessionDuration) {
			slots = append(slots, TimeSlot{
				StartTime: cursor,
				EndTime:   cursor.AddMinutes(sessionDuration),
			})
		}
	}
	return slots
}

// ContainsSlot reports whether some work window fully contains the slot.
// Always false on non-working days.
func (d DaySchedule) ContainsSlot(slot TimeSlot) bool {
	if !d.IsWorking {
		return false
	}
	for _, window := range d.WorkWindows {
		if window.Contains(slot) {
			return true
		}
	}
	return false
}

// WeeklyScheduleTemplate is a doctor's recurring availability configuration.
// Missing weekday keys are treated as non-working.
type WeeklyScheduleTemplate struct {
	SessionDuration int                     `json:"session_duration"`
	Days            map[Weekday]DaySchedule `json:"days"`
}

// Validate rejects malformed templates before they reach slot generation.
func (t *WeeklyScheduleTemplate) Validate() error {
	if !validSessionDuration(t.SessionDuration) {
		return errors.NewValidation(fmt.Sprintf("session duration must be one of %v minutes", SessionDurations))
	}
	for day, schedule := range t.Days {
		if !day.IsValid() {
			return errors.NewValidation(fmt.Sprintf("unrecognized weekday %q", day))
		}
		for _, window := range schedule.WorkWindows {
			if window.StartTime >= window.EndTime {
				return errors.NewValidation(fmt.Sprintf("work window on %s has start %s not before end %s",
					day, window.StartTime, window.EndTime))
			}
		}
	}
	return nil
}

// DayFor returns the day schedule for a calendar date. The second result is
// false when the weekday is not configured at all.
func (t *WeeklyScheduleTemplate) DayFor(date time.Time) (DaySchedule, bool) {
	day, ok := t.Days[WeekdayOf(date)]
	return day, ok
}
