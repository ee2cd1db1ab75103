package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	parsed, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return parsed
}

func slot(t *testing.T, start, end string) TimeSlot {
	t.Helper()
	return TimeSlot{StartTime: mustTime(t, start), EndTime: mustTime(t, end)}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"09:30:00", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, TimeOfDay(tt.want), got, tt.input)
	}
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "08:05", "13:30", "23:59"} {
		parsed := mustTime(t, s)
		assert.Equal(t, s, parsed.String())
	}
}

func TestSlotsExpandsWindows(t *testing.T) {
	day := DaySchedule{
		IsWorking:   true,
		WorkWindows: []TimeSlot{slot(t, "09:00", "12:00")},
	}

	slots := day.Slots(30)
	require.Len(t, slots, 6)
	assert.Equal(t, slot(t, "09:00", "09:30"), slots[0])
	assert.Equal(t, slot(t, "11:30", "12:00"), slots[5])

	// Slots are consecutive and non-overlapping.
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].EndTime, slots[i].StartTime)
	}
}

func TestSlotsDiscardsPartialTail(t *testing.T) {
	day := DaySchedule{
		IsWorking:   true,
		WorkWindows: []TimeSlot{slot(t, "09:00", "10:45")},
	}

	slots := day.Slots(30)
	require.Len(t, slots, 3)
	assert.Equal(t, slot(t, "10:00", "10:30"), slots[2])
}

func TestSlotsWindowShorterThanSession(t *testing.T) {
	day := DaySchedule{
		IsWorking:   true,
		WorkWindows: []TimeSlot{slot(t, "09:00", "09:20")},
	}
	assert.Empty(t, day.Slots(30))
}

func TestSlotsNonWorkingDay(t *testing.T) {
	day := DaySchedule{
		IsWorking:   false,
		WorkWindows: []TimeSlot{slot(t, "09:00", "17:00")},
	}
	assert.Nil(t, day.Slots(30))
}

func TestSlotsMultipleWindowsStoredOrder(t *testing.T) {
	day := DaySchedule{
		IsWorking: true,
		WorkWindows: []TimeSlot{
			slot(t, "16:00", "18:00"),
			slot(t, "09:00", "10:00"),
		},
	}

	slots := day.Slots(60)
	require.Len(t, slots, 3)
	assert.Equal(t, slot(t, "16:00", "17:00"), slots[0])
	assert.Equal(t, slot(t, "17:00", "18:00"), slots[1])
	assert.Equal(t, slot(t, "09:00", "10:00"), slots[2])
}

func TestContainsSlot(t *testing.T) {
	day := DaySchedule{
		IsWorking:   true,
		WorkWindows: []TimeSlot{slot(t, "09:00", "12:00")},
	}

	assert.True(t, day.ContainsSlot(slot(t, "09:00", "09:30")))
	assert.True(t, day.ContainsSlot(slot(t, "11:30", "12:00")))
	assert.False(t, day.ContainsSlot(slot(t, "11:45", "12:15")))
	assert.False(t, day.ContainsSlot(slot(t, "08:30", "09:00")))

	day.IsWorking = false
	assert.False(t, day.ContainsSlot(slot(t, "09:00", "09:30")))
}

func TestTemplateValidate(t *testing.T) {
	valid := WeeklyScheduleTemplate{
		SessionDuration: 30,
		Days: map[Weekday]DaySchedule{
			Monday: {IsWorking: true, WorkWindows: []TimeSlot{slot(t, "09:00", "12:00")}},
			Friday: {IsWorking: false},
		},
	}
	assert.NoError(t, valid.Validate())

	badDuration := valid
	badDuration.SessionDuration = 45
	assert.Error(t, badDuration.Validate())

	badWindow := WeeklyScheduleTemplate{
		SessionDuration: 30,
		Days: map[Weekday]DaySchedule{
			Monday: {IsWorking: true, WorkWindows: []TimeSlot{slot(t, "12:00", "09:00")}},
		},
	}
	assert.Error(t, badWindow.Validate())

	emptyWindow := WeeklyScheduleTemplate{
		SessionDuration: 30,
		Days: map[Weekday]DaySchedule{
			Monday: {IsWorking: true, WorkWindows: []TimeSlot{slot(t, "09:00", "09:00")}},
		},
	}
	assert.Error(t, emptyWindow.Validate())

	badDay := WeeklyScheduleTemplate{
		SessionDuration: 30,
		Days: map[Weekday]DaySchedule{
			Weekday("someday"): {IsWorking: true},
		},
	}
	assert.Error(t, badDay.Validate())
}

func TestDayFor(t *testing.T) {
	template := WeeklyScheduleTemplate{
		SessionDuration: 30,
		Days: map[Weekday]DaySchedule{
			Monday: {IsWorking: true, WorkWindows: []TimeSlot{slot(t, "09:00", "12:00")}},
		},
	}

	// 2026-09-07 is a Monday.
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	day, ok := template.DayFor(monday)
	assert.True(t, ok)
	assert.True(t, day.IsWorking)

	// Tuesday is not configured, treated as non-working.
	_, ok = template.DayFor(monday.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)))
}
