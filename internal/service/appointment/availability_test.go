package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	apperrors "github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

func availableCount(availability *DayAvailability) int {
	count := 0
	for _, slot := range availability.Slots {
		if slot.Available {
			count++
		}
	}
	return count
}

func TestAvailableSlotsWorkingDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date, err := time.Parse("2006-01-02", nextMonday())
	require.NoError(t, err)

	availability, err := f.service.AvailableSlots(ctx, f.doctorID, date)
	require.NoError(t, err)

	assert.True(t, availability.IsWorkingDay)
	assert.Equal(t, 30, availability.SessionDuration)
	require.Len(t, availability.Slots, 6)
	assert.Equal(t, 6, availableCount(availability))
	assert.Equal(t, "09:00", availability.Slots[0].StartTime.String())
	assert.Equal(t, "12:00", availability.Slots[5].EndTime.String())
}

func TestAvailableSlotsReflectBookingAndCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date, err := time.Parse("2006-01-02", nextMonday())
	require.NoError(t, err)

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "10:30", "11:00"))
	require.NoError(t, err)

	availability, err := f.service.AvailableSlots(ctx, f.doctorID, date)
	require.NoError(t, err)
	require.Len(t, availability.Slots, 6)
	assert.Equal(t, 5, availableCount(availability))
	for _, slot := range availability.Slots {
		if slot.StartTime.String() == "10:30" {
			assert.False(t, slot.Available)
		}
	}

	// Cancellation releases the slot.
	_, err = f.service.Cancel(ctx, appointment.ID, f.patientID, "schedule change")
	require.NoError(t, err)

	availability, err = f.service.AvailableSlots(ctx, f.doctorID, date)
	require.NoError(t, err)
	assert.Equal(t, 6, availableCount(availability))
}

func TestAvailableSlotsNonWorkingDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date, err := time.Parse("2006-01-02", nextMonday())
	require.NoError(t, err)
	tuesday := date.AddDate(0, 0, 1)

	availability, err := f.service.AvailableSlots(ctx, f.doctorID, tuesday)
	require.NoError(t, err)
	assert.False(t, availability.IsWorkingDay)
	assert.Empty(t, availability.Slots)
}

func TestAvailableSlotsUnknownDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AvailableSlots(context.Background(), uuid.New(), time.Now())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSlotWithinScheduleContainment(t *testing.T) {
	template := model.WeeklyScheduleTemplate{
		SessionDuration: 30,
		Days: map[model.Weekday]model.DaySchedule{
			model.Monday: {
				IsWorking:   true,
				WorkWindows: []model.TimeSlot{{StartTime: 9 * 60, EndTime: 12 * 60}},
			},
		},
	}
	monday, err := time.Parse("2006-01-02", nextMonday())
	require.NoError(t, err)

	// Any slot a window fully contains is acceptable, grid-aligned or not.
	assert.True(t, slotWithinSchedule(template, monday, model.TimeSlot{StartTime: 9*60 + 15, EndTime: 9*60 + 45}))
	assert.True(t, slotWithinSchedule(template, monday, model.TimeSlot{StartTime: 11*60 + 30, EndTime: 12 * 60}))

	// Spilling past the window, outside it, or on a non-working day is not.
	assert.False(t, slotWithinSchedule(template, monday, model.TimeSlot{StartTime: 11*60 + 45, EndTime: 12*60 + 15}))
	assert.False(t, slotWithinSchedule(template, monday, model.TimeSlot{StartTime: 8 * 60, EndTime: 8*60 + 30}))
	assert.False(t, slotWithinSchedule(template, monday.AddDate(0, 0, 1), model.TimeSlot{StartTime: 9 * 60, EndTime: 9*60 + 30}))
}
