package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to AppointmentStatus }{
		{AppointmentStatusPending, AppointmentStatusConfirmed},
		{AppointmentStatusPending, AppointmentStatusCancelled},
		{AppointmentStatusPending, AppointmentStatusNoShow},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled},
		{AppointmentStatusConfirmed, AppointmentStatusNoShow},
	}
	for _, tt := range allowed {
		assert.True(t, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to AppointmentStatus }{
		{AppointmentStatusPending, AppointmentStatusCompleted},
		{AppointmentStatusCompleted, AppointmentStatusConfirmed},
		{AppointmentStatusCancelled, AppointmentStatusPending},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed},
		{AppointmentStatusNoShow, AppointmentStatusCompleted},
		{AppointmentStatusConfirmed, AppointmentStatusPending},
	}
	for _, tt := range denied {
		assert.False(t, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusTerminalAndActive(t *testing.T) {
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusConfirmed.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusNoShow.IsTerminal())

	// Completed appointments keep their slot; only cancelled and no_show
	// release it.
	assert.True(t, AppointmentStatusPending.IsActive())
	assert.True(t, AppointmentStatusConfirmed.IsActive())
	assert.True(t, AppointmentStatusCompleted.IsActive())
	assert.False(t, AppointmentStatusCancelled.IsActive())
	assert.False(t, AppointmentStatusNoShow.IsActive())
}

func TestAppointmentJSONNestsTimeSlot(t *testing.T) {
	appointment := Appointment{
		StartTime: 570,
		EndTime:   600,
		Status:    AppointmentStatusPending,
		Type:      AppointmentTypeConsultation,
	}

	raw, err := json.Marshal(appointment)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	timeSlot, ok := decoded["time_slot"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "09:30", timeSlot["start_time"])
	assert.Equal(t, "10:00", timeSlot["end_time"])
}

func TestTimeSlotRequestParse(t *testing.T) {
	parsed, err := TimeSlotRequest{StartTime: "09:00", EndTime: "09:30"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, 30, parsed.Duration())

	_, err = TimeSlotRequest{StartTime: "9am", EndTime: "09:30"}.Parse()
	assert.Error(t, err)
}
