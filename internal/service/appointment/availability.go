package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

// AvailableSlot is one candidate slot with its booking state.
type AvailableSlot struct {
	model.TimeSlot
	Available bool `json:"is_available"`
}

// DayAvailability is the availability response for one doctor and date.
type DayAvailability struct {
	DoctorID        uuid.UUID       `json:"doctor_id"`
	Date            string          `json:"date"`
	IsWorkingDay    bool            `json:"is_working_day"`
	SessionDuration int             `json:"session_duration"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlots expands the doctor's template for the date and marks each
// candidate slot as taken when an active appointment holds its start time.
// A doctor without a configured schedule is an error; a configured
// non-working day is an empty, well-formed response.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) (*DayAvailability, error) {
	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor.ClinicInfo == nil {
		return nil, errors.NewValidation("doctor has not configured a schedule")
	}

	template := doctor.ClinicInfo.Schedule
	availability := &DayAvailability{
		DoctorID:        doctorID,
		Date:            date.Format("2006-01-02"),
		SessionDuration: template.SessionDuration,
		Slots:           []AvailableSlot{},
	}

	day, ok := template.DayFor(date)
	if !ok || !day.IsWorking {
		return availability, nil
	}
	availability.IsWorkingDay = true

	booked, err := s.appointmentRepo.ListActiveByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[model.TimeOfDay]struct{}, len(booked))
	for _, appointment := range booked {
		taken[appointment.StartTime] = struct{}{}
	}

	for _, slot := range day.Slots(template.SessionDuration) {
		_, isTaken := taken[slot.StartTime]
		availability.Slots = append(availability.Slots, AvailableSlot{
			TimeSlot:  slot,
			Available: !isTaken,
		})
	}

	s.metrics.SlotsGenerated.Observe(float64(len(availability.Slots)))
	return availability, nil
}

// slotWithinSchedule reports whether some work window for the date fully
// contains the requested slot. Alignment to the generated grid is not
// required; the slot's duration is checked separately at booking time.
func slotWithinSchedule(template model.WeeklyScheduleTemplate, date time.Time, slot model.TimeSlot) bool {
	day, ok := template.DayFor(date)
	if !ok {
		return false
	}
	return day.ContainsSlot(slot)
}
