package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is a closed enumeration; transitions go through
// CanTransitionTo, the single source of truth for the state machine.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// appointmentTransitions is the allowed-transition table:
// pending -> confirmed -> completed, with cancelled and no_show reachable
// from pending or confirmed. Terminal statuses have no entries.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusConfirmed,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
}

// IsValid reports whether s is a known status.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions leave s.
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0 && s.IsValid()
}

// IsActive reports whether an appointment in this status still occupies its
// slot for conflict purposes.
func (s AppointmentStatus) IsActive() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusNoShow
}

// CanTransitionTo consults the transition table.
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AppointmentType classifies the visit.
type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeFollowUp     AppointmentType = "follow_up"
	AppointmentTypeCheckUp      AppointmentType = "check_up"
	AppointmentTypeEmergency    AppointmentType = "emergency"
)

func (t AppointmentType) IsValid() bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeFollowUp,
		AppointmentTypeCheckUp, AppointmentTypeEmergency:
		return true
	}
	return false
}

// Appointment is one booked slot. Records are never deleted; cancellation is
// a status transition.
type Appointment struct {
	Base
	DoctorID        uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	PatientID       uuid.UUID         `json:"patient_id" db:"patient_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	StartTime       TimeOfDay         `json:"-" db:"start_time"`
	EndTime         TimeOfDay         `json:"-" db:"end_time"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Type            AppointmentType   `json:"appointment_type" db:"appointment_type"`
	Reason          *string           `json:"reason,omitempty" db:"reason"`
	Notes           *string           `json:"notes,omitempty" db:"notes"`

	// Fee snapshot taken from the doctor's profile at booking time.
	ConsultationFee float64 `json:"consultation_fee" db:"consultation_fee"`
	Currency        string  `json:"currency" db:"currency"`

	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelledBy        *uuid.UUID `json:"cancelled_by,omitempty" db:"cancelled_by"`
	CancellationReason *string    `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
}

// TimeSlot returns the appointment's slot.
func (a *Appointment) TimeSlot() TimeSlot {
	return TimeSlot{StartTime: a.StartTime, EndTime: a.EndTime}
}

type appointmentAlias Appointment

// MarshalJSON nests the slot the way clients expect.
func (a Appointment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		*appointmentAlias
		TimeSlot TimeSlot `json:"time_slot"`
	}{
		appointmentAlias: (*appointmentAlias)(&a),
		TimeSlot:         a.TimeSlot(),
	})
}

// BookAppointmentRequest is a patient's booking submission. The slot is
// free-form here; the lifecycle engine checks it against the doctor's
// schedule.
type BookAppointmentRequest struct {
	DoctorID string          `json:"doctor_id" binding:"required,uuid"`
	Date     string          `json:"appointment_date" binding:"required"`
	TimeSlot TimeSlotRequest `json:"time_slot" binding:"required"`
	Type     AppointmentType `json:"appointment_type" binding:"required,oneof=consultation follow_up check_up emergency"`
	Reason   *string         `json:"reason" binding:"omitempty,max=500"`
}

// TimeSlotRequest carries raw HH:MM strings so malformed input fails with a
// validation error instead of a bind error.
type TimeSlotRequest struct {
	StartTime string `json:"start_time" binding:"required,timeofday"`
	EndTime   string `json:"end_time" binding:"required,timeofday"`
}

// Parse converts the raw strings into a TimeSlot.
func (r TimeSlotRequest) Parse() (TimeSlot, error) {
	start, err := ParseTimeOfDay(r.StartTime)
	if err != nil {
		return TimeSlot{}, err
	}
	end, err := ParseTimeOfDay(r.EndTime)
	if err != nil {
		return TimeSlot{}, err
	}
	return TimeSlot{StartTime: start, EndTime: end}, nil
}

// UpdateStatusRequest asks for one state-machine transition.
type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=confirmed completed cancelled no_show"`
}

// CancelAppointmentRequest carries the mandatory cancellation reason.
type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// StatusPatch is the field set applied by a conditional status update.
type StatusPatch struct {
	Status             AppointmentStatus
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancelledBy        *uuid.UUID
	CancellationReason *string
}

// AppointmentFilters bounds appointment list queries.
type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	DateRange DateRange
}
