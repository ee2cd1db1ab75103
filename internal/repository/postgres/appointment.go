package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	apperrors "github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

// activeSlotConstraint is the partial unique index over
// (doctor_id, appointment_date, start_time) scoped to active statuses.
// It is the authoritative double-booking guard; everything the service
// layer does before Insert is only a fast path.
const activeSlotConstraint = "appointments_active_slot_key"

const appointmentColumns = `
	id, doctor_id, patient_id, appointment_date, start_time, end_time,
	status, appointment_type, reason, notes, consultation_fee, currency,
	confirmed_at, completed_at, cancelled_at, cancelled_by, cancellation_reason,
	created_at, updated_at
`

func (r *appointmentRepository) Insert(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, appointment_date, start_time, end_time,
			status, appointment_type, reason, consultation_fee, currency,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now().UTC()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.AppointmentDate,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Type,
		appointment.Reason,
		appointment.ConsultationFee,
		appointment.Currency,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, activeSlotConstraint) {
			return apperrors.NewConflict("time slot is already booked")
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorDateSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime model.TimeOfDay) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND start_time = $3
		  AND status NOT IN ('cancelled', 'no_show')
	`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, doctorID, date, startTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active appointment by slot: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListActiveByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND status NOT IN ('cancelled', 'no_show')
		ORDER BY start_time
	`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to list active appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus performs a conditional write keyed on the expected current
// status. A false return means the row was missing or its status had moved
// on under a concurrent update; the service decides which.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected model.AppointmentStatus, patch model.StatusPatch) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1,
			confirmed_at = COALESCE($2, confirmed_at),
			completed_at = COALESCE($3, completed_at),
			cancelled_at = COALESCE($4, cancelled_at),
			cancelled_by = COALESCE($5, cancelled_by),
			cancellation_reason = COALESCE($6, cancellation_reason),
			updated_at = $7
		WHERE id = $8 AND status = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		patch.Status,
		patch.ConfirmedAt,
		patch.CompletedAt,
		patch.CancelledAt,
		patch.CancelledBy,
		patch.CancellationReason,
		time.Now().UTC(),
		id,
		expected,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error) {
	return r.list(ctx, "doctor_id", doctorID, dateRange)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error) {
	return r.list(ctx, "patient_id", patientID, dateRange)
}

func (r *appointmentRepository) list(ctx context.Context, column string, ownerID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE ` + column + ` = $1`
	args := []interface{}{ownerID}

	if dateRange.From != nil {
		args = append(args, *dateRange.From)
		query += fmt.Sprintf(" AND appointment_date >= $%d", len(args))
	}
	if dateRange.To != nil {
		args = append(args, *dateRange.To)
		query += fmt.Sprintf(" AND appointment_date <= $%d", len(args))
	}
	query += " ORDER BY appointment_date, start_time"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
