package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	apperrors "github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

const prescriptionColumns = `
	id, doctor_id, patient_id, appointment_id, prescription_number, diagnosis,
	medicines, general_instructions, valid_until, created_at, updated_at
`

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	medicines, err := json.Marshal(prescription.Medicines)
	if err != nil {
		return fmt.Errorf("failed to encode medicines: %w", err)
	}

	query := `
		INSERT INTO prescriptions (
			id, doctor_id, patient_id, appointment_id, prescription_number,
			diagnosis, medicines, general_instructions, valid_until,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	prescription.ID = uuid.New()
	prescription.CreatedAt = time.Now().UTC()
	prescription.UpdatedAt = prescription.CreatedAt

	_, err = r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.DoctorID,
		prescription.PatientID,
		prescription.AppointmentID,
		prescription.PrescriptionNumber,
		prescription.Diagnosis,
		medicines,
		prescription.GeneralInstructions,
		prescription.ValidUntil,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "prescriptions_prescription_number_key") {
			return apperrors.NewConflict("prescription number already exists")
		}
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1`

	var prescription model.Prescription
	err := r.db.GetContext(ctx, &prescription, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("prescription")
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	if err := decodePrescription(&prescription); err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, p model.Pagination) ([]*model.Prescription, int, error) {
	return r.list(ctx, "doctor_id", doctorID, p)
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, p model.Pagination) ([]*model.Prescription, int, error) {
	return r.list(ctx, "patient_id", patientID, p)
}

func (r *prescriptionRepository) list(ctx context.Context, column string, ownerID uuid.UUID, p model.Pagination) ([]*model.Prescription, int, error) {
	p.Normalize()

	countQuery := `SELECT COUNT(*) FROM prescriptions WHERE ` + column + ` = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	query := `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, ownerID, p.PageSize, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	for _, prescription := range prescriptions {
		if err := decodePrescription(prescription); err != nil {
			return nil, 0, err
		}
	}
	return prescriptions, total, nil
}

func decodePrescription(prescription *model.Prescription) error {
	if len(prescription.MedicinesRaw) > 0 {
		if err := json.Unmarshal(prescription.MedicinesRaw, &prescription.Medicines); err != nil {
			return fmt.Errorf("failed to decode medicines: %w", err)
		}
	}
	return nil
}
