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

const patientColumns = `
	u.id, u.full_name, u.email, u.phone_number, u.country_code, u.auth_method,
	u.password_hash, u.role, u.status, u.email_verified, u.phone_verified,
	u.profile_completed, u.last_login_at, u.created_at, u.updated_at,
	p.date_of_birth, p.gender, p.blood_type, p.medical_history, p.emergency_contact
`

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM users u
		JOIN patients p ON p.user_id = u.id
		WHERE u.id = $1
	`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("patient")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if err := decodePatient(&patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	history, err := json.Marshal(patient.MedicalHistory)
	if err != nil {
		return fmt.Errorf("failed to encode medical history: %w", err)
	}
	contact, err := json.Marshal(patient.EmergencyContact)
	if err != nil {
		return fmt.Errorf("failed to encode emergency contact: %w", err)
	}

	query := `
		UPDATE patients
		SET date_of_birth = $1, gender = $2, blood_type = $3,
			medical_history = $4, emergency_contact = $5, updated_at = $6
		WHERE user_id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		patient.DateOfBirth,
		patient.Gender,
		patient.BloodType,
		history,
		contact,
		time.Now().UTC(),
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("patient")
	}
	return nil
}

func decodePatient(patient *model.Patient) error {
	if len(patient.MedicalHistoryRaw) > 0 && string(patient.MedicalHistoryRaw) != "null" {
		var history model.MedicalHistory
		if err := json.Unmarshal(patient.MedicalHistoryRaw, &history); err != nil {
			return fmt.Errorf("failed to decode medical history: %w", err)
		}
		patient.MedicalHistory = &history
	}
	if len(patient.EmergencyContactRaw) > 0 && string(patient.EmergencyContactRaw) != "null" {
		var contact model.EmergencyContact
		if err := json.Unmarshal(patient.EmergencyContactRaw, &contact); err != nil {
			return fmt.Errorf("failed to decode emergency contact: %w", err)
		}
		patient.EmergencyContact = &contact
	}
	return nil
}
