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

const doctorColumns = `
	u.id, u.full_name, u.email, u.phone_number, u.country_code, u.auth_method,
	u.password_hash, u.role, u.status, u.email_verified, u.phone_verified,
	u.profile_completed, u.last_login_at, u.created_at, u.updated_at,
	d.specialties, d.bio, d.years_of_experience, d.clinic_info, d.rating,
	d.reviews_count, d.total_appointments, d.documents_verified
`

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM users u
		JOIN doctors d ON d.user_id = u.id
		WHERE u.id = $1
	`

	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if err := decodeDoctor(&doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) Search(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error) {
	filters.Normalize()

	where := `
		WHERE u.role = 'doctor'
		  AND u.status = 'active'
		  AND d.documents_verified = TRUE
	`
	args := []interface{}{}

	if filters.Name != "" {
		args = append(args, "%"+filters.Name+"%")
		where += fmt.Sprintf(" AND u.full_name ILIKE $%d", len(args))
	}
	if filters.Specialty != "" {
		args = append(args, filters.Specialty)
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(d.specialties) s
			WHERE s->>'main_specialty' = $%d AND s->>'verification_status' = 'verified'
		)`, len(args))
	}
	if filters.City != "" {
		args = append(args, filters.City)
		where += fmt.Sprintf(" AND d.clinic_info->>'city' = $%d", len(args))
	}
	if filters.MinRating != nil {
		args = append(args, *filters.MinRating)
		where += fmt.Sprintf(" AND d.rating >= $%d", len(args))
	}
	if filters.MaxFee != nil {
		args = append(args, *filters.MaxFee)
		where += fmt.Sprintf(" AND (d.clinic_info->>'consultation_fee')::numeric <= $%d", len(args))
	}

	countQuery := `SELECT COUNT(*) FROM users u JOIN doctors d ON d.user_id = u.id ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	args = append(args, filters.PageSize, filters.Offset())
	query := `
		SELECT ` + doctorColumns + `
		FROM users u
		JOIN doctors d ON d.user_id = u.id
		` + where + fmt.Sprintf(`
		ORDER BY d.rating DESC NULLS LAST, u.full_name
		LIMIT $%d OFFSET $%d
	`, len(args)-1, len(args))

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search doctors: %w", err)
	}
	for _, doctor := range doctors {
		if err := decodeDoctor(doctor); err != nil {
			return nil, 0, err
		}
	}
	return doctors, total, nil
}

func (r *doctorRepository) UpdateClinicInfo(ctx context.Context, id uuid.UUID, info *model.ClinicInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode clinic info: %w", err)
	}

	query := `UPDATE doctors SET clinic_info = $1, updated_at = $2 WHERE user_id = $3`
	result, err := r.db.ExecContext(ctx, query, raw, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update clinic info: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, doctor *model.Doctor) error {
	specialties, err := json.Marshal(doctor.Specialties)
	if err != nil {
		return fmt.Errorf("failed to encode specialties: %w", err)
	}

	query := `
		UPDATE doctors
		SET specialties = $1, bio = $2, years_of_experience = $3, updated_at = $4
		WHERE user_id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		specialties, doctor.Bio, doctor.YearsOfExperience, time.Now().UTC(), doctor.ID)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) ListSpecialties(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT s->>'main_specialty'
		FROM doctors d, jsonb_array_elements(d.specialties) s
		WHERE s->>'verification_status' = 'verified'
		ORDER BY 1
	`
	var specialties []string
	if err := r.db.SelectContext(ctx, &specialties, query); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}

func (r *doctorRepository) ListCities(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT clinic_info->>'city'
		FROM doctors
		WHERE clinic_info->>'city' IS NOT NULL
		ORDER BY 1
	`
	var cities []string
	if err := r.db.SelectContext(ctx, &cities, query); err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

// decodeDoctor unpacks the JSONB payloads onto the typed fields.
func decodeDoctor(doctor *model.Doctor) error {
	if len(doctor.SpecialtiesRaw) > 0 {
		if err := json.Unmarshal(doctor.SpecialtiesRaw, &doctor.Specialties); err != nil {
			return fmt.Errorf("failed to decode specialties: %w", err)
		}
	}
	if len(doctor.ClinicInfoRaw) > 0 && string(doctor.ClinicInfoRaw) != "null" {
		var info model.ClinicInfo
		if err := json.Unmarshal(doctor.ClinicInfoRaw, &info); err != nil {
			return fmt.Errorf("failed to decode clinic info: %w", err)
		}
		doctor.ClinicInfo = &info
	}
	return nil
}
