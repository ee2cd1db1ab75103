package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/repository"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

// Service manages patient profiles.
type Service struct {
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
}

func NewService(patientRepo repository.PatientRepository, userRepo repository.UserRepository) *Service {
	return &Service{patientRepo: patientRepo, userRepo: userRepo}
}

// Get returns the patient profile. Doctors may look up patients they treat;
// patients only themselves. That check lives in the handler, which knows the
// actor.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.patientRepo.Get(ctx, id)
}

// UpdateProfile applies a partial update to the patient's own profile.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdatePatientProfileRequest) (*model.Patient, error) {
	patient, err := s.patientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		patient.FullName = *req.FullName
		if err := s.userRepo.Update(ctx, &patient.User); err != nil {
			return nil, err
		}
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, errors.NewValidation("date_of_birth must be in YYYY-MM-DD format")
		}
		if dob.After(time.Now()) {
			return nil, errors.NewValidation("date_of_birth cannot be in the future")
		}
		patient.DateOfBirth = &dob
	}
	if req.Gender != nil {
		patient.Gender = req.Gender
	}
	if req.BloodType != nil {
		patient.BloodType = req.BloodType
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = req.MedicalHistory
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = req.EmergencyContact
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return s.patientRepo.Get(ctx, id)
}
