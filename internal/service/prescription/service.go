package prescription

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/repository"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
)

// defaultValidity is applied when the doctor gives no expiry.
const defaultValidity = 30 * 24 * time.Hour

// Service issues and serves prescriptions.
type Service struct {
	prescriptionRepo repository.PrescriptionRepository
	appointmentRepo  repository.AppointmentRepository
	userRepo         repository.UserRepository
	medicineRepo     repository.MedicineRepository
	logger           *logger.Logger
}

func NewService(
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	medicineRepo repository.MedicineRepository,
	l *logger.Logger,
) *Service {
	return &Service{
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
		userRepo:         userRepo,
		medicineRepo:     medicineRepo,
		logger:           l,
	}
}

// Create issues a prescription from the doctor to the patient. A linked
// appointment must belong to both parties.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, errors.NewValidation("patient_id is not a valid UUID")
	}
	if _, err := s.userRepo.ResolveActive(ctx, patientID, model.UserRolePatient); err != nil {
		return nil, err
	}

	var appointmentID *uuid.UUID
	if req.AppointmentID != nil {
		id, err := uuid.Parse(*req.AppointmentID)
		if err != nil {
			return nil, errors.NewValidation("appointment_id is not a valid UUID")
		}
		appointment, err := s.appointmentRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if appointment.DoctorID != doctorID || appointment.PatientID != patientID {
			return nil, errors.NewAuthorization("appointment does not belong to this doctor and patient")
		}
		appointmentID = &id
	}

	validUntil := time.Now().UTC().Add(defaultValidity)
	if req.ValidUntil != nil {
		parsed, err := time.Parse("2006-01-02", *req.ValidUntil)
		if err != nil {
			return nil, errors.NewValidation("valid_until must be in YYYY-MM-DD format")
		}
		if parsed.Before(time.Now()) {
			return nil, errors.NewValidation("valid_until cannot be in the past")
		}
		validUntil = parsed
	}

	number, err := generateNumber()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	prescription := &model.Prescription{
		DoctorID:            doctorID,
		PatientID:           patientID,
		AppointmentID:       appointmentID,
		PrescriptionNumber:  number,
		Diagnosis:           req.Diagnosis,
		Medicines:           req.Medicines,
		GeneralInstructions: req.GeneralInstructions,
		ValidUntil:          &validUntil,
	}
	if err := s.prescriptionRepo.Create(ctx, prescription); err != nil {
		return nil, err
	}

	s.logger.Info("prescription issued",
		"prescription_number", number,
		"doctor_id", doctorID.String(),
		"patient_id", patientID.String(),
	)
	return prescription, nil
}

// Get returns the prescription when the actor participates in it.
func (s *Service) Get(ctx context.Context, id, actorID uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.prescriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if prescription.DoctorID != actorID && prescription.PatientID != actorID {
		return nil, errors.NewAuthorization("prescription belongs to another user")
	}
	return prescription, nil
}

// ListForDoctor pages through prescriptions the doctor issued.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, p model.Pagination) ([]*model.Prescription, int, error) {
	return s.prescriptionRepo.ListByDoctor(ctx, doctorID, p)
}

// ListForPatient pages through prescriptions issued to the patient.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, p model.Pagination) ([]*model.Prescription, int, error) {
	return s.prescriptionRepo.ListByPatient(ctx, patientID, p)
}

// SearchMedicines queries the seeded medicine catalogue.
func (s *Service) SearchMedicines(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, int, error) {
	return s.medicineRepo.Search(ctx, filters)
}

// ListMedicineCategories returns the catalogue's distinct categories.
func (s *Service) ListMedicineCategories(ctx context.Context) ([]string, error) {
	return s.medicineRepo.ListCategories(ctx)
}

// generateNumber builds numbers like RX-20260901-483920. Uniqueness is
// enforced by the database; a collision surfaces as a conflict the caller
// may retry.
func generateNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate prescription number: %w", err)
	}
	return fmt.Sprintf("RX-%s-%06d", time.Now().UTC().Format("20060102"), n.Int64()), nil
}
