package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles account records for every role.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		// ResolveActive returns the user only when it exists, carries the
		// expected role and is active; otherwise a typed not-found error.
		ResolveActive(ctx context.Context, id uuid.UUID, role string) (*model.User, error)
	}

	// DoctorRepository reads and updates doctor profiles including the
	// weekly schedule template.
	DoctorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		Search(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error)
		UpdateClinicInfo(ctx context.Context, id uuid.UUID, info *model.ClinicInfo) error
		UpdateProfile(ctx context.Context, doctor *model.Doctor) error
		ListSpecialties(ctx context.Context) ([]string, error)
		ListCities(ctx context.Context) ([]string, error)
	}

	// PatientRepository reads and updates patient profiles.
	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
	}

	// AppointmentRepository owns appointment persistence. Insert relies on a
	// partial unique index over (doctor_id, appointment_date, start_time)
	// scoped to active statuses; a losing concurrent writer gets a typed
	// conflict error. UpdateStatus is a conditional write keyed on the
	// expected current status.
	AppointmentRepository interface {
		Insert(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		FindActiveByDoctorDateSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime model.TimeOfDay) (*model.Appointment, error)
		ListActiveByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, expected model.AppointmentStatus, patch model.StatusPatch) (bool, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error)
	}

	// PrescriptionRepository stores issued prescriptions.
	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID, p model.Pagination) ([]*model.Prescription, int, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID, p model.Pagination) ([]*model.Prescription, int, error)
	}

	// MedicineRepository searches the seeded medicine catalogue.
	MedicineRepository interface {
		Search(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, int, error)
		ListCategories(ctx context.Context) ([]string, error)
	}

	// TokenRepository stores one-time verification codes.
	TokenRepository interface {
		Store(ctx context.Context, token *model.VerificationToken) error
		// Consume atomically marks a live token as used; false when no
		// matching unexpired, unused token exists.
		Consume(ctx context.Context, userID uuid.UUID, token, tokenType string) (bool, error)
	}
)
