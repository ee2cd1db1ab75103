package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/repository"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
)

const (
	profileCacheTTL = 5 * time.Minute
	lookupCacheTTL  = 30 * time.Minute

	specialtiesCacheKey = "specialties"
	citiesCacheKey      = "cities"
)

// Service covers doctor discovery and profile management. Public profile
// reads go through a small in-process cache since they dominate traffic.
type Service struct {
	doctorRepo repository.DoctorRepository
	cache      *gocache.Cache
	logger     *logger.Logger
}

func NewService(doctorRepo repository.DoctorRepository, l *logger.Logger) *Service {
	return &Service{
		doctorRepo: doctorRepo,
		cache:      gocache.New(profileCacheTTL, 10*time.Minute),
		logger:     l,
	}
}

// Get returns a doctor's profile, cached briefly.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*model.Doctor), nil
	}

	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id.String(), doctor, profileCacheTTL)
	return doctor, nil
}

// Search lists verified active doctors matching the filters. Results carry
// the total for pagination.
func (s *Service) Search(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error) {
	return s.doctorRepo.Search(ctx, filters)
}

// UpdateClinicInfo replaces the doctor's clinic configuration. The schedule
// template is validated here so the slot generator only ever sees templates
// that passed Validate.
func (s *Service) UpdateClinicInfo(ctx context.Context, id uuid.UUID, req *model.UpdateClinicInfoRequest) (*model.Doctor, error) {
	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	info := doctor.ClinicInfo
	if info == nil {
		info = &model.ClinicInfo{Currency: "SYP"}
	}

	if req.Schedule != nil {
		if err := req.Schedule.Validate(); err != nil {
			return nil, err
		}
		info.Schedule = *req.Schedule
	}
	if req.City != nil {
		info.City = req.City
	}
	if req.Area != nil {
		info.Area = req.Area
	}
	if req.DetailedAddress != nil {
		info.DetailedAddress = req.DetailedAddress
	}
	if req.ClinicPhone != nil {
		info.ClinicPhone = req.ClinicPhone
	}
	if req.ClinicEmail != nil {
		info.ClinicEmail = req.ClinicEmail
	}
	if req.ConsultationFee != nil {
		info.ConsultationFee = *req.ConsultationFee
	}
	if req.Currency != nil {
		info.Currency = *req.Currency
	}

	if info.Schedule.SessionDuration == 0 {
		return nil, errors.NewValidation("clinic info requires a schedule")
	}

	if err := s.doctorRepo.UpdateClinicInfo(ctx, id, info); err != nil {
		return nil, err
	}
	s.cache.Delete(id.String())

	return s.doctorRepo.Get(ctx, id)
}

// UpdateProfile updates bio, experience and declared specialties. New
// specialties start unverified.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, doctor *model.Doctor) (*model.Doctor, error) {
	for i := range doctor.Specialties {
		if doctor.Specialties[i].VerificationStatus == "" {
			doctor.Specialties[i].VerificationStatus = model.SpecialtyVerificationPending
		}
	}
	doctor.ID = id

	if err := s.doctorRepo.UpdateProfile(ctx, doctor); err != nil {
		return nil, err
	}
	s.cache.Delete(id.String())

	return s.doctorRepo.Get(ctx, id)
}

// ListSpecialties returns the distinct verified specialties, cached.
func (s *Service) ListSpecialties(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(specialtiesCacheKey); ok {
		return cached.([]string), nil
	}
	specialties, err := s.doctorRepo.ListSpecialties(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(specialtiesCacheKey, specialties, lookupCacheTTL)
	return specialties, nil
}

// ListCities returns the distinct clinic cities, cached.
func (s *Service) ListCities(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(citiesCacheKey); ok {
		return cached.([]string), nil
	}
	cities, err := s.doctorRepo.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(citiesCacheKey, cities, lookupCacheTTL)
	return cities, nil
}
