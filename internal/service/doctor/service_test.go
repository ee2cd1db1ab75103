package doctor

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	apperrors "github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
)

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
	gets    int
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	f.gets++
	doctor, ok := f.doctors[id]
	if !ok {
		return nil, apperrors.NewNotFound("doctor")
	}
	clone := *doctor
	return &clone, nil
}

func (f *fakeDoctorRepo) Search(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error) {
	return nil, 0, nil
}

func (f *fakeDoctorRepo) UpdateClinicInfo(ctx context.Context, id uuid.UUID, info *model.ClinicInfo) error {
	doctor, ok := f.doctors[id]
	if !ok {
		return apperrors.NewNotFound("doctor")
	}
	doctor.ClinicInfo = info
	return nil
}

func (f *fakeDoctorRepo) UpdateProfile(ctx context.Context, doctor *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) ListSpecialties(ctx context.Context) ([]string, error)         { return nil, nil }
func (f *fakeDoctorRepo) ListCities(ctx context.Context) ([]string, error)              { return nil, nil }

func newTestService(repo *fakeDoctorRepo) *Service {
	return NewService(repo, logger.NewLogger(&logger.Config{Output: io.Discard}))
}

func validSchedule() *model.WeeklyScheduleTemplate {
	return &model.WeeklyScheduleTemplate{
		SessionDuration: 30,
		Days: map[model.Weekday]model.DaySchedule{
			model.Monday: {
				IsWorking: true,
				WorkWindows: []model.TimeSlot{
					{StartTime: 9 * 60, EndTime: 12 * 60},
				},
			},
		},
	}
}

func TestUpdateClinicInfoValidatesSchedule(t *testing.T) {
	id := uuid.New()
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		id: {User: model.User{Base: model.Base{ID: id}}},
	}}
	service := newTestService(repo)
	ctx := context.Background()

	// A 45-minute session is not an accepted duration.
	bad := validSchedule()
	bad.SessionDuration = 45
	_, err := service.UpdateClinicInfo(ctx, id, &model.UpdateClinicInfoRequest{Schedule: bad})
	assert.True(t, apperrors.IsValidation(err))

	fee := 25000.0
	doctor, err := service.UpdateClinicInfo(ctx, id, &model.UpdateClinicInfoRequest{
		Schedule:        validSchedule(),
		ConsultationFee: &fee,
	})
	require.NoError(t, err)
	require.NotNil(t, doctor.ClinicInfo)
	assert.Equal(t, 30, doctor.ClinicInfo.Schedule.SessionDuration)
	assert.Equal(t, 25000.0, doctor.ClinicInfo.ConsultationFee)
}

func TestUpdateClinicInfoRequiresScheduleOnFirstSetup(t *testing.T) {
	id := uuid.New()
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		id: {User: model.User{Base: model.Base{ID: id}}},
	}}
	service := newTestService(repo)

	fee := 10000.0
	_, err := service.UpdateClinicInfo(context.Background(), id, &model.UpdateClinicInfoRequest{
		ConsultationFee: &fee,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetCachesProfile(t *testing.T) {
	id := uuid.New()
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		id: {User: model.User{Base: model.Base{ID: id}}},
	}}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.Get(ctx, id)
	require.NoError(t, err)
	_, err = service.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets)
}

func TestUpdateClinicInfoInvalidatesCache(t *testing.T) {
	id := uuid.New()
	repo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		id: {User: model.User{Base: model.Base{ID: id}}},
	}}
	service := newTestService(repo)
	ctx := context.Background()

	_, err := service.Get(ctx, id)
	require.NoError(t, err)

	_, err = service.UpdateClinicInfo(ctx, id, &model.UpdateClinicInfoRequest{Schedule: validSchedule()})
	require.NoError(t, err)

	doctor, err := service.Get(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, doctor.ClinicInfo)
}
