package appointment

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	apperrors "github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/metrics"
)

// Prometheus collectors register globally, so the test binary shares one set.
var testMetrics = metrics.NewMetrics("domecare_test", "appointments")

// fakeAppointmentRepo guards its state with a mutex and enforces the same
// active-slot uniqueness the partial unique index provides, so concurrent
// booking behaves like it does against Postgres.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Insert(ctx context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.appointments {
		if existing.DoctorID == appointment.DoctorID &&
			existing.AppointmentDate.Equal(appointment.AppointmentDate) &&
			existing.StartTime == appointment.StartTime &&
			existing.Status.IsActive() {
			return apperrors.NewConflict("time slot is already booked")
		}
	}

	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now().UTC()
	appointment.UpdatedAt = appointment.CreatedAt
	clone := *appointment
	f.appointments[appointment.ID] = &clone
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NewNotFound("appointment")
	}
	clone := *appointment
	return &clone, nil
}

func (f *fakeAppointmentRepo) FindActiveByDoctorDateSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime model.TimeOfDay) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, appointment := range f.appointments {
		if appointment.DoctorID == doctorID &&
			appointment.AppointmentDate.Equal(date) &&
			appointment.StartTime == startTime &&
			appointment.Status.IsActive() {
			clone := *appointment
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) ListActiveByDoctorDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.DoctorID == doctorID &&
			appointment.AppointmentDate.Equal(date) &&
			appointment.Status.IsActive() {
			clone := *appointment
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected model.AppointmentStatus, patch model.StatusPatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok || appointment.Status != expected {
		return false, nil
	}

	appointment.Status = patch.Status
	if patch.ConfirmedAt != nil {
		appointment.ConfirmedAt = patch.ConfirmedAt
	}
	if patch.CompletedAt != nil {
		appointment.CompletedAt = patch.CompletedAt
	}
	if patch.CancelledAt != nil {
		appointment.CancelledAt = patch.CancelledAt
	}
	if patch.CancelledBy != nil {
		appointment.CancelledBy = patch.CancelledBy
	}
	if patch.CancellationReason != nil {
		appointment.CancellationReason = patch.CancellationReason
	}
	appointment.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeAppointmentRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.DoctorID == doctorID && inRange(appointment.AppointmentDate, dateRange) {
			clone := *appointment
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.PatientID == patientID && inRange(appointment.AppointmentDate, dateRange) {
			clone := *appointment
			result = append(result, &clone)
		}
	}
	return result, nil
}

func inRange(date time.Time, dateRange model.DateRange) bool {
	if dateRange.From != nil && date.Before(*dateRange.From) {
		return false
	}
	if dateRange.To != nil && date.After(*dateRange.To) {
		return false
	}
	return true
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, ok := f.doctors[id]
	if !ok {
		return nil, apperrors.NewNotFound("doctor")
	}
	return doctor, nil
}

func (f *fakeDoctorRepo) Search(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, int, error) {
	return nil, 0, nil
}

func (f *fakeDoctorRepo) UpdateClinicInfo(ctx context.Context, id uuid.UUID, info *model.ClinicInfo) error {
	return nil
}

func (f *fakeDoctorRepo) UpdateProfile(ctx context.Context, doctor *model.Doctor) error {
	return nil
}

func (f *fakeDoctorRepo) ListSpecialties(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeDoctorRepo) ListCities(ctx context.Context) ([]string, error)      { return nil, nil }

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user")
	}
	return user, nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	return nil, apperrors.NewNotFound("user")
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserRepo) ResolveActive(ctx context.Context, id uuid.UUID, role string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok || user.Role != role || user.Status != model.UserStatusActive {
		return nil, apperrors.NewNotFound(role)
	}
	return user, nil
}

type fixture struct {
	service   *Service
	repo      *fakeAppointmentRepo
	doctorID  uuid.UUID
	patientID uuid.UUID
}

// newFixture builds a service around a doctor working Mondays 09:00-12:00
// with 30-minute sessions.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctorID := uuid.New()
	patientID := uuid.New()

	doctor := &model.Doctor{
		User: model.User{
			Base:   model.Base{ID: doctorID},
			Role:   model.UserRoleDoctor,
			Status: model.UserStatusActive,
		},
		DocumentsVerified: true,
		ClinicInfo: &model.ClinicInfo{
			Schedule: model.WeeklyScheduleTemplate{
				SessionDuration: 30,
				Days: map[model.Weekday]model.DaySchedule{
					model.Monday: {
						IsWorking: true,
						WorkWindows: []model.TimeSlot{
							{StartTime: 9 * 60, EndTime: 12 * 60},
						},
					},
				},
			},
			ConsultationFee: 50000,
			Currency:        "SYP",
		},
	}
	patient := &model.User{
		Base:   model.Base{ID: patientID},
		Role:   model.UserRolePatient,
		Status: model.UserStatusActive,
	}

	repo := newFakeAppointmentRepo()
	service := NewService(
		repo,
		&fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{doctorID: doctor}},
		&fakeUserRepo{users: map[uuid.UUID]*model.User{patientID: patient, doctorID: &doctor.User}},
		nil,
		testMetrics,
		logger.NewLogger(&logger.Config{Output: io.Discard}),
	)

	return &fixture{service: service, repo: repo, doctorID: doctorID, patientID: patientID}
}

// nextMonday returns a Monday at least a week out, formatted for requests.
func nextMonday() string {
	date := time.Now().UTC().AddDate(0, 0, 7)
	for date.Weekday() != time.Monday {
		date = date.AddDate(0, 0, 1)
	}
	return date.Format("2006-01-02")
}

func bookRequest(f *fixture, start, end string) *model.BookAppointmentRequest {
	return &model.BookAppointmentRequest{
		DoctorID: f.doctorID.String(),
		Date:     nextMonday(),
		TimeSlot: model.TimeSlotRequest{StartTime: start, EndTime: end},
		Type:     model.AppointmentTypeConsultation,
	}
}

func TestBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "09:30"))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, f.doctorID, appointment.DoctorID)
	assert.Equal(t, f.patientID, appointment.PatientID)
	assert.Equal(t, "09:00", appointment.StartTime.String())
	assert.Equal(t, "09:30", appointment.EndTime.String())
	assert.Equal(t, 50000.0, appointment.ConsultationFee)
	assert.Equal(t, "SYP", appointment.Currency)
}

func TestBookRejectsSlotOutsideSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Outside the work window.
	_, err := f.service.Book(ctx, f.patientID, bookRequest(f, "13:00", "13:30"))
	assert.True(t, apperrors.IsValidation(err))

	// Spills past the end of the window.
	_, err = f.service.Book(ctx, f.patientID, bookRequest(f, "11:45", "12:15"))
	assert.True(t, apperrors.IsValidation(err))

	// Wrong duration.
	_, err = f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "10:00"))
	assert.True(t, apperrors.IsValidation(err))

	// Wrong day: the doctor only works Mondays.
	req := bookRequest(f, "09:00", "09:30")
	tuesday, _ := time.Parse("2006-01-02", req.Date)
	req.Date = tuesday.AddDate(0, 0, 1).Format("2006-01-02")
	_, err = f.service.Book(ctx, f.patientID, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBookAcceptsSlotOffTheGeneratedGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Session-length slot fully inside a work window books fine even when
	// it does not start on a generated slot boundary.
	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:15", "09:45"))
	require.NoError(t, err)
	assert.Equal(t, "09:15", appointment.StartTime.String())
	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
}

func TestBookRejectsPastDate(t *testing.T) {
	f := newFixture(t)

	req := bookRequest(f, "09:00", "09:30")
	req.Date = "2020-01-06"
	_, err := f.service.Book(context.Background(), f.patientID, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBookConflictOnTakenSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "09:30"))
	require.NoError(t, err)

	_, err = f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "09:30"))
	assert.True(t, apperrors.IsConflict(err))
}

func TestBookConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Book(ctx, f.patientID, bookRequest(f, "10:00", "10:30"))
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperrors.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestCancelRequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "09:30"))
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, appointment.ID, f.patientID, "")
	assert.True(t, apperrors.IsValidation(err))
	_, err = f.service.Cancel(ctx, appointment.ID, f.patientID, "   ")
	assert.True(t, apperrors.IsValidation(err))

	// Still active and cancellable with a real reason.
	cancelled, err := f.service.Cancel(ctx, appointment.ID, f.patientID, "schedule change")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:30", "10:00"))
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(ctx, appointment.ID, f.patientID, "cannot make it")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, f.patientID, *cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "cannot make it", *cancelled.CancellationReason)

	// The slot is free again.
	_, err = f.service.Book(ctx, f.patientID, bookRequest(f, "09:30", "10:00"))
	assert.NoError(t, err)
}

func TestDoctorLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "11:00", "11:30"))
	require.NoError(t, err)

	confirmed, err := f.service.ChangeStatus(ctx, appointment.ID, f.doctorID, model.UserRoleDoctor, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.ConfirmedAt)

	completed, err := f.service.ChangeStatus(ctx, appointment.ID, f.doctorID, model.UserRoleDoctor, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Completed is terminal.
	_, err = f.service.ChangeStatus(ctx, appointment.ID, f.doctorID, model.UserRoleDoctor, model.AppointmentStatusConfirmed)
	assert.True(t, apperrors.IsConflict(err))
	_, err = f.service.Cancel(ctx, appointment.ID, f.patientID, "too late")
	assert.True(t, apperrors.IsConflict(err))
}

func TestChangeStatusAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "09:30"))
	require.NoError(t, err)

	// The patient cannot confirm.
	_, err = f.service.ChangeStatus(ctx, appointment.ID, f.patientID, model.UserRolePatient, model.AppointmentStatusConfirmed)
	assert.True(t, apperrors.IsAuthorization(err))

	// Another doctor cannot touch it either.
	_, err = f.service.ChangeStatus(ctx, appointment.ID, uuid.New(), model.UserRoleDoctor, model.AppointmentStatusConfirmed)
	assert.True(t, apperrors.IsAuthorization(err))

	// Cancellation must go through Cancel so a reason is captured.
	_, err = f.service.ChangeStatus(ctx, appointment.ID, f.doctorID, model.UserRoleDoctor, model.AppointmentStatusCancelled)
	assert.True(t, apperrors.IsValidation(err))

	// A stranger cannot cancel.
	_, err = f.service.Cancel(ctx, appointment.ID, uuid.New(), "not mine")
	assert.True(t, apperrors.IsAuthorization(err))
}

func TestPendingToCompletedRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "09:30"))
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(ctx, appointment.ID, f.doctorID, model.UserRoleDoctor, model.AppointmentStatusCompleted)
	assert.True(t, apperrors.IsConflict(err))
}

func TestGetRequiresParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment, err := f.service.Book(ctx, f.patientID, bookRequest(f, "09:00", "09:30"))
	require.NoError(t, err)

	_, err = f.service.Get(ctx, appointment.ID, f.patientID)
	assert.NoError(t, err)
	_, err = f.service.Get(ctx, appointment.ID, f.doctorID)
	assert.NoError(t, err)
	_, err = f.service.Get(ctx, appointment.ID, uuid.New())
	assert.True(t, apperrors.IsAuthorization(err))
}
