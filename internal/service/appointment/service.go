package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	"github.com/obadakatsha-ayatgroup/domecare-app/internal/repository"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/messaging"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/metrics"
)

// Service owns the appointment lifecycle: booking against a doctor's weekly
// template, availability queries and the status state machine.
type Service struct {
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	userRepo        repository.UserRepository
	broker          messaging.Broker
	metrics         *metrics.Metrics
	logger          *logger.Logger
}

func NewService(
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	l *logger.Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		broker:          broker,
		metrics:         m,
		logger:          l,
	}
}

// Book creates a pending appointment for the patient. The slot must be
// session-length, fit inside one of the doctor's work windows for that date
// and not be held by an active appointment. The availability check here is
// a fast path; the database unique index is what actually prevents double
// booking, so a losing concurrent writer still comes back as a conflict.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	started := time.Now()

	appointment, err := s.book(ctx, patientID, req)
	s.metrics.BookingLatency.Observe(time.Since(started).Seconds())
	if err != nil {
		if errors.IsConflict(err) {
			s.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
			s.metrics.BookingConflicts.Inc()
		} else if errors.IsValidation(err) || errors.IsNotFound(err) {
			s.metrics.BookingsTotal.WithLabelValues("rejected").Inc()
		} else {
			s.metrics.BookingsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.metrics.BookingsTotal.WithLabelValues("success").Inc()
	s.publish(ctx, messaging.ChannelAppointmentBooked, appointment)
	return appointment, nil
}

func (s *Service) book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, errors.NewValidation("doctor_id is not a valid UUID")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.NewValidation("appointment_date must be in YYYY-MM-DD format")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, errors.NewValidation("appointment date cannot be in the past")
	}

	slot, err := req.TimeSlot.Parse()
	if err != nil {
		return nil, err
	}
	if slot.StartTime >= slot.EndTime {
		return nil, errors.NewValidation("slot start time must be before end time")
	}

	if _, err := s.userRepo.ResolveActive(ctx, patientID, model.UserRolePatient); err != nil {
		return nil, err
	}

	doctor, err := s.doctorRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Bookable() {
		return nil, errors.NewValidation("doctor is not accepting appointments")
	}

	template := doctor.ClinicInfo.Schedule
	if slot.Duration() != template.SessionDuration {
		return nil, errors.NewValidation(fmt.Sprintf("slot must be exactly %d minutes", template.SessionDuration))
	}
	if !slotWithinSchedule(template, date, slot) {
		return nil, errors.NewValidation("requested slot is outside the doctor's working hours")
	}

	existing, err := s.appointmentRepo.FindActiveByDoctorDateSlot(ctx, doctorID, date, slot.StartTime)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewConflict("time slot is already booked")
	}

	appointment := &model.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentDate: date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		Status:          model.AppointmentStatusPending,
		Type:            req.Type,
		Reason:          req.Reason,
		ConsultationFee: doctor.ClinicInfo.ConsultationFee,
		Currency:        doctor.ClinicInfo.Currency,
	}

	if err := s.appointmentRepo.Insert(ctx, appointment); err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		"appointment_id", appointment.ID.String(),
		"doctor_id", doctorID.String(),
		"patient_id", patientID.String(),
		"date", req.Date,
		"start_time", slot.StartTime.String(),
	)
	return appointment, nil
}

// Get returns the appointment when the actor participates in it.
func (s *Service) Get(ctx context.Context, id, actorID uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != actorID && appointment.PatientID != actorID {
		return nil, errors.NewAuthorization("appointment belongs to another user")
	}
	return appointment, nil
}

// ListForDoctor returns the doctor's appointments bounded by the date range.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error) {
	return s.appointmentRepo.ListByDoctor(ctx, doctorID, dateRange)
}

// ListForPatient returns the patient's appointments bounded by the date range.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, dateRange model.DateRange) ([]*model.Appointment, error) {
	return s.appointmentRepo.ListByPatient(ctx, patientID, dateRange)
}

// ChangeStatus applies one state-machine transition on behalf of the actor.
// Confirmation, completion and no-show marking belong to the doctor;
// cancellation goes through Cancel so a reason is always recorded.
func (s *Service) ChangeStatus(ctx context.Context, id, actorID uuid.UUID, actorRole string, target model.AppointmentStatus) (*model.Appointment, error) {
	if target == model.AppointmentStatusCancelled {
		return nil, errors.NewValidation("cancellation requires a reason; use the cancel endpoint")
	}

	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorRole != model.UserRoleDoctor || appointment.DoctorID != actorID {
		return nil, errors.NewAuthorization("only the appointment's doctor can change its status")
	}

	now := time.Now().UTC()
	patch := model.StatusPatch{Status: target}
	switch target {
	case model.AppointmentStatusConfirmed:
		patch.ConfirmedAt = &now
	case model.AppointmentStatusCompleted:
		patch.CompletedAt = &now
	case model.AppointmentStatusNoShow:
		// no timestamp beyond updated_at
	default:
		return nil, errors.NewValidation(fmt.Sprintf("unsupported target status %q", target))
	}

	return s.transition(ctx, appointment, patch)
}

// Cancel transitions the appointment to cancelled, recording who cancelled
// and why. Either participant may cancel while the appointment is active.
func (s *Service) Cancel(ctx context.Context, id, actorID uuid.UUID, reason string) (*model.Appointment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, errors.NewValidation("cancellation reason is required")
	}

	appointment, err := s.appointmentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.DoctorID != actorID && appointment.PatientID != actorID {
		return nil, errors.NewAuthorization("appointment belongs to another user")
	}

	now := time.Now().UTC()
	patch := model.StatusPatch{
		Status:             model.AppointmentStatusCancelled,
		CancelledAt:        &now,
		CancelledBy:        &actorID,
		CancellationReason: &reason,
	}
	return s.transition(ctx, appointment, patch)
}

// transition enforces the transition table, then applies a conditional
// update keyed on the status the actor saw. A lost race surfaces as a
// conflict rather than a silent overwrite.
func (s *Service) transition(ctx context.Context, appointment *model.Appointment, patch model.StatusPatch) (*model.Appointment, error) {
	from := appointment.Status
	if !from.CanTransitionTo(patch.Status) {
		s.metrics.InvalidTransitions.Inc()
		if from.IsTerminal() {
			return nil, errors.NewConflict(fmt.Sprintf("appointment is already %s", from))
		}
		return nil, errors.NewConflict(fmt.Sprintf("cannot move appointment from %s to %s", from, patch.Status))
	}

	updated, err := s.appointmentRepo.UpdateStatus(ctx, appointment.ID, from, patch)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, errors.NewConflict("appointment was modified concurrently")
	}

	s.metrics.StatusTransitions.WithLabelValues(string(from), string(patch.Status)).Inc()

	result, err := s.appointmentRepo.Get(ctx, appointment.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, channelFor(patch.Status), result)
	s.logger.Info("appointment status changed",
		"appointment_id", appointment.ID.String(),
		"from", string(from),
		"to", string(patch.Status),
	)
	return result, nil
}

func channelFor(status model.AppointmentStatus) string {
	switch status {
	case model.AppointmentStatusConfirmed:
		return messaging.ChannelAppointmentConfirmed
	case model.AppointmentStatusCancelled:
		return messaging.ChannelAppointmentCancelled
	case model.AppointmentStatusCompleted:
		return messaging.ChannelAppointmentCompleted
	case model.AppointmentStatusNoShow:
		return messaging.ChannelAppointmentNoShow
	default:
		return messaging.ChannelAppointmentBooked
	}
}

// publish is best-effort; a broker outage never fails the request.
func (s *Service) publish(ctx context.Context, channel string, appointment *model.Appointment) {
	if s.broker == nil {
		return
	}
	event := messaging.Event{
		Type:       channel,
		OccurredAt: time.Now().UTC(),
		Payload:    appointment,
	}
	if err := s.broker.Publish(ctx, channel, event); err != nil {
		s.logger.Warn("failed to publish appointment event",
			"channel", channel,
			"error", err.Error(),
		)
	}
}
