package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/config"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/logger"
	"github.com/obadakatsha-ayatgroup/domecare-app/pkg/messaging"
)

// Service sends transactional email and relays appointment lifecycle events.
// With email disabled in config it degrades to logging, which keeps local
// development SMTP-free.
type Service struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
	logger  *logger.Logger
}

func NewService(cfg config.EmailConfig, l *logger.Logger) *Service {
	return &Service{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		enabled: cfg.Enabled,
		logger:  l,
	}
}

// SendOTP delivers a one-time verification code.
func (s *Service) SendOTP(ctx context.Context, email, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	return s.send(email, subject, body)
}

// SendAppointmentNotice delivers a plain lifecycle notification.
func (s *Service) SendAppointmentNotice(ctx context.Context, email, subject, body string) error {
	return s.send(email, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	if !s.enabled {
		s.logger.Info("email delivery disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Listen consumes appointment lifecycle events until the context is
// cancelled. It runs in its own goroutine from main.
func (s *Service) Listen(ctx context.Context, broker messaging.Broker) {
	channels := []string{
		messaging.ChannelAppointmentBooked,
		messaging.ChannelAppointmentConfirmed,
		messaging.ChannelAppointmentCancelled,
		messaging.ChannelAppointmentCompleted,
		messaging.ChannelAppointmentNoShow,
	}

	for _, channel := range channels {
		messages, err := broker.Subscribe(ctx, channel)
		if err != nil {
			s.logger.Error(err, "failed to subscribe to channel", "channel", channel)
			continue
		}
		go s.consume(ctx, channel, messages)
	}
}

func (s *Service) consume(ctx context.Context, channel string, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-messages:
			if !ok {
				return
			}
			var event messaging.Event
			if err := json.Unmarshal(raw, &event); err != nil {
				s.logger.Error(err, "failed to decode event", "channel", channel)
				continue
			}
			s.logger.Info("appointment event received", "channel", channel, "type", event.Type)
		}
	}
}
