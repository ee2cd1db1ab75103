package messaging

import (
	"context"
	"time"
)

// Appointment lifecycle channels.
const (
	ChannelAppointmentBooked    = "appointments.booked"
	ChannelAppointmentConfirmed = "appointments.confirmed"
	ChannelAppointmentCancelled = "appointments.cancelled"
	ChannelAppointmentCompleted = "appointments.completed"
	ChannelAppointmentNoShow    = "appointments.no_show"
)

// Event is the envelope published on lifecycle channels.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
