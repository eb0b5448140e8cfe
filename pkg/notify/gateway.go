package notify

import "errors"

// ErrNotConfigured indicates a channel is missing credentials and the send
// was skipped. Dispatchers treat this as a skip, not a failure.
var ErrNotConfigured = errors.New("notification channel not configured")

// ConsultationData carries the booking fields a notification interpolates.
// Mirrors the persisted record without depending on the storage model.
type ConsultationData struct {
	Name             string
	Email            string
	Phone            string
	Category         string
	ConsultationDate string
	ConsultationTime string
	Message          string
}

// EmailGateway defines the interface for sending consultation emails
type EmailGateway interface {
	// SendTeamNotification notifies the internal team of a new booking
	SendTeamNotification(data *ConsultationData) error

	// SendClientConfirmation confirms the booking to the client
	SendClientConfirmation(data *ConsultationData) error

	// GetName returns the name of the email gateway implementation
	GetName() string
}

// MessageGateway defines the interface for sending consultation messages
// (WhatsApp or similar)
type MessageGateway interface {
	// SendTeamNotification notifies the internal team of a new booking
	SendTeamNotification(data *ConsultationData) error

	// SendClientConfirmation confirms the booking to the client
	SendClientConfirmation(data *ConsultationData) error

	// GetName returns the name of the message gateway implementation
	GetName() string
}
