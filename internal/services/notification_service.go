package services

import (
	"errors"
	"sync"

	"github.com/fixitstudio/consultation-backend/pkg/notify"
	"github.com/sirupsen/logrus"
)

// NotificationService fans a booking out to the four notification channels:
// team email, client email, team WhatsApp, client WhatsApp.
type NotificationService struct {
	email    notify.EmailGateway
	messages notify.MessageGateway
	logger   *logrus.Logger
}

// NewNotificationService creates a new notification dispatcher
func NewNotificationService(email notify.EmailGateway, messages notify.MessageGateway, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		email:    email,
		messages: messages,
		logger:   logger,
	}
}

// channelOutcome records one channel's settled result
type channelOutcome struct {
	channel string
	err     error
}

// Dispatch sends all four notifications concurrently and blocks until every
// channel has settled. Individual failures are logged and never propagated:
// by the time this runs the booking is already persisted and the client
// response decided.
func (s *NotificationService) Dispatch(data *notify.ConsultationData) {
	jobs := []struct {
		channel string
		send    func(*notify.ConsultationData) error
	}{
		{"team_email", s.email.SendTeamNotification},
		{"client_email", s.email.SendClientConfirmation},
		{"team_whatsapp", s.messages.SendTeamNotification},
		{"client_whatsapp", s.messages.SendClientConfirmation},
	}

	outcomes := make([]channelOutcome, len(jobs))
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(i int, channel string, send func(*notify.ConsultationData) error) {
			defer wg.Done()
			outcomes[i] = channelOutcome{channel: channel, err: send(data)}
		}(i, job.channel, job.send)
	}

	wg.Wait()

	summary := logrus.Fields{}
	for _, outcome := range outcomes {
		switch {
		case outcome.err == nil:
			summary[outcome.channel] = "sent"
		case errors.Is(outcome.err, notify.ErrNotConfigured):
			summary[outcome.channel] = "skipped"
		default:
			summary[outcome.channel] = "failed"
			s.logger.WithError(outcome.err).WithField("channel", outcome.channel).
				Warn("Notification channel failed")
		}
	}

	s.logger.WithFields(summary).Info("Notification dispatch settled")
}
