package services

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/jisetihq/jiseti/db"
	apiError "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	log "github.com/sirupsen/logrus"
)

const dispatchQueueSize = 128

// StatusMailer sends the status-change email. Satisfied by mailingservices.Mailgun.
type StatusMailer interface {
	SendStatusUpdate(userEmail, subject, body string) (string, error)
}

// SMSSender sends the status-change text message. Satisfied by
// mailingservices.SMSClient.
type SMSSender interface {
	Enabled() bool
	Send(to, body string) error
}

// NotificationService receives StatusChanged events after the transition
// transaction has committed and delivers them to the record owner out of band.
// Dispatch never blocks the caller and delivery failures never propagate back
// into the mutation that triggered them.
type NotificationService interface {
	DispatchStatusChanged(event *models.StatusChangedEvent)
	GetUserNotifications(actor models.Actor) ([]models.Notification, *apiError.Error)
	Close()
}

type notificationService struct {
	notificationRepo db.NotificationRepository
	authRepo         db.AuthRepository
	mailer           StatusMailer
	sms              SMSSender

	events chan *models.StatusChangedEvent
	done   chan struct{}
	once   sync.Once
}

func NewNotificationService(notificationRepo db.NotificationRepository, authRepo db.AuthRepository, mailer StatusMailer, sms SMSSender) NotificationService {
	s := &notificationService{
		notificationRepo: notificationRepo,
		authRepo:         authRepo,
		mailer:           mailer,
		sms:              sms,
		events:           make(chan *models.StatusChangedEvent, dispatchQueueSize),
		done:             make(chan struct{}),
	}
	go s.run()
	return s
}

// DispatchStatusChanged queues the event for delivery. A full queue drops the
// event with a log line rather than blocking the request path.
func (s *notificationService) DispatchStatusChanged(event *models.StatusChangedEvent) {
	if event == nil || event.Record == nil || event.Record.UserID == nil {
		return
	}
	select {
	case s.events <- event:
	default:
		log.Printf("notification queue full, dropping status change event for record %s", event.Record.ID)
	}
}

func (s *notificationService) GetUserNotifications(actor models.Actor) ([]models.Notification, *apiError.Error) {
	if actor.IsAnonymous() {
		return nil, apiError.New("authentication required", http.StatusUnauthorized)
	}
	notifications, err := s.notificationRepo.GetNotificationsByUserID(actor.ID)
	if err != nil {
		log.Printf("error fetching notifications for user %d: %v", actor.ID, err)
		return nil, apiError.ErrInternalServerError
	}
	return notifications, nil
}

// Close stops the worker after the queued events drain.
func (s *notificationService) Close() {
	s.once.Do(func() {
		close(s.events)
		<-s.done
	})
}

func (s *notificationService) run() {
	defer close(s.done)
	for event := range s.events {
		s.deliver(event)
	}
}

// deliver fans one event out to every channel the owner can receive on. Each
// attempt is persisted before the gateway call and flipped to sent or failed
// afterwards, so the notification feed reflects what actually went out.
func (s *notificationService) deliver(event *models.StatusChangedEvent) {
	owner, err := s.authRepo.FindUserByID(*event.Record.UserID)
	if err != nil {
		log.Printf("error loading owner for record %s notification: %v", event.Record.ID, err)
		return
	}

	subject := fmt.Sprintf("Your report %q is now %s", event.Record.Title, event.NewStatus)
	body := statusChangeBody(event)

	s.attempt(event, owner.ID, models.NotificationChannelEmail, body, func() error {
		_, err := s.mailer.SendStatusUpdate(owner.Email, subject, body)
		return err
	})

	if owner.Telephone != "" && s.sms != nil && s.sms.Enabled() {
		s.attempt(event, owner.ID, models.NotificationChannelSMS, body, func() error {
			return s.sms.Send(owner.Telephone, body)
		})
	}
}

func (s *notificationService) attempt(event *models.StatusChangedEvent, userID uint, channel, message string, send func() error) {
	notification := &models.Notification{
		RecordID:       event.Record.ID,
		UserID:         userID,
		Channel:        channel,
		Message:        message,
		DeliveryStatus: models.DeliveryPending,
	}
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("error persisting %s notification for record %s: %v", channel, event.Record.ID, err)
		return
	}

	status := models.DeliverySent
	if err := send(); err != nil {
		log.Printf("error sending %s notification for record %s: %v", channel, event.Record.ID, err)
		status = models.DeliveryFailed
	}
	if err := s.notificationRepo.UpdateDeliveryStatus(notification.ID, status); err != nil {
		log.Printf("error updating %s notification status for record %s: %v", channel, event.Record.ID, err)
	}
}

func statusChangeBody(event *models.StatusChangedEvent) string {
	body := fmt.Sprintf("The status of your report %q changed from %s to %s.",
		event.Record.Title, event.OldStatus, event.NewStatus)
	if event.Reason != "" {
		body += fmt.Sprintf(" Reason: %s.", event.Reason)
	}
	if event.NewStatus == models.StatusResolved && event.Record.ResolutionNotes != "" {
		body += fmt.Sprintf(" Resolution notes: %s.", event.Record.ResolutionNotes)
	}
	return body
}
