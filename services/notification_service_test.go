package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	mu       sync.Mutex
	nextID   uint
	created  []models.Notification
	statuses map[uint]string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{statuses: make(map[uint]string)}
}

func (f *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	notification.ID = f.nextID
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationRepo) UpdateDeliveryStatus(id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeNotificationRepo) GetNotificationsByUserID(userID uint) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

// fakeUserDirectory satisfies db.AuthRepository for the single lookup the
// dispatcher performs.
type fakeUserDirectory struct {
	users map[uint]*models.User
}

func (f *fakeUserDirectory) FindUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserDirectory) CreateUser(user *models.User) (*models.User, error) { return user, nil }
func (f *fakeUserDirectory) IsEmailExist(email string) error                    { return nil }
func (f *fakeUserDirectory) IsPhoneExist(phone string) error                    { return nil }
func (f *fakeUserDirectory) FindUserByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserDirectory) AddToBlackList(blacklist *models.Blacklist) error { return nil }
func (f *fakeUserDirectory) IsTokenInBlacklist(token string) bool             { return false }
func (f *fakeUserDirectory) UpdatePassword(password, email string) error      { return nil }
func (f *fakeUserDirectory) ResetPassword(userID uint, newPassword string) error {
	return nil
}
func (f *fakeUserDirectory) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	return nil
}
func (f *fakeUserDirectory) UpdateLastLogin(userID uint) error { return nil }
func (f *fakeUserDirectory) FindRoleByID(roleID uuid.UUID) (*models.Role, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserDirectory) FindRoleByName(name string) (*models.Role, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailer) SendStatusUpdate(userEmail, subject, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, userEmail)
	return "", f.err
}

type fakeSMS struct {
	mu      sync.Mutex
	enabled bool
	sent    []string
}

func (f *fakeSMS) Enabled() bool { return f.enabled }

func (f *fakeSMS) Send(to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func ownedStatusEvent(userID uint) *models.StatusChangedEvent {
	return &models.StatusChangedEvent{
		Record: &models.Record{
			ID:     uuid.New(),
			Title:  "Broken water main",
			UserID: &userID,
		},
		OldStatus: models.StatusUnderInvestigation,
		NewStatus: models.StatusResolved,
		ChangedBy: 1,
	}
}

func TestNotificationDispatch(t *testing.T) {
	t.Run("delivers email and records it as sent", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		mailer := &fakeMailer{}
		directory := &fakeUserDirectory{users: map[uint]*models.User{
			7: {Model: models.Model{ID: 7}, Email: "owner@gmail.com"},
		}}
		svc := NewNotificationService(repo, directory, mailer, &fakeSMS{})

		svc.DispatchStatusChanged(ownedStatusEvent(7))
		svc.Close()

		require.Len(t, repo.created, 1)
		assert.Equal(t, models.NotificationChannelEmail, repo.created[0].Channel)
		assert.Equal(t, models.DeliverySent, repo.statuses[repo.created[0].ID])
		assert.Equal(t, []string{"owner@gmail.com"}, mailer.sent)
	})

	t.Run("adds sms when the owner has a phone and the gateway is up", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		sms := &fakeSMS{enabled: true}
		directory := &fakeUserDirectory{users: map[uint]*models.User{
			7: {Model: models.Model{ID: 7}, Email: "owner@gmail.com", Telephone: "+254700000001"},
		}}
		svc := NewNotificationService(repo, directory, &fakeMailer{}, sms)

		svc.DispatchStatusChanged(ownedStatusEvent(7))
		svc.Close()

		require.Len(t, repo.created, 2)
		assert.Equal(t, []string{"+254700000001"}, sms.sent)
	})

	t.Run("delivery failure is recorded, never surfaced", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		mailer := &fakeMailer{err: errors.New("gateway down")}
		directory := &fakeUserDirectory{users: map[uint]*models.User{
			7: {Model: models.Model{ID: 7}, Email: "owner@gmail.com"},
		}}
		svc := NewNotificationService(repo, directory, mailer, &fakeSMS{})

		svc.DispatchStatusChanged(ownedStatusEvent(7))
		svc.Close()

		require.Len(t, repo.created, 1)
		assert.Equal(t, models.DeliveryFailed, repo.statuses[repo.created[0].ID])
	})

	t.Run("events without an owner are dropped", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		svc := NewNotificationService(repo, &fakeUserDirectory{}, &fakeMailer{}, &fakeSMS{})

		svc.DispatchStatusChanged(&models.StatusChangedEvent{
			Record:    &models.Record{ID: uuid.New(), IsAnonymous: true},
			OldStatus: models.StatusUnderInvestigation,
			NewStatus: models.StatusResolved,
		})
		svc.Close()

		assert.Empty(t, repo.created)
	})
}
