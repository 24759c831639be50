package repositories

import (
	"sync"

	"projectzen/internal/models"
)

type NotificationRepository interface {
	// Store добавляет уведомление в начало списка пользователя.
	Store(n *models.Notification) error
	FindByUser(userID string) ([]models.Notification, error)
	// Exists сообщает, есть ли у пользователя уведомление с таким текстом
	// (для дедупликации silent-уведомлений).
	Exists(userID, message string) (bool, error)
	MarkRead(userID, id string) (bool, error)
	MarkAllRead(userID string) error
	// Replace полностью замещает список пользователя (восстановление из
	// локального хранилища при входе).
	Replace(userID string, ns []models.Notification) error
	Clear(userID string) error
}

type notificationRepository struct {
	mu     sync.RWMutex
	byUser map[string][]models.Notification
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{byUser: make(map[string][]models.Notification)}
}

func (r *notificationRepository) Store(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[n.UserID] = append([]models.Notification{*n}, r.byUser[n.UserID]...)
	return nil
}

func (r *notificationRepository) FindByUser(userID string) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Notification(nil), r.byUser[userID]...), nil
}

func (r *notificationRepository) Exists(userID, message string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.byUser[userID] {
		if n.Message == message {
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepository) MarkRead(userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ns := r.byUser[userID]
	for i := range ns {
		if ns[i].ID == id {
			ns[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepository) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ns := r.byUser[userID]
	for i := range ns {
		ns[i].Read = true
	}
	return nil
}

func (r *notificationRepository) Replace(userID string, ns []models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = append([]models.Notification(nil), ns...)
	return nil
}

func (r *notificationRepository) Clear(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}
