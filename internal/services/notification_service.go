package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"projectzen/internal/localstore"
	"projectzen/internal/models"
	"projectzen/internal/repositories"
	"projectzen/internal/utils"
)

// NotificationService переводит события хранилища сущностей и просрочку
// дедлайнов в записи уведомлений для конкретных пользователей.
type NotificationService interface {
	// Add создаёт уведомление. silent-уведомления (повторяющиеся триггеры
	// вроде напоминаний о дедлайне) подавляются, если у пользователя уже
	// есть запись с тем же текстом.
	Add(data models.Notification, silent bool) (*models.Notification, error)
	ListForUser(userID string) ([]models.Notification, error)
	UnreadCount(userID string) (int, error)
	MarkAsRead(userID, id string) (bool, error)
	MarkAllAsRead(userID string) error

	// ReconcileDueDates — явный проход по всем незакрытым задачам после
	// любой мутации коллекции задач (вместо реактивного эффекта оригинала).
	ReconcileDueDates(tasks []models.Task) error

	// RestoreForUser подменяет список в памяти сохранённым в локальном
	// хранилище (вызывается при входе).
	RestoreForUser(userID string) error
	// ClearForUser удаляет уведомления пользователя из памяти и из
	// локального хранилища (вызывается при выходе).
	ClearForUser(userID string) error
}

type notificationService struct {
	repo  repositories.NotificationRepository
	users repositories.UserRepository
	store *localstore.Store

	// внешние каналы доставки, оба опциональны
	email EmailService
	tg    *TelegramService
}

func NewNotificationService(
	repo repositories.NotificationRepository,
	users repositories.UserRepository,
	store *localstore.Store,
	email EmailService,
	tg *TelegramService,
) NotificationService {
	return &notificationService{repo: repo, users: users, store: store, email: email, tg: tg}
}

func (s *notificationService) Add(data models.Notification, silent bool) (*models.Notification, error) {
	if data.UserID == "" || data.Message == "" {
		return nil, fmt.Errorf("notification requires userId and message")
	}
	if silent {
		dup, err := s.repo.Exists(data.UserID, data.Message)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, nil
		}
	}

	n := data
	n.ID = utils.NewID("notif")
	n.CreatedAt = time.Now()
	n.Read = false
	if err := s.repo.Store(&n); err != nil {
		return nil, err
	}
	if err := s.persist(n.UserID); err != nil {
		log.Printf("[notify][persist][err] userID=%s: %v", n.UserID, err)
	}

	if !silent {
		s.deliver(&n)
	}
	return &n, nil
}

// deliver пушит во внешние каналы; ошибки доставки не роняют мутацию.
func (s *notificationService) deliver(n *models.Notification) {
	user, err := s.users.GetByID(n.UserID)
	if err != nil || user == nil {
		return
	}
	if s.email != nil {
		if err := s.email.SendNotificationEmail(user.Email, user.Name, n.Message); err != nil {
			log.Printf("[notify][email][err] userID=%s: %v", n.UserID, err)
		}
	}
	if s.tg != nil && user.NotifyTelegram {
		if err := s.tg.SendMessage(user.TelegramChatID, n.Message); err != nil {
			log.Printf("[notify][tg][err] userID=%s: %v", n.UserID, err)
		}
	}
}

func (s *notificationService) ListForUser(userID string) ([]models.Notification, error) {
	return s.repo.FindByUser(userID)
}

func (s *notificationService) UnreadCount(userID string) (int, error) {
	ns, err := s.repo.FindByUser(userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range ns {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(userID, id string) (bool, error) {
	ok, err := s.repo.MarkRead(userID, id)
	if err != nil || !ok {
		return ok, err
	}
	return true, s.persist(userID)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		return err
	}
	return s.persist(userID)
}

// ReconcileDueDates: для каждой незакрытой задачи — "overdue" при
// прошедшем дедлайне, "due soon" при дедлайне в пределах двух суток,
// по одному silent-уведомлению на исполнителя.
func (s *notificationService) ReconcileDueDates(tasks []models.Task) error {
	now := time.Now()
	for i := range tasks {
		t := &tasks[i]
		if t.Status == models.StatusDone || t.DueDate.IsZero() {
			continue
		}
		var message string
		if t.DueDate.Before(now) {
			message = fmt.Sprintf("Task %q is overdue.", t.Title)
		} else if days := int(t.DueDate.Sub(now).Hours() / 24); days <= 2 {
			message = fmt.Sprintf("Task %q is due soon.", t.Title)
		} else {
			continue
		}
		for _, assigneeID := range t.AssigneeIDs {
			if _, err := s.Add(models.Notification{
				UserID:    assigneeID,
				Message:   message,
				TaskID:    t.ID,
				ProjectID: t.ProjectID,
			}, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *notificationService) RestoreForUser(userID string) error {
	if s.store == nil {
		return nil
	}
	raw, err := s.store.Get(localstore.NotificationsKey(userID))
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	var ns []models.Notification
	if err := json.Unmarshal(raw, &ns); err != nil {
		// битая запись в хранилище — начинаем с пустого списка, как оригинал
		log.Printf("[notify][restore][err] userID=%s: %v", userID, err)
		return s.store.Delete(localstore.NotificationsKey(userID))
	}
	return s.repo.Replace(userID, ns)
}

func (s *notificationService) ClearForUser(userID string) error {
	if err := s.repo.Clear(userID); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	return s.store.Delete(localstore.NotificationsKey(userID))
}

func (s *notificationService) persist(userID string) error {
	if s.store == nil {
		return nil
	}
	ns, err := s.repo.FindByUser(userID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(ns)
	if err != nil {
		return err
	}
	return s.store.Set(localstore.NotificationsKey(userID), raw)
}
