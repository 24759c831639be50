package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"projectzen/internal/localstore"
	"projectzen/internal/models"
	"projectzen/internal/repositories"
)

// ErrInvalidCredentials скрывает, что именно не совпало (email или пароль).
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// ErrEmailTaken возвращается при регистрации на занятый email.
var ErrEmailTaken = fmt.Errorf("an account with this email already exists")

// AuthService отвечает за сессию: вход, регистрацию, выход и
// восстановление текущего пользователя из локального хранилища.
type AuthService interface {
	Login(email, password string) (*models.User, error)
	Signup(name, email, password string) (*models.User, error)
	Logout(userID string) error
	// RestoreSession перечитывает сохранённого пользователя и сверяет его
	// id с живой коллекцией; (nil, nil) означает "не залогинен".
	RestoreSession() (*models.User, error)
}

type authService struct {
	users         repositories.UserRepository
	userService   UserService
	notifications NotificationService
	store         *localstore.Store
}

func NewAuthService(
	users repositories.UserRepository,
	userService UserService,
	notifications NotificationService,
	store *localstore.Store,
) AuthService {
	return &authService{users: users, userService: userService, notifications: notifications, store: store}
}

// Login: линейный поиск по email без учёта регистра и точное сравнение
// пароля в открытом виде. Demo-режим: без хеширования и блокировок.
func (s *authService) Login(email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != password {
		return nil, ErrInvalidCredentials
	}

	if err := s.persistSession(user); err != nil {
		log.Printf("[auth][login][persist][err] userID=%s: %v", user.ID, err)
	}
	if err := s.notifications.RestoreForUser(user.ID); err != nil {
		log.Printf("[auth][login][restore-notif][err] userID=%s: %v", user.ID, err)
	}
	return user, nil
}

func (s *authService) Signup(name, email, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
		Role:     models.RoleTeamMember, // роль при самостоятельной регистрации фиксирована
	}
	if err := s.userService.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Logout(userID string) error {
	if s.store != nil {
		if err := s.store.Delete(localstore.SessionUserKey); err != nil {
			return err
		}
	}
	if err := s.notifications.ClearForUser(userID); err != nil {
		return err
	}
	return s.users.ClearRefresh(userID)
}

func (s *authService) RestoreSession() (*models.User, error) {
	if s.store == nil {
		return nil, nil
	}
	raw, err := s.store.Get(localstore.SessionUserKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var stored models.User
	if err := json.Unmarshal(raw, &stored); err != nil {
		// битая запись — считаем разлогиненным и чистим её
		log.Printf("[auth][restore][err] bad session record: %v", err)
		return nil, s.store.Delete(localstore.SessionUserKey)
	}
	// сверяем с живой коллекцией: смена роли отражается после перезахода,
	// удалённый пользователь даёт разлогин
	live, err := s.users.GetByID(stored.ID)
	if err != nil {
		return nil, err
	}
	if live == nil {
		return nil, s.store.Delete(localstore.SessionUserKey)
	}
	return live, nil
}

func (s *authService) persistSession(user *models.User) error {
	if s.store == nil {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.Set(localstore.SessionUserKey, raw)
}
