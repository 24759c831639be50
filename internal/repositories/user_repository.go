package repositories

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"projectzen/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List() ([]*models.User, error)
	GetCount() (int, error)
	GetCountByRole(role models.UserRole) (int, error)

	// FirstAdmin возвращает первого (по порядку добавления) админа.
	FirstAdmin() (*models.User, error)

	// refresh helpers
	UpdateRefresh(userID string, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID string) error
	GetByRefreshToken(token string) (*models.User, error)
}

// userRepository держит пользователей в памяти; БД нет, вся коллекция
// пересоздаётся из сидов при старте.
type userRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email already registered")
		}
	}
	r.users = append(r.users, user)
	return nil
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == user.ID {
			cp := *user
			r.users[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("user not found")
}

func (r *userRepository) List() ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *userRepository) GetCount() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *userRepository) GetCountByRole(role models.UserRole) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *userRepository) FirstAdmin() (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Role == models.RoleAdmin {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) UpdateRefresh(userID string, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.RefreshToken = &token
			u.RefreshExpiresAt = &expiresAt
			u.RefreshRevoked = false
			return nil
		}
	}
	return fmt.Errorf("user not found")
}

func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == oldToken && !u.RefreshRevoked {
			u.RefreshToken = &newToken
			u.RefreshExpiresAt = &newExpiresAt
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("refresh token not found")
}

func (r *userRepository) ClearRefresh(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.RefreshToken = nil
			u.RefreshExpiresAt = nil
			u.RefreshRevoked = false
			return nil
		}
	}
	return fmt.Errorf("user not found")
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
