package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"projectzen/internal/models"
	"projectzen/internal/repositories"
	"projectzen/internal/utils"
)

type UserService interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]*models.User, error)
	UpdateUserRole(userID string, role models.UserRole) (*models.User, error)
	GetUserCount() (int, error)
	GetUserCountByRole(role models.UserRole) (int, error)

	// refresh helpers
	UpdateRefresh(userID string, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID string) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
	}
}

func (s *userService) CreateUser(user *models.User) error {
	if strings.TrimSpace(user.Password) == "" {
		return fmt.Errorf("password is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if user.ID == "" {
		user.ID = utils.NewID("user")
	}
	if user.AvatarURL == "" {
		user.AvatarURL = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", user.ID)
	}
	if user.Role == "" {
		user.Role = models.RoleTeamMember
	}

	if err := s.repo.Create(user); err != nil {
		return err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			// warn but do not fail creation
			log.Printf("CreateUser: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return nil
}

func (s *userService) GetUserByID(id string) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *userService) ListUsers() ([]*models.User, error) {
	return s.repo.List()
}

func (s *userService) UpdateUserRole(userID string, role models.UserRole) (*models.User, error) {
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleTeamMember:
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	user.Role = role
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserCount() (int, error) {
	return s.repo.GetCount()
}

func (s *userService) GetUserCountByRole(role models.UserRole) (int, error) {
	return s.repo.GetCountByRole(role)
}

func (s *userService) UpdateRefresh(userID string, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(userID, token, expiresAt)
}

func (s *userService) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	return s.repo.RotateRefresh(oldToken, newToken, newExpiresAt)
}

func (s *userService) ClearRefresh(userID string) error {
	return s.repo.ClearRefresh(userID)
}

func (s *userService) GetByRefreshToken(token string) (*models.User, error) {
	return s.repo.GetByRefreshToken(token)
}
