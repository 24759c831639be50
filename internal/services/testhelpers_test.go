package services

import (
	"testing"

	"projectzen/internal/models"
	"projectzen/internal/repositories"
)

// env собирает сервисы на живых in-memory репозиториях; локальное
// хранилище и внешние каналы доставки в тестах отключены.
type env struct {
	users         repositories.UserRepository
	projects      repositories.ProjectRepository
	tasks         repositories.TaskRepository
	notifications NotificationService
	notifRepo     repositories.NotificationRepository

	userService    UserService
	authService    AuthService
	projectService ProjectService
	taskService    TaskService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	users := repositories.NewUserRepository()
	projects := repositories.NewProjectRepository()
	tasks := repositories.NewTaskRepository()
	notifRepo := repositories.NewNotificationRepository()

	notifications := NewNotificationService(notifRepo, users, nil, nil, nil)
	userService := NewUserService(users, nil)
	authService := NewAuthService(users, userService, notifications, nil)
	projectService := NewProjectService(projects, tasks, users, notifications)
	taskService := NewTaskService(tasks, projects, notifications)

	return &env{
		users:          users,
		projects:       projects,
		tasks:          tasks,
		notifications:  notifications,
		notifRepo:      notifRepo,
		userService:    userService,
		authService:    authService,
		projectService: projectService,
		taskService:    taskService,
	}
}

func (e *env) addUser(t *testing.T, id, name string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		ID:       id,
		Name:     name,
		Email:    id + "@example.com",
		Password: "secret",
		Role:     role,
	}
	if err := e.users.Create(u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

func (e *env) mustNotifications(t *testing.T, userID string) []models.Notification {
	t.Helper()
	ns, err := e.notifications.ListForUser(userID)
	if err != nil {
		t.Fatalf("list notifications for %s: %v", userID, err)
	}
	return ns
}
