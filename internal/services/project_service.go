package services

import (
	"fmt"

	"projectzen/internal/models"
	"projectzen/internal/repositories"
	"projectzen/internal/utils"
)

type ProjectService interface {
	// Create требует хотя бы одного админа в системе: членами нового
	// проекта становятся владелец-менеджер и первый админ.
	Create(name, description, managerID string) (*models.Project, error)
	GetByID(id string) (*models.Project, error)
	// ListVisible: админ видит все проекты, остальные — только свои.
	ListVisible(actor *models.User) ([]models.Project, error)
	// UpdateMembers замещает состав и шлёт уведомление каждому новому
	// участнику.
	UpdateMembers(projectID string, memberIDs []string) (*models.Project, error)
	// Delete каскадно удаляет задачи проекта.
	Delete(id string) error
}

type projectService struct {
	repo          repositories.ProjectRepository
	tasks         repositories.TaskRepository
	users         repositories.UserRepository
	notifications NotificationService
}

func NewProjectService(
	repo repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	notifications NotificationService,
) ProjectService {
	return &projectService{repo: repo, tasks: tasks, users: users, notifications: notifications}
}

func (s *projectService) Create(name, description, managerID string) (*models.Project, error) {
	admin, err := s.users.FirstAdmin()
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, fmt.Errorf("no admin user exists")
	}
	manager, err := s.users.GetByID(managerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, fmt.Errorf("manager not found")
	}
	if manager.Role != models.RoleManager {
		return nil, fmt.Errorf("project owner must be a manager")
	}

	members := []string{managerID}
	if admin.ID != managerID {
		members = append(members, admin.ID)
	}
	project := &models.Project{
		ID:          utils.NewID("proj"),
		Name:        name,
		Description: description,
		OwnerID:     managerID,
		MemberIDs:   members,
	}
	if err := s.repo.Store(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(id string) (*models.Project, error) {
	return s.repo.FindByID(id)
}

func (s *projectService) ListVisible(actor *models.User) ([]models.Project, error) {
	all, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role == models.RoleAdmin {
		return all, nil
	}
	var visible []models.Project
	for _, p := range all {
		if actor != nil && p.HasMember(actor.ID) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *projectService) UpdateMembers(projectID string, memberIDs []string) (*models.Project, error) {
	project, err := s.repo.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	// состав всегда содержит владельца и хотя бы одного админа
	hasOwner := false
	hasAdmin := false
	for _, id := range memberIDs {
		if id == project.OwnerID {
			hasOwner = true
		}
		member, err := s.users.GetByID(id)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("member %s not found", id)
		}
		if member.Role == models.RoleAdmin {
			hasAdmin = true
		}
	}
	if !hasOwner {
		return nil, fmt.Errorf("project members must include the owner")
	}
	if !hasAdmin {
		return nil, fmt.Errorf("project members must include an admin")
	}

	prev := make(map[string]bool, len(project.MemberIDs))
	for _, id := range project.MemberIDs {
		prev[id] = true
	}

	updated, err := s.repo.UpdateMembers(projectID, memberIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range memberIDs {
		if prev[id] {
			continue
		}
		if _, err := s.notifications.Add(models.Notification{
			UserID:    id,
			Message:   fmt.Sprintf("You have been added to the project %q.", project.Name),
			ProjectID: project.ID,
		}, false); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (s *projectService) Delete(id string) error {
	project, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project not found")
	}
	if _, err := s.tasks.DeleteByProject(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
