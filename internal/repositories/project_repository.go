package repositories

import (
	"fmt"
	"sync"

	"projectzen/internal/models"
)

type ProjectRepository interface {
	// Store добавляет проект в начало коллекции (новые — первыми).
	Store(project *models.Project) error
	FindByID(id string) (*models.Project, error)
	FindAll() ([]models.Project, error)
	UpdateMembers(id string, memberIDs []string) (*models.Project, error)
	Delete(id string) error
}

type projectRepository struct {
	mu       sync.RWMutex
	projects []*models.Project
}

func NewProjectRepository() ProjectRepository {
	return &projectRepository{}
}

func (r *projectRepository) Store(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *project
	r.projects = append([]*models.Project{&cp}, r.projects...)
	return nil
}

func (r *projectRepository) FindByID(id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.projects {
		if p.ID == id {
			cp := *p
			cp.MemberIDs = append([]string(nil), p.MemberIDs...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *projectRepository) FindAll() ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		cp := *p
		cp.MemberIDs = append([]string(nil), p.MemberIDs...)
		out = append(out, cp)
	}
	return out, nil
}

func (r *projectRepository) UpdateMembers(id string, memberIDs []string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.ID == id {
			p.MemberIDs = append([]string(nil), memberIDs...)
			cp := *p
			cp.MemberIDs = append([]string(nil), p.MemberIDs...)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("project not found")
}

func (r *projectRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.projects {
		if p.ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("project not found")
}
