package repositories

import (
	"fmt"
	"sync"

	"projectzen/internal/models"
)

type TaskRepository interface {
	// Store добавляет задачу в начало коллекции (новые — первыми).
	Store(task *models.Task) error
	FindByID(id string) (*models.Task, error)
	FindAll() ([]models.Task, error)
	FindByProject(projectID string) ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id string) error

	// DeleteByProject удаляет все задачи проекта, возвращает удалённые.
	DeleteByProject(projectID string) ([]models.Task, error)
}

type taskRepository struct {
	mu    sync.RWMutex
	tasks []*models.Task
}

func NewTaskRepository() TaskRepository {
	return &taskRepository{}
}

func cloneTask(t *models.Task) *models.Task {
	cp := *t
	cp.AssigneeIDs = append([]string(nil), t.AssigneeIDs...)
	cp.Comments = append([]models.Comment(nil), t.Comments...)
	cp.Attachments = append([]models.Attachment(nil), t.Attachments...)
	if t.LastScheduleUpdater != nil {
		stamp := *t.LastScheduleUpdater
		cp.LastScheduleUpdater = &stamp
	}
	return &cp
}

func (r *taskRepository) Store(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append([]*models.Task{cloneTask(task)}, r.tasks...)
	return nil
}

func (r *taskRepository) FindByID(id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return cloneTask(t), nil
		}
	}
	return nil, nil
}

func (r *taskRepository) FindAll() ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *cloneTask(t))
	}
	return out, nil
}

func (r *taskRepository) FindByProject(projectID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, *cloneTask(t))
		}
	}
	return out, nil
}

func (r *taskRepository) Update(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == task.ID {
			r.tasks[i] = cloneTask(task)
			return nil
		}
	}
	return fmt.Errorf("task not found")
}

func (r *taskRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task not found")
}

func (r *taskRepository) DeleteByProject(projectID string) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []models.Task
	kept := r.tasks[:0]
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			removed = append(removed, *cloneTask(t))
		} else {
			kept = append(kept, t)
		}
	}
	r.tasks = kept
	return removed, nil
}
