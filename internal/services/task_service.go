package services

import (
	"fmt"
	"strings"
	"time"

	"projectzen/internal/models"
	"projectzen/internal/repositories"
	"projectzen/internal/utils"
)

type TaskService interface {
	Create(task *models.Task, actor *models.User) (*models.Task, error)
	GetByID(id string) (*models.Task, error)
	GetByProject(projectID string) ([]models.Task, error)
	GetAll() ([]models.Task, error)
	// UpdateStatus: прямое замещение, любой переход допустим (легальность
	// перетаскивания — забота канбан-доски, не хранилища).
	UpdateStatus(id string, status models.TaskStatus) (*models.Task, error)
	// UpdateSchedule перезаписывает приоритет и дедлайн и запоминает, кто
	// правил последним (эскалирующее правило доступа живёт в authz).
	UpdateSchedule(id string, priority models.TaskPriority, dueDate time.Time, actor *models.User) (*models.Task, error)
	Delete(id string) error

	AddComment(taskID, userID, content, parentID string) (*models.Task, error)
	AddAttachment(taskID, fileName string, data []byte) (*models.Task, error)
	DeleteAttachment(taskID, attachmentID string) (*models.Task, error)
	GetAttachment(taskID, attachmentID string) (*models.Attachment, error)

	// Reconcile прогоняет дедлайн-свип по всей коллекции; вызывается после
	// каждой мутации задач.
	Reconcile() error
}

type taskService struct {
	repo          repositories.TaskRepository
	projects      repositories.ProjectRepository
	notifications NotificationService
}

func NewTaskService(
	repo repositories.TaskRepository,
	projects repositories.ProjectRepository,
	notifications NotificationService,
) TaskService {
	return &taskService{repo: repo, projects: projects, notifications: notifications}
}

func (s *taskService) Create(task *models.Task, actor *models.User) (*models.Task, error) {
	if actor == nil {
		return nil, fmt.Errorf("task creation requires an acting user")
	}
	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project not found")
	}
	// исполнители всегда из состава проекта
	for _, id := range task.AssigneeIDs {
		if !project.HasMember(id) {
			return nil, fmt.Errorf("assignee %s is not a project member", id)
		}
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q", task.Priority)
	}

	task.ID = utils.NewID("task")
	task.Status = models.StatusTodo
	task.CreatorID = actor.ID
	task.Comments = []models.Comment{}
	if task.Attachments == nil {
		task.Attachments = []models.Attachment{}
	}

	if err := s.repo.Store(task); err != nil {
		return nil, err
	}

	for _, assigneeID := range task.AssigneeIDs {
		if _, err := s.notifications.Add(models.Notification{
			UserID:    assigneeID,
			Message:   fmt.Sprintf("You have been assigned to the task %q.", task.Title),
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
		}, false); err != nil {
			return nil, err
		}
	}

	if err := s.Reconcile(); err != nil {
		return nil, err
	}
	return s.repo.FindByID(task.ID)
}

func (s *taskService) GetByID(id string) (*models.Task, error) {
	return s.repo.FindByID(id)
}

func (s *taskService) GetByProject(projectID string) ([]models.Task, error) {
	return s.repo.FindByProject(projectID)
}

func (s *taskService) GetAll() ([]models.Task, error) {
	return s.repo.FindAll()
}

func (s *taskService) UpdateStatus(id string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	task.Status = status
	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	if err := s.Reconcile(); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateSchedule(id string, priority models.TaskPriority, dueDate time.Time, actor *models.User) (*models.Task, error) {
	if !priority.Valid() {
		return nil, fmt.Errorf("unknown priority %q", priority)
	}
	if actor == nil {
		return nil, fmt.Errorf("schedule update requires an acting user")
	}
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	task.Priority = priority
	task.DueDate = dueDate
	task.LastScheduleUpdater = &models.SchedulerStamp{UserID: actor.ID, Role: actor.Role}
	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	if err := s.Reconcile(); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	return s.Reconcile()
}

func (s *taskService) AddComment(taskID, userID, content, parentID string) (*models.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("comment content is empty")
	}
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	if parentID != "" {
		// родитель должен быть комментарием этой же задачи
		found := false
		for _, c := range task.Comments {
			if c.ID == parentID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("parent comment not found on this task")
		}
	}
	task.Comments = append(task.Comments, models.Comment{
		ID:        utils.NewID("comment"),
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
		ParentID:  parentID,
	})
	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) AddAttachment(taskID, fileName string, data []byte) (*models.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	att := models.Attachment{
		ID:       utils.NewID("att"),
		FileName: fileName,
		Data:     data,
	}
	// URL живёт только в рамках сессии: файл не переживает перезапуск
	att.URL = fmt.Sprintf("/tasks/%s/attachments/%s/file", taskID, att.ID)
	task.Attachments = append(task.Attachments, att)
	if err := s.repo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) DeleteAttachment(taskID, attachmentID string) (*models.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	for i, att := range task.Attachments {
		if att.ID == attachmentID {
			task.Attachments = append(task.Attachments[:i], task.Attachments[i+1:]...)
			if err := s.repo.Update(task); err != nil {
				return nil, err
			}
			return task, nil
		}
	}
	return nil, fmt.Errorf("attachment not found")
}

func (s *taskService) GetAttachment(taskID, attachmentID string) (*models.Attachment, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	for i := range task.Attachments {
		if task.Attachments[i].ID == attachmentID {
			return &task.Attachments[i], nil
		}
	}
	return nil, nil
}

func (s *taskService) Reconcile() error {
	tasks, err := s.repo.FindAll()
	if err != nil {
		return err
	}
	return s.notifications.ReconcileDueDates(tasks)
}
