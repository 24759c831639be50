package services

import (
	"fmt"
	"time"

	"projectzen/internal/models"
	"projectzen/internal/pdf"
	"projectzen/internal/repositories"
)

// Summary повторяет карточки дашборда оригинала: всего проектов, задачи по
// статусам, просроченные.
type Summary struct {
	TotalProjects int                       `json:"totalProjects"`
	TotalTasks    int                       `json:"totalTasks"`
	TotalUsers    int                       `json:"totalUsers"`
	TasksByStatus map[models.TaskStatus]int `json:"tasksByStatus"`
	OverdueTasks  int                       `json:"overdueTasks"`
}

type ReportService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
	pdfGen   pdf.Generator
}

func NewReportService(
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	pdfGen pdf.Generator,
) *ReportService {
	return &ReportService{projects: projects, tasks: tasks, users: users, pdfGen: pdfGen}
}

func (s *ReportService) GetSummary() (*Summary, error) {
	projects, err := s.projects.FindAll()
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.FindAll()
	if err != nil {
		return nil, err
	}
	userCount, err := s.users.GetCount()
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		TotalProjects: len(projects),
		TotalTasks:    len(tasks),
		TotalUsers:    userCount,
		TasksByStatus: map[models.TaskStatus]int{
			models.StatusTodo:       0,
			models.StatusInProgress: 0,
			models.StatusDone:       0,
		},
	}
	now := time.Now()
	for _, t := range tasks {
		sum.TasksByStatus[t.Status]++
		if t.Status != models.StatusDone && !t.DueDate.IsZero() && t.DueDate.Before(now) {
			sum.OverdueTasks++
		}
	}
	return sum, nil
}

// ExportProjectPDF рендерит отчёт по проекту и возвращает путь к файлу.
func (s *ReportService) ExportProjectPDF(projectID string) (string, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", fmt.Errorf("project not found")
	}
	tasks, err := s.tasks.FindByProject(projectID)
	if err != nil {
		return "", err
	}
	ownerName := project.OwnerID
	if owner, err := s.users.GetByID(project.OwnerID); err == nil && owner != nil {
		ownerName = owner.Name
	}
	return s.pdfGen.GenerateProjectReport(pdf.ProjectReportData{
		Project:   *project,
		OwnerName: ownerName,
		Tasks:     tasks,
		CreatedAt: time.Now(),
	})
}
