package seed

import (
	"log"
	"time"

	"projectzen/internal/models"
	"projectzen/internal/repositories"
)

// Seed наполняет коллекции фиксированными демо-данными. Всё, кроме сессии
// и уведомлений, живёт только в памяти и пересоздаётся при каждом старте.
func Seed(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
) {
	demoUsers := []*models.User{
		{ID: "user-1", Name: "Alice Johnson", Email: "alice@projectzen.io", Password: "password123", Role: models.RoleAdmin, AvatarURL: "https://i.pravatar.cc/150?u=user-1"},
		{ID: "user-2", Name: "Bob Williams", Email: "bob@projectzen.io", Password: "password123", Role: models.RoleManager, AvatarURL: "https://i.pravatar.cc/150?u=user-2"},
		{ID: "user-3", Name: "Charlie Brown", Email: "charlie@projectzen.io", Password: "password123", Role: models.RoleManager, AvatarURL: "https://i.pravatar.cc/150?u=user-3"},
		{ID: "user-4", Name: "Diana Miller", Email: "diana@projectzen.io", Password: "password123", Role: models.RoleTeamMember, AvatarURL: "https://i.pravatar.cc/150?u=user-4"},
		{ID: "user-5", Name: "Ethan Davis", Email: "ethan@projectzen.io", Password: "password123", Role: models.RoleTeamMember, AvatarURL: "https://i.pravatar.cc/150?u=user-5"},
	}
	for _, u := range demoUsers {
		if err := users.Create(u); err != nil {
			log.Printf("[seed][user][err] %s: %v", u.Email, err)
		}
	}

	demoProjects := []*models.Project{
		{
			ID:          "proj-1",
			Name:        "Website Redesign",
			Description: "Complete overhaul of the public marketing site.",
			OwnerID:     "user-2",
			MemberIDs:   []string{"user-2", "user-1", "user-4", "user-5"},
		},
		{
			ID:          "proj-2",
			Name:        "Mobile App Launch",
			Description: "Ship the first version of the companion mobile app.",
			OwnerID:     "user-3",
			MemberIDs:   []string{"user-3", "user-1", "user-4"},
		},
	}
	// Store делает prepend, поэтому сидим в обратном порядке
	for i := len(demoProjects) - 1; i >= 0; i-- {
		if err := projects.Store(demoProjects[i]); err != nil {
			log.Printf("[seed][project][err] %s: %v", demoProjects[i].ID, err)
		}
	}

	now := time.Now()
	demoTasks := []*models.Task{
		{
			ID:          "task-1",
			Title:       "Design new landing page",
			Description: "Hero section, pricing table and the footer refresh.",
			Status:      models.StatusInProgress,
			Priority:    models.PriorityHigh,
			DueDate:     now.Add(5 * 24 * time.Hour),
			AssigneeIDs: []string{"user-4"},
			ProjectID:   "proj-1",
			CreatorID:   "user-2",
			Comments: []models.Comment{
				{ID: "comment-1", TaskID: "task-1", UserID: "user-2", Content: "Let's keep the palette close to the current brand.", CreatedAt: now.Add(-48 * time.Hour)},
				{ID: "comment-2", TaskID: "task-1", UserID: "user-4", Content: "Agreed, first draft coming tomorrow.", CreatedAt: now.Add(-24 * time.Hour), ParentID: "comment-1"},
			},
			Attachments: []models.Attachment{},
		},
		{
			ID:          "task-2",
			Title:       "Migrate blog content",
			Description: "Move all existing posts to the new CMS.",
			Status:      models.StatusTodo,
			Priority:    models.PriorityMedium,
			DueDate:     now.Add(10 * 24 * time.Hour),
			AssigneeIDs: []string{"user-5"},
			ProjectID:   "proj-1",
			CreatorID:   "user-2",
			Comments:    []models.Comment{},
			Attachments: []models.Attachment{},
		},
		{
			ID:          "task-3",
			Title:       "Set up app store listings",
			Description: "Screenshots, descriptions and metadata for both stores.",
			Status:      models.StatusTodo,
			Priority:    models.PriorityHigh,
			DueDate:     now.Add(24 * time.Hour),
			AssigneeIDs: []string{"user-4"},
			ProjectID:   "proj-2",
			CreatorID:   "user-3",
			Comments:    []models.Comment{},
			Attachments: []models.Attachment{},
		},
		{
			ID:          "task-4",
			Title:       "QA regression pass",
			Description: "Full regression before the release candidate.",
			Status:      models.StatusDone,
			Priority:    models.PriorityLow,
			DueDate:     now.Add(-3 * 24 * time.Hour),
			AssigneeIDs: []string{"user-4"},
			ProjectID:   "proj-2",
			CreatorID:   "user-3",
			Comments:    []models.Comment{},
			Attachments: []models.Attachment{},
		},
	}
	for i := len(demoTasks) - 1; i >= 0; i-- {
		if err := tasks.Store(demoTasks[i]); err != nil {
			log.Printf("[seed][task][err] %s: %v", demoTasks[i].ID, err)
		}
	}

	log.Printf("[seed] users=%d projects=%d tasks=%d", len(demoUsers), len(demoProjects), len(demoTasks))
}
