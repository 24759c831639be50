package services

import (
	"strings"
	"testing"
	"time"

	"projectzen/internal/models"
)

func TestCreateTask_ScenarioAssignedNotification(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgrA := e.addUser(t, "mgrA", "Mira", models.RoleManager)

	p, err := e.projectService.Create("P", "", mgrA.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task, err := e.taskService.Create(&models.Task{
		ProjectID:   p.ID,
		Title:       "Prepare launch checklist",
		AssigneeIDs: []string{mgrA.ID},
		DueDate:     time.Now().Add(10 * 24 * time.Hour),
	}, mgrA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.Status != models.StatusTodo {
		t.Fatalf("status = %q, want Todo", task.Status)
	}
	if len(task.Comments) != 0 {
		t.Fatalf("comments must start empty, got %d", len(task.Comments))
	}
	if task.CreatorID != mgrA.ID {
		t.Fatalf("creator = %q, want %q", task.CreatorID, mgrA.ID)
	}

	ns := e.mustNotifications(t, mgrA.ID)
	if len(ns) != 1 {
		t.Fatalf("assignee notifications = %d, want 1", len(ns))
	}
	if !strings.Contains(ns[0].Message, "assigned") || !strings.Contains(ns[0].Message, task.Title) {
		t.Fatalf("unexpected message %q", ns[0].Message)
	}
	if ns[0].TaskID != task.ID {
		t.Fatalf("notification taskId = %q, want %q", ns[0].TaskID, task.ID)
	}
}

func TestCreateTask_AssigneesMustBeProjectMembers(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	outsider := e.addUser(t, "out1", "Out", models.RoleTeamMember)

	p, err := e.projectService.Create("P", "", mgr.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = e.taskService.Create(&models.Task{
		ProjectID:   p.ID,
		Title:       "t",
		AssigneeIDs: []string{outsider.ID},
	}, mgr)
	if err == nil {
		t.Fatalf("assignee outside the project must be rejected")
	}
}

func TestCreateTask_RequiresActingUserAndProject(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)

	if _, err := e.taskService.Create(&models.Task{ProjectID: "nope", Title: "t"}, mgr); err == nil {
		t.Fatalf("missing project must be rejected")
	}
	p, _ := e.projectService.Create("P", "", mgr.ID)
	if _, err := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "t"}, nil); err == nil {
		t.Fatalf("missing acting user must be rejected")
	}
}

func TestUpdateStatus_AnyTransitionAllowed(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	p, _ := e.projectService.Create("P", "", mgr.ID)
	task, err := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "t"}, mgr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// хранилище не ограничивает переходы, включая Done -> Todo
	for _, st := range []models.TaskStatus{models.StatusDone, models.StatusTodo, models.StatusInProgress} {
		got, err := e.taskService.UpdateStatus(task.ID, st)
		if err != nil {
			t.Fatalf("transition to %q: %v", st, err)
		}
		if got.Status != st {
			t.Fatalf("status = %q, want %q", got.Status, st)
		}
	}

	if _, err := e.taskService.UpdateStatus(task.ID, "Parked"); err == nil {
		t.Fatalf("unknown status must be rejected")
	}
}

func TestUpdateSchedule_RecordsLastUpdater(t *testing.T) {
	e := newEnv(t)
	admin := e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	p, _ := e.projectService.Create("P", "", mgr.ID)
	task, err := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "t"}, mgr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.LastScheduleUpdater != nil {
		t.Fatalf("fresh task must carry no updater stamp")
	}

	due := time.Now().Add(7 * 24 * time.Hour)
	updated, err := e.taskService.UpdateSchedule(task.ID, models.PriorityHigh, due, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Priority != models.PriorityHigh {
		t.Fatalf("priority = %q", updated.Priority)
	}
	if updated.LastScheduleUpdater == nil ||
		updated.LastScheduleUpdater.UserID != admin.ID ||
		updated.LastScheduleUpdater.Role != models.RoleAdmin {
		t.Fatalf("stamp = %+v, want admin", updated.LastScheduleUpdater)
	}

	// штамп читается и после повторной загрузки
	reloaded, err := e.taskService.GetByID(task.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.LastScheduleUpdater == nil || reloaded.LastScheduleUpdater.Role != models.RoleAdmin {
		t.Fatalf("stamp lost on reload: %+v", reloaded.LastScheduleUpdater)
	}
}

func TestAddComment_AppendsOldestFirst(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	p, _ := e.projectService.Create("P", "", mgr.ID)
	task, _ := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "t"}, mgr)

	if _, err := e.taskService.AddComment(task.ID, mgr.ID, "first", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := e.taskService.AddComment(task.ID, mgr.ID, "second", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(got.Comments))
	}
	if got.Comments[0].Content != "first" || got.Comments[1].Content != "second" {
		t.Fatalf("comments must append oldest-first: %v", got.Comments)
	}
}

func TestAddComment_ParentMustBelongToSameTask(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	p, _ := e.projectService.Create("P", "", mgr.ID)
	taskA, _ := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "a"}, mgr)
	taskB, _ := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "b"}, mgr)

	withRoot, err := e.taskService.AddComment(taskA.ID, mgr.ID, "root", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rootID := withRoot.Comments[0].ID

	// ответ в той же задаче проходит
	got, err := e.taskService.AddComment(taskA.ID, mgr.ID, "reply", rootID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Comments[1].ParentID != rootID {
		t.Fatalf("parentId = %q, want %q", got.Comments[1].ParentID, rootID)
	}

	// родитель из чужой задачи отклоняется
	if _, err := e.taskService.AddComment(taskB.ID, mgr.ID, "reply", rootID); err == nil {
		t.Fatalf("cross-task parent must be rejected")
	}
	// несуществующий родитель отклоняется
	if _, err := e.taskService.AddComment(taskA.ID, mgr.ID, "reply", "comment-missing"); err == nil {
		t.Fatalf("missing parent must be rejected")
	}
}

func TestAttachments_AddServeDelete(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	p, _ := e.projectService.Create("P", "", mgr.ID)
	task, _ := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "t"}, mgr)

	got, err := e.taskService.AddAttachment(task.ID, "notes.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(got.Attachments))
	}
	att := got.Attachments[0]
	if att.FileName != "notes.txt" || !strings.Contains(att.URL, att.ID) {
		t.Fatalf("attachment = %+v", att)
	}

	loaded, err := e.taskService.GetAttachment(task.ID, att.ID)
	if err != nil || loaded == nil {
		t.Fatalf("get attachment: %v", err)
	}
	if string(loaded.Data) != "hello" {
		t.Fatalf("data = %q", loaded.Data)
	}

	if _, err := e.taskService.DeleteAttachment(task.ID, att.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if left, _ := e.taskService.GetByID(task.ID); len(left.Attachments) != 0 {
		t.Fatalf("attachment must be gone")
	}
	if _, err := e.taskService.DeleteAttachment(task.ID, att.ID); err == nil {
		t.Fatalf("double delete must fail")
	}
}

func TestTasks_NewestFirstOrdering(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	p, _ := e.projectService.Create("P", "", mgr.ID)

	first, _ := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "first"}, mgr)
	second, _ := e.taskService.Create(&models.Task{ProjectID: p.ID, Title: "second"}, mgr)

	list, err := e.taskService.GetByProject(p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest-first, got %v", []string{list[0].Title, list[1].Title})
	}
}
