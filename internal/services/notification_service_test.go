package services

import (
	"testing"
	"time"

	"projectzen/internal/models"
)

func TestAddNotification_SilentDeduplicates(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "u1", "U", models.RoleTeamMember)

	data := models.Notification{UserID: "u1", Message: "Task \"X\" is overdue."}
	if _, err := e.notifications.Add(data, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// повтор с тем же текстом подавляется
	n, err := e.notifications.Add(data, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != nil {
		t.Fatalf("duplicate silent notification must be suppressed")
	}
	if ns := e.mustNotifications(t, "u1"); len(ns) != 1 {
		t.Fatalf("notifications = %d, want 1", len(ns))
	}
}

func TestAddNotification_NonSilentAlwaysAppends(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "u1", "U", models.RoleTeamMember)

	data := models.Notification{UserID: "u1", Message: "same text"}
	for i := 0; i < 2; i++ {
		if _, err := e.notifications.Add(data, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ns := e.mustNotifications(t, "u1"); len(ns) != 2 {
		t.Fatalf("notifications = %d, want 2", len(ns))
	}
}

func TestAddNotification_NewestFirst(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "u1", "U", models.RoleTeamMember)

	e.notifications.Add(models.Notification{UserID: "u1", Message: "older"}, false)
	e.notifications.Add(models.Notification{UserID: "u1", Message: "newer"}, false)

	ns := e.mustNotifications(t, "u1")
	if ns[0].Message != "newer" || ns[1].Message != "older" {
		t.Fatalf("expected newest-first, got %q then %q", ns[0].Message, ns[1].Message)
	}
}

func TestReconcileDueDates_SweepIsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "admin1", "Ada", models.RoleAdmin)
	mgr := e.addUser(t, "mgr1", "Mira", models.RoleManager)
	p, _ := e.projectService.Create("P", "", mgr.ID)

	// просроченная задача: Create уже прогоняет свип
	task, err := e.taskService.Create(&models.Task{
		ProjectID:   p.ID,
		Title:       "Late task",
		AssigneeIDs: []string{mgr.ID},
		DueDate:     time.Now().Add(-24 * time.Hour),
	}, mgr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// повторные свипы не плодят дубликаты
	for i := 0; i < 3; i++ {
		if err := e.taskService.Reconcile(); err != nil {
			t.Fatalf("reconcile: %v", err)
		}
	}

	overdue := 0
	for _, n := range e.mustNotifications(t, mgr.ID) {
		if n.TaskID == task.ID && n.Message == "Task \"Late task\" is overdue." {
			overdue++
		}
	}
	if overdue != 1 {
		t.Fatalf("overdue notifications = %d, want exactly 1", overdue)
	}
}

func TestReconcileDueDates_Classification(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "u1", "U", models.RoleTeamMember)

	now := time.Now()
	tasks := []models.Task{
		{ID: "t-due", Title: "Soon", AssigneeIDs: []string{"u1"}, Status: models.StatusTodo, DueDate: now.Add(24 * time.Hour)},
		{ID: "t-far", Title: "Far", AssigneeIDs: []string{"u1"}, Status: models.StatusTodo, DueDate: now.Add(10 * 24 * time.Hour)},
		{ID: "t-done", Title: "Done", AssigneeIDs: []string{"u1"}, Status: models.StatusDone, DueDate: now.Add(-24 * time.Hour)},
		{ID: "t-late", Title: "Late", AssigneeIDs: []string{"u1"}, Status: models.StatusInProgress, DueDate: now.Add(-time.Hour)},
	}
	if err := e.notifications.ReconcileDueDates(tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ns := e.mustNotifications(t, "u1")
	if len(ns) != 2 {
		t.Fatalf("notifications = %d, want 2 (due soon + overdue)", len(ns))
	}
	byTask := map[string]string{}
	for _, n := range ns {
		byTask[n.TaskID] = n.Message
	}
	if byTask["t-due"] != "Task \"Soon\" is due soon." {
		t.Fatalf("due-soon message = %q", byTask["t-due"])
	}
	if byTask["t-late"] != "Task \"Late\" is overdue." {
		t.Fatalf("overdue message = %q", byTask["t-late"])
	}
	if _, ok := byTask["t-far"]; ok {
		t.Fatalf("far-future task must not notify")
	}
	if _, ok := byTask["t-done"]; ok {
		t.Fatalf("done task must not notify")
	}
}

func TestReconcileDueDates_OnePerAssignee(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "u1", "U1", models.RoleTeamMember)
	e.addUser(t, "u2", "U2", models.RoleTeamMember)

	tasks := []models.Task{
		{ID: "t1", Title: "Shared", AssigneeIDs: []string{"u1", "u2"}, Status: models.StatusTodo, DueDate: time.Now().Add(-time.Hour)},
	}
	if err := e.notifications.ReconcileDueDates(tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.notifications.ReconcileDueDates(tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ns := e.mustNotifications(t, "u1"); len(ns) != 1 {
		t.Fatalf("u1 notifications = %d, want 1", len(ns))
	}
	if ns := e.mustNotifications(t, "u2"); len(ns) != 1 {
		t.Fatalf("u2 notifications = %d, want 1", len(ns))
	}
}

func TestMarkAsRead_And_UnreadCount(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "u1", "U", models.RoleTeamMember)

	a, _ := e.notifications.Add(models.Notification{UserID: "u1", Message: "a"}, false)
	e.notifications.Add(models.Notification{UserID: "u1", Message: "b"}, false)

	if n, _ := e.notifications.UnreadCount("u1"); n != 2 {
		t.Fatalf("unread = %d, want 2", n)
	}

	found, err := e.notifications.MarkAsRead("u1", a.ID)
	if err != nil || !found {
		t.Fatalf("mark as read: found=%v err=%v", found, err)
	}
	if n, _ := e.notifications.UnreadCount("u1"); n != 1 {
		t.Fatalf("unread = %d, want 1", n)
	}

	if found, _ := e.notifications.MarkAsRead("u1", "notif-missing"); found {
		t.Fatalf("missing id must report not found")
	}

	if err := e.notifications.MarkAllAsRead("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := e.notifications.UnreadCount("u1"); n != 0 {
		t.Fatalf("unread = %d, want 0", n)
	}
}

func TestClearForUser_RemovesEverything(t *testing.T) {
	e := newEnv(t)
	e.addUser(t, "u1", "U", models.RoleTeamMember)
	e.notifications.Add(models.Notification{UserID: "u1", Message: "a"}, false)

	if err := e.notifications.ClearForUser("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns := e.mustNotifications(t, "u1"); len(ns) != 0 {
		t.Fatalf("notifications must be cleared, got %d", len(ns))
	}
}
