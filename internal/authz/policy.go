package authz

import "projectzen/internal/models"

// Action names a permission-checked operation.
type Action string

const (
	ActionManageProjectTeam Action = "project:manage-team"
	ActionDeleteProject     Action = "project:delete"
	ActionViewProject       Action = "project:view"
	ActionDeleteTask        Action = "task:delete"
	ActionManageAttachments Action = "task:manage-attachments"
	ActionEditSchedule      Action = "task:edit-schedule"
	ActionManageUsers       Action = "users:manage"
)

// Resource carries whatever entities the action applies to. Unused fields
// stay nil.
type Resource struct {
	Project *models.Project
	Task    *models.Task
}

// Can is the single permission evaluator. Handlers never hard-code role
// checks; all policy lives here.
func Can(actor *models.User, action Action, res Resource) bool {
	if actor == nil {
		return false
	}
	switch action {
	case ActionManageUsers:
		return IsAdmin(actor)

	case ActionViewProject:
		if IsAdmin(actor) {
			return true
		}
		return res.Project != nil && res.Project.HasMember(actor.ID)

	case ActionManageProjectTeam:
		if IsAdmin(actor) {
			return true
		}
		return res.Project != nil && res.Project.OwnerID == actor.ID

	case ActionDeleteProject:
		return IsAdmin(actor)

	case ActionDeleteTask:
		if IsAdmin(actor) {
			return true
		}
		return res.Task != nil && res.Task.CreatorID == actor.ID

	case ActionManageAttachments:
		if IsAdmin(actor) {
			return true
		}
		if res.Task == nil {
			return false
		}
		return res.Task.CreatorID == actor.ID || res.Task.IsAssignee(actor.ID)

	case ActionEditSchedule:
		return canEditSchedule(actor, res.Task, res.Project)
	}
	return false
}

// canEditSchedule implements the escalating-lock rule for priority/due-date
// edits: rank can override, peers can re-edit, subordinates cannot undo a
// superior's edit.
func canEditSchedule(actor *models.User, task *models.Task, project *models.Project) bool {
	if IsAdmin(actor) {
		return true
	}
	if task == nil {
		return false
	}
	if last := task.LastScheduleUpdater; last != nil {
		if last.Role == models.RoleAdmin {
			return false // заблокировано админом
		}
		if last.Role == models.RoleManager && !IsManager(actor) {
			return false
		}
	}
	if project != nil && project.OwnerID == actor.ID {
		return true
	}
	return task.CreatorID == actor.ID
}
