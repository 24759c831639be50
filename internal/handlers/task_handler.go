package handlers

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"projectzen/internal/authz"
	"projectzen/internal/models"
	"projectzen/internal/services"
)

type TaskHandler struct {
	service        services.TaskService
	projectService services.ProjectService
	userService    services.UserService
}

func NewTaskHandler(service services.TaskService, projectService services.ProjectService, userService services.UserService) *TaskHandler {
	return &TaskHandler{service: service, projectService: projectService, userService: userService}
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		ProjectID   string              `json:"projectId" binding:"required"`
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		DueDate     string              `json:"dueDate"` // RFC3339
		Priority    models.TaskPriority `json:"priority"`
		AssigneeIDs []string            `json:"assigneeIds"`
	}
	actor := resolveActor(c, h.userService)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	log.Printf("[task][create] call by userID=%s role=%s", actor.ID, actor.Role)

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectService.GetByID(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	// создавать задачи могут только участники проекта
	if !project.HasMember(actor.ID) && actor.Role != models.RoleAdmin {
		log.Printf("[task][create][deny] userID=%s not a member of %s", actor.ID, project.ID)
		c.JSON(http.StatusForbidden, gin.H{"error": "not a project member"})
		return
	}

	var due time.Time
	if req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			log.Printf("[task][create][err] invalid dueDate=%q: %v", req.DueDate, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate (RFC3339)"})
			return
		}
		due = t
	}

	task := &models.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
		AssigneeIDs: req.AssigneeIDs,
	}
	created, err := h.service.Create(task, actor)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][create][ok] id=%s title=%q assignees=%d", created.ID, created.Title, len(created.AssigneeIDs))
	c.JSON(http.StatusCreated, created)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	task, err := h.service.GetByID(id)
	if err != nil {
		log.Printf("[task][getByID][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	project, _ := h.projectService.GetByID(task.ProjectID)
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionViewProject, authz.Resource{Project: project}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/status — прямое замещение, любой переход допустим
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	task, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		log.Printf("[task][status][err] id=%s: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	log.Printf("[task][status][ok] id=%s -> %s", id, req.Status)
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/schedule — приоритет и дедлайн под эскалирующим правилом
func (h *TaskHandler) UpdateSchedule(c *gin.Context) {
	var req struct {
		Priority models.TaskPriority `json:"priority" binding:"required"`
		DueDate  string              `json:"dueDate" binding:"required"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	due, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate (RFC3339)"})
		return
	}

	id := c.Param("id")
	task, err := h.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	project, _ := h.projectService.GetByID(task.ProjectID)
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionEditSchedule, authz.Resource{Task: task, Project: project}) {
		log.Printf("[task][schedule][deny] id=%s by=%s", id, actorID(actor))
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	updated, err := h.service.UpdateSchedule(id, req.Priority, due, actor)
	if err != nil {
		log.Printf("[task][schedule][err] id=%s: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][schedule][ok] id=%s priority=%s due=%s", id, req.Priority, due.Format(time.RFC3339))
	c.JSON(http.StatusOK, updated)
}

// DELETE /tasks/:id — админ или автор
func (h *TaskHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	task, err := h.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionDeleteTask, authz.Resource{Task: task}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.service.Delete(id); err != nil {
		log.Printf("[task][delete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	log.Printf("[task][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}

// POST /tasks/:id/comments
func (h *TaskHandler) AddComment(c *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		ParentID string `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	id := c.Param("id")
	task, err := h.service.AddComment(id, userID, req.Content, req.ParentID)
	if err != nil {
		log.Printf("[task][comment][err] id=%s: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// POST /tasks/:id/attachments (multipart) — админ, автор или исполнитель
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	id := c.Param("id")
	task, err := h.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionManageAttachments, authz.Resource{Task: task}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}

	updated, err := h.service.AddAttachment(id, fileHeader.Filename, data)
	if err != nil {
		log.Printf("[task][attach][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add attachment"})
		return
	}
	log.Printf("[task][attach][ok] id=%s file=%q size=%d", id, fileHeader.Filename, len(data))
	c.JSON(http.StatusCreated, updated)
}

// DELETE /tasks/:id/attachments/:attachment_id
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	id := c.Param("id")
	task, err := h.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionManageAttachments, authz.Resource{Task: task}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	updated, err := h.service.DeleteAttachment(id, c.Param("attachment_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GET /tasks/:id/attachments/:attachment_id/file
func (h *TaskHandler) ServeAttachment(c *gin.Context) {
	att, err := h.service.GetAttachment(c.Param("id"), c.Param("attachment_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get attachment"})
		return
	}
	if att == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+att.FileName+`"`)
	c.Data(http.StatusOK, "application/octet-stream", att.Data)
}

func actorID(u *models.User) string {
	if u == nil {
		return "<nil>"
	}
	return u.ID
}
