package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"projectzen/internal/authz"
	"projectzen/internal/services"
)

type ProjectHandler struct {
	service     services.ProjectService
	taskService services.TaskService
	userService services.UserService
}

func NewProjectHandler(service services.ProjectService, taskService services.TaskService, userService services.UserService) *ProjectHandler {
	return &ProjectHandler{service: service, taskService: taskService, userService: userService}
}

// POST /projects (только Admin — гард на роуте)
func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		OwnerID     string `json:"ownerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[project][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actorID, _ := currentUserID(c)
	log.Printf("[project][create] name=%q owner=%s by=%s", req.Name, req.OwnerID, actorID)

	project, err := h.service.Create(req.Name, req.Description, req.OwnerID)
	if err != nil {
		log.Printf("[project][create][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GET /projects — админ видит все, остальные только свои
func (h *ProjectHandler) List(c *gin.Context) {
	actor := resolveActor(c, h.userService)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	projects, err := h.service.ListVisible(actor)
	if err != nil {
		log.Printf("[project][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	project, err := h.service.GetByID(id)
	if err != nil {
		log.Printf("[project][getByID][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionViewProject, authz.Resource{Project: project}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// GET /projects/:id/tasks
func (h *ProjectHandler) GetTasks(c *gin.Context) {
	id := c.Param("id")
	project, err := h.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionViewProject, authz.Resource{Project: project}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	tasks, err := h.taskService.GetByProject(id)
	if err != nil {
		log.Printf("[project][tasks][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// PUT /projects/:id/members — владелец или админ
func (h *ProjectHandler) UpdateMembers(c *gin.Context) {
	var req struct {
		MemberIDs []string `json:"memberIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	project, err := h.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionManageProjectTeam, authz.Resource{Project: project}) {
		log.Printf("[project][members][deny] id=%s by=%v", id, actor)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	updated, err := h.service.UpdateMembers(id, req.MemberIDs)
	if err != nil {
		log.Printf("[project][members][err] id=%s: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[project][members][ok] id=%s members=%d", id, len(req.MemberIDs))
	c.JSON(http.StatusOK, updated)
}

// DELETE /projects/:id — только админ; каскадно удаляет задачи
func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	project, err := h.service.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	actor := resolveActor(c, h.userService)
	if !authz.Can(actor, authz.ActionDeleteProject, authz.Resource{Project: project}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.service.Delete(id); err != nil {
		log.Printf("[project][delete][err] id=%s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}
	log.Printf("[project][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}
