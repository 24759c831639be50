package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"projectzen/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// GET /reports/summary
func (h *ReportHandler) GetSummary(c *gin.Context) {
	data, err := h.Service.GetSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

// GET /reports/projects/:id/pdf
func (h *ReportHandler) ExportProjectPDF(c *gin.Context) {
	path, err := h.Service.ExportProjectPDF(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, "project_report.pdf")
}
