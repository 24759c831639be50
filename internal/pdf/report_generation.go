package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"projectzen/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateProjectReport(data ProjectReportData) (string, error)
}

// ReportGenerator — реализация
type ReportGenerator struct {
	RootDir string // корень хранения, например "./files"
}

type ProjectReportData struct {
	Project   models.Project
	OwnerName string
	Tasks     []models.Task
	CreatedAt time.Time
	Filename  string // имя файла (без путей); если пусто — сгенерируем
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *ReportGenerator) GenerateProjectReport(data ProjectReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("project_report_%s.pdf", data.Project.ID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Project report — %s", data.Project.Name), false)
	pdf.SetAuthor("ProjectZen", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "PROJECT REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s  —  %s", data.Project.Name, data.CreatedAt.Format("Jan 2, 2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Обзор
	g.sectionTitle(pdf, "Overview")
	g.kvLine(pdf, "Owner", data.OwnerName)
	g.kvLine(pdf, "Members", fmt.Sprintf("%d", len(data.Project.MemberIDs)))
	g.kvLine(pdf, "Tasks", fmt.Sprintf("%d", len(data.Tasks)))
	if data.Project.Description != "" {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, data.Project.Description, "", "L", false)
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Статусы
	byStatus := map[models.TaskStatus]int{}
	overdue := 0
	now := time.Now()
	for _, t := range data.Tasks {
		byStatus[t.Status]++
		if t.Status != models.StatusDone && !t.DueDate.IsZero() && t.DueDate.Before(now) {
			overdue++
		}
	}
	g.sectionTitle(pdf, "Progress")
	g.kvLine(pdf, "Todo", fmt.Sprintf("%d", byStatus[models.StatusTodo]))
	g.kvLine(pdf, "In Progress", fmt.Sprintf("%d", byStatus[models.StatusInProgress]))
	g.kvLine(pdf, "Done", fmt.Sprintf("%d", byStatus[models.StatusDone]))
	g.kvLine(pdf, "Overdue", fmt.Sprintf("%d", overdue))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Задачи
	g.sectionTitle(pdf, "Tasks")
	pdf.SetFont("Helvetica", "", 11)
	for _, t := range data.Tasks {
		due := ""
		if !t.DueDate.IsZero() {
			due = ", due " + t.DueDate.Format("Jan 2, 2006")
		}
		line := fmt.Sprintf("• %s  [%s, %s%s]", t.Title, t.Status, t.Priority, due)
		pdf.MultiCell(0, 6, line, "", "L", false)
	}
	if len(data.Tasks) == 0 {
		pdf.MultiCell(0, 6, "No tasks in this project.", "", "L", false)
	}

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ===== helpers =====

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(g.RootDir, filename), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
