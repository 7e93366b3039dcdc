package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"asistencia-escolar/config"
	"asistencia-escolar/internal/middleware"
	"asistencia-escolar/internal/reporting"
	"asistencia-escolar/internal/schoolday"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ShowDashboardPage renderiza el tablero; los datos llegan luego por la API
// y el WebSocket de eventos.
func ShowDashboardPage(c *gin.Context) {
	scope := middleware.GetScope(c)
	day := schoolday.Resolve(time.Now(), config.SchoolLocation)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"fullName": scope.FullName,
		"roles":    scope.Roles,
		"date":     day.Date,
		"weekday":  day.Weekday,
	})
}

// resolveDate toma ?date= o cae al día calendario actual del plantel.
func resolveDate(c *gin.Context) (string, bool) {
	date := c.Query("date")
	if date == "" {
		return schoolday.Resolve(time.Now(), config.SchoolLocation).Date, true
	}
	if schoolday.WeekdayOf(date) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida, se espera AAAA-MM-DD"})
		return "", false
	}
	return date, true
}

// DailySummaryHandler devuelve el resumen del día para el alcance del
// solicitante: académico para coordinaciones docentes, de solo personal
// para la coordinación administrativa.
func DailySummaryHandler(c *gin.Context) {
	date, ok := resolveDate(c)
	if !ok {
		return
	}

	sum, err := reporting.DailySummary(config.DB, date, middleware.GetScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el resumen del día"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// ExportDailySummaryHandler genera el resumen del día como .xlsx: cifras
// generales, lista de ausentes y bloques sin reportar.
func ExportDailySummaryHandler(c *gin.Context) {
	date, ok := resolveDate(c)
	if !ok {
		return
	}

	out, err := reporting.DailySummary(config.DB, date, middleware.GetScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el resumen del día"})
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("No se pudo cerrar el archivo de exportación", "error", err)
		}
	}()

	switch sum := out.(type) {
	case *reporting.AcademicSummary:
		writeAcademicSheet(f, sum)
	case *reporting.PersonnelSummary:
		writePersonnelSheet(f, sum)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="resumen_%s.xlsx"`, date))
	if err := f.Write(c.Writer); err != nil {
		slog.Error("No se pudo escribir el resumen exportado", "error", err, "date", date)
	}
}

func writeAcademicSheet(f *excelize.File, sum *reporting.AcademicSummary) {
	sheet := "Resumen"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]any{
		{"Fecha", sum.Date},
		{"Día", sum.Weekday},
		{"Matrícula", sum.Enrollment.Total, "Varones", sum.Enrollment.Varones, "Hembras", sum.Enrollment.Hembras},
		{"Con clase hoy", sum.ScheduledToday.Total},
		{"Presentes reportados", sum.ReportedPresent.Total},
		{"Ausentes reportados", sum.ReportedAbsent, "Varones", sum.AusentesVarones, "Hembras", sum.AusentesHembras},
		{"Porcentaje de asistencia", sum.Percentage},
		{"Bloques programados", sum.BlocksScheduled, "Reportados", sum.BlocksReported},
	}
	for i, row := range rows {
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row)
	}

	base := len(rows) + 2
	header := []any{"Estudiante", "Género", "No.", "Sección", "Asignatura", "Nota"}
	f.SetSheetRow(sheet, fmt.Sprintf("A%d", base), &header)
	for i, s := range sum.AbsentStudents {
		row := []any{s.FullName, s.Gender, s.ListNumber, s.Section, s.Subject, s.Note}
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", base+1+i), &row)
	}

	if len(sum.PendingBlocks) > 0 {
		base += len(sum.AbsentStudents) + 2
		header = []any{"Bloque pendiente", "Sección", "Docente", "Horario"}
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", base), &header)
		for i, b := range sum.PendingBlocks {
			row := []any{b.Subject, b.Section, b.Teacher, b.StartTime + " - " + b.EndTime}
			f.SetSheetRow(sheet, fmt.Sprintf("A%d", base+1+i), &row)
		}
	}
	f.SetColWidth(sheet, "A", "A", 35)
}

func writePersonnelSheet(f *excelize.File, sum *reporting.PersonnelSummary) {
	sheet := "Personal"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]any{
		{"Fecha", sum.Date},
		{"Día", sum.Weekday},
		{"Personal total", sum.StaffTotal},
		{"Ausentes hoy", sum.AbsentToday},
		{"Porcentaje presente", sum.PresentPercentage},
	}
	for i, row := range rows {
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row)
	}

	base := len(rows) + 2
	header := []any{"Nombre", "Cargo", "Coordinación", "Razón", "Nota"}
	f.SetSheetRow(sheet, fmt.Sprintf("A%d", base), &header)
	for i, a := range sum.Absences {
		row := []any{a.FullName, a.Position, a.Department, a.ReasonCode, a.Note}
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", base+1+i), &row)
	}
	f.SetColWidth(sheet, "A", "A", 35)
}
