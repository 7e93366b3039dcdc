package handlers

import (
	"net/http"
	"strconv"
	"time"

	"asistencia-escolar/config"
	"asistencia-escolar/internal/attendance"
	"asistencia-escolar/internal/events"
	"asistencia-escolar/internal/middleware"
	"asistencia-escolar/internal/schoolday"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
)

// personnelDayRow combina cada miembro del personal con su estado del día:
// sin registro = pendiente.
type personnelDayRow struct {
	UserID     uint    `json:"userId"`
	FullName   string  `json:"fullName"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Recorded   bool    `json:"recorded"`
	Present    bool    `json:"present"`
	ReasonCode *string `json:"reasonCode"`
	Note       string  `json:"note"`
}

// ListPersonnelDayHandler lista el personal activo con su estado de
// asistencia en la fecha pedida (hoy por omisión).
func ListPersonnelDayHandler(c *gin.Context) {
	scope := middleware.GetScope(c)

	date := c.Query("date")
	if date == "" {
		date = schoolday.Resolve(time.Now(), config.SchoolLocation).Date
	} else if schoolday.WeekdayOf(date) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida, se espera AAAA-MM-DD"})
		return
	}

	staffQ := config.DB.Model(&models.User{}).Preload("Department").
		Where("is_active = ?", true).Order("full_name asc")
	if !scope.IsAdmin() && scope.DepartmentID != nil {
		staffQ = staffQ.Where("department_id = ?", *scope.DepartmentID)
	}
	var staff []models.User
	if err := staffQ.Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el personal"})
		return
	}

	var records []models.PersonnelAttendance
	if err := config.DB.Where("date = ?", date).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los registros del día"})
		return
	}
	byUser := make(map[uint]models.PersonnelAttendance, len(records))
	for _, r := range records {
		byUser[r.UserID] = r
	}

	rows := make([]personnelDayRow, 0, len(staff))
	for _, u := range staff {
		row := personnelDayRow{UserID: u.ID, FullName: u.FullName, Position: u.Position}
		if u.Department != nil {
			row.Department = u.Department.Name
		}
		if rec, ok := byUser[u.ID]; ok {
			row.Recorded = true
			row.Present = rec.Present
			row.ReasonCode = rec.ReasonCode
			row.Note = rec.Note
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "data": rows})
}

// SavePersonnelAttendanceHandler registra presencia o ausencia de un miembro
// del personal en la fecha. Última escritura gana.
func SavePersonnelAttendanceHandler(c *gin.Context) {
	scope := middleware.GetScope(c)

	var input models.PersonnelAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Date == "" {
		input.Date = schoolday.Resolve(time.Now(), config.SchoolLocation).Date
	} else if schoolday.WeekdayOf(input.Date) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida, se espera AAAA-MM-DD"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miembro del personal no encontrado"})
		return
	}
	if !scope.IsAdmin() && scope.DepartmentID != nil &&
		(user.DepartmentID == nil || *user.DepartmentID != *scope.DepartmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Fuera de su coordinación"})
		return
	}

	rec, err := attendance.UpsertPersonnel(config.DB, input, scope.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if EventsHub != nil {
		EventsHub.Publish(events.Event{Type: "personnel_saved", Date: input.Date, UserID: input.UserID})
	}
	c.JSON(http.StatusOK, rec)
}

// ClearPersonnelAttendanceHandler devuelve un (usuario, fecha) al estado
// pendiente. Si no había registro, responde igual: el resultado es el mismo.
func ClearPersonnelAttendanceHandler(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}
	date := c.Query("date")
	if date == "" {
		date = schoolday.Resolve(time.Now(), config.SchoolLocation).Date
	}

	if err := attendance.ClearPersonnel(config.DB, uint(userID), date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo limpiar el registro"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registro devuelto a pendiente"})
}
