package handlers

import (
	"errors"
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
	"gorm.io/gorm"
)

// EventsHub lo inyecta main; nil deshabilita los avisos en vivo.
var EventsHub *events.Hub

// SaveAttendanceHandler guarda (o reemplaza) el reporte de asistencia de un
// bloque. El docente solo puede reportar sus propios bloques; coordinadores
// y admin pueden reportar cualquiera dentro de su alcance.
func SaveAttendanceHandler(c *gin.Context) {
	scope := middleware.GetScope(c)

	var input models.AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := input.Date
	if date == "" {
		date = schoolday.Resolve(time.Now(), config.SchoolLocation).Date
	} else if schoolday.WeekdayOf(date) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida, se espera AAAA-MM-DD"})
		return
	}

	if scope.IsTeacherOnly() {
		var block models.ClassBlock
		if err := config.DB.First(&block, input.ClassBlockID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bloque de clase no encontrado"})
			return
		}
		if block.TeacherID != scope.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Solo puede reportar sus propios bloques"})
			return
		}
	}

	res, err := attendance.UpsertRecord(config.DB, input, date, scope.UserID)
	if err != nil {
		if errors.Is(err, attendance.ErrBlockNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bloque de clase no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if EventsHub != nil {
		EventsHub.Publish(events.Event{Type: "attendance_saved", Date: date, BlockID: input.ClassBlockID})
	}

	c.JSON(http.StatusOK, gin.H{
		"record":       res.Record,
		"autoPresence": res.SideEffect,
	})
}

// GetAttendanceHandler devuelve el reporte de un bloque en una fecha, con la
// lista de ausencias, para precargar el formulario de edición.
func GetAttendanceHandler(c *gin.Context) {
	blockID, err := strconv.ParseUint(c.Query("class_block_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El parámetro class_block_id es obligatorio"})
		return
	}
	date := c.Query("date")
	if date == "" {
		date = schoolday.Resolve(time.Now(), config.SchoolLocation).Date
	}

	rec, err := attendance.GetRecord(config.DB, uint(blockID), date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sin reporte para ese bloque y fecha"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el reporte"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetAttendanceByIDHandler devuelve un reporte por su id, con bloque y
// ausencias resueltos.
func GetAttendanceByIDHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de reporte inválido"})
		return
	}

	var rec models.AttendanceRecord
	err = config.DB.Preload("ClassBlock.Section").Preload("ClassBlock.Subject").
		Preload("Absences.Student").First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reporte no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el reporte"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
