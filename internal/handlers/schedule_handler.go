package handlers

import (
	"net/http"
	"strconv"
	"time"

	"asistencia-escolar/config"
	"asistencia-escolar/internal/middleware"
	"asistencia-escolar/internal/reporting"
	"asistencia-escolar/internal/schoolday"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
)

// ListScheduleHandler lista los bloques de horario resueltos (sección,
// asignatura, docente), filtrables por día, sección o docente.
func ListScheduleHandler(c *gin.Context) {
	scope := middleware.GetScope(c)

	if weekday := c.Query("weekday"); weekday != "" {
		blocks, err := reporting.BlocksForDay(config.DB, weekday, scope)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el horario"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": blocks})
		return
	}

	query := config.DB.Preload("Section").Preload("Subject").Preload("Teacher").
		Order("weekday asc, start_time asc, id asc")
	if sectionID := c.Query("section_id"); sectionID != "" {
		query = query.Where("section_id = ?", sectionID)
	}
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		query = query.Where("teacher_id = ?", teacherID)
	}
	if scope.IsTeacherOnly() {
		query = query.Where("teacher_id = ?", scope.UserID)
	}

	var blocks []models.ClassBlock
	if err := query.Find(&blocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el horario"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": blocks})
}

// TodayScheduleHandler devuelve los bloques del día calendario actual del
// plantel, recortados al alcance del solicitante.
func TodayScheduleHandler(c *gin.Context) {
	day := schoolday.Resolve(time.Now(), config.SchoolLocation)
	blocks, err := reporting.BlocksForDay(config.DB, day.Weekday, middleware.GetScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el horario de hoy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    day.Date,
		"weekday": day.Weekday,
		"data":    blocks,
	})
}

// CurrentBlocksHandler devuelve los bloques en curso en este instante:
// start_time <= ahora < end_time en la hora civil del plantel. Los "HH:MM"
// de cinco caracteres comparan bien como texto.
func CurrentBlocksHandler(c *gin.Context) {
	day := schoolday.Resolve(time.Now(), config.SchoolLocation)
	blocks, err := reporting.BlocksForDay(config.DB, day.Weekday, middleware.GetScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los bloques en curso"})
		return
	}

	current := make([]models.ClassBlockView, 0)
	for _, b := range blocks {
		if b.StartTime <= day.Time && day.Time < b.EndTime {
			current = append(current, b)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    day.Date,
		"weekday": day.Weekday,
		"time":    day.Time,
		"data":    current,
	})
}

// validateBlockInput aplica las reglas que el binding no cubre.
func validateBlockInput(in models.ClassBlockInput) string {
	if in.StartTime >= in.EndTime {
		return "La hora de inicio debe ser anterior a la de fin"
	}
	if in.SubjectID == nil && in.Description == "" {
		return "Un bloque sin asignatura requiere descripción de la actividad"
	}
	return ""
}

func CreateClassBlockHandler(c *gin.Context) {
	var input models.ClassBlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := validateBlockInput(input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var section models.Section
	if err := config.DB.First(&section, input.SectionID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La sección indicada no existe"})
		return
	}
	var teacher models.User
	if err := config.DB.First(&teacher, input.TeacherID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El docente indicado no existe"})
		return
	}
	if input.SubjectID != nil {
		var subject models.Subject
		if err := config.DB.First(&subject, *input.SubjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La asignatura indicada no existe"})
			return
		}
	}

	block := models.ClassBlock{
		SectionID:   input.SectionID,
		SubjectID:   input.SubjectID,
		TeacherID:   input.TeacherID,
		Weekday:     input.Weekday,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Description: input.Description,
	}
	if err := config.DB.Create(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el bloque de horario"})
		return
	}
	c.JSON(http.StatusCreated, block)
}

func UpdateClassBlockHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de bloque inválido"})
		return
	}

	var block models.ClassBlock
	if err := config.DB.First(&block, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bloque de horario no encontrado"})
		return
	}

	var input models.ClassBlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := validateBlockInput(input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	block.SectionID = input.SectionID
	block.SubjectID = input.SubjectID
	block.TeacherID = input.TeacherID
	block.Weekday = input.Weekday
	block.StartTime = input.StartTime
	block.EndTime = input.EndTime
	block.Description = input.Description
	if err := config.DB.Save(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el bloque"})
		return
	}
	c.JSON(http.StatusOK, block)
}

func DeleteClassBlockHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de bloque inválido"})
		return
	}

	if err := config.DB.Delete(&models.ClassBlock{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el bloque"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bloque eliminado correctamente"})
}
