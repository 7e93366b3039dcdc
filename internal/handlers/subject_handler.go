package handlers

import (
	"net/http"
	"strconv"

	"asistencia-escolar/config"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
)

type subjectInput struct {
	Name string `json:"name" binding:"required"`
}

func ListSubjectsHandler(c *gin.Context) {
	var subjects []models.Subject
	if err := config.DB.Order("name asc").Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las asignaturas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": subjects})
}

func CreateSubjectHandler(c *gin.Context) {
	var input subjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := models.Subject{Name: input.Name}
	if err := config.DB.Create(&subject).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ya existe una asignatura con ese nombre"})
		return
	}
	c.JSON(http.StatusCreated, subject)
}

func UpdateSubjectHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de asignatura inválido"})
		return
	}

	var subject models.Subject
	if err := config.DB.First(&subject, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asignatura no encontrada"})
		return
	}

	var input subjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject.Name = input.Name
	if err := config.DB.Save(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la asignatura"})
		return
	}
	c.JSON(http.StatusOK, subject)
}

func DeleteSubjectHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de asignatura inválido"})
		return
	}

	var blocks int64
	config.DB.Model(&models.ClassBlock{}).Where("subject_id = ?", id).Count(&blocks)
	if blocks > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La asignatura está en uso en el horario"})
		return
	}

	if err := config.DB.Delete(&models.Subject{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar la asignatura"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asignatura eliminada correctamente"})
}
