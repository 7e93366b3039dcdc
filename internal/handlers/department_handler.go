package handlers

import (
	"net/http"
	"strconv"

	"asistencia-escolar/config"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
)

type departmentInput struct {
	Name             string `json:"name" binding:"required"`
	IsAdministrative bool   `json:"isAdministrative"`
}

func ListDepartmentsHandler(c *gin.Context) {
	var departments []models.Department
	if err := config.DB.Order("name asc").Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las coordinaciones"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": departments})
}

func CreateDepartmentHandler(c *gin.Context) {
	var input departmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dept := models.Department{Name: input.Name, IsAdministrative: input.IsAdministrative}
	if err := config.DB.Create(&dept).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ya existe una coordinación con ese nombre"})
		return
	}
	c.JSON(http.StatusCreated, dept)
}

func UpdateDepartmentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de coordinación inválido"})
		return
	}

	var dept models.Department
	if err := config.DB.First(&dept, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coordinación no encontrada"})
		return
	}

	var input departmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dept.Name = input.Name
	dept.IsAdministrative = input.IsAdministrative
	if err := config.DB.Save(&dept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la coordinación"})
		return
	}
	c.JSON(http.StatusOK, dept)
}

func DeleteDepartmentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de coordinación inválido"})
		return
	}

	// No se elimina una coordinación con secciones o personal colgando:
	// dejaría huérfano el filtro de alcance.
	var sections int64
	config.DB.Model(&models.Section{}).Where("department_id = ?", id).Count(&sections)
	var staff int64
	config.DB.Model(&models.User{}).Where("department_id = ?", id).Count(&staff)
	if sections > 0 || staff > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La coordinación tiene secciones o personal asignado"})
		return
	}

	if err := config.DB.Delete(&models.Department{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar la coordinación"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coordinación eliminada correctamente"})
}
