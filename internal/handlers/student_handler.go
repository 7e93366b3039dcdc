package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"asistencia-escolar/config"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
)

// ListStudentsHandler lista estudiantes paginados, con búsqueda por nombre o
// cédula y filtro por sección.
func ListStudentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Student{}).Preload("Section").
		Order("section_id asc, list_number asc, full_name asc")

	if sectionID := c.Query("section_id"); sectionID != "" {
		query = query.Where("section_id = ?", sectionID)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR identity_number LIKE ?", pattern, pattern)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo contar los estudiantes"})
		return
	}

	var students []models.Student
	if err := query.Scopes(Paginate(c)).Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los estudiantes"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

func GetStudentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de estudiante inválido"})
		return
	}

	var student models.Student
	if err := config.DB.Preload("Section").First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Estudiante no encontrado"})
		return
	}
	c.JSON(http.StatusOK, student)
}

func CreateStudentHandler(c *gin.Context) {
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var section models.Section
	if err := config.DB.First(&section, input.SectionID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La sección indicada no existe"})
		return
	}

	student := models.Student{
		SectionID:      input.SectionID,
		FullName:       input.FullName,
		ListNumber:     input.ListNumber,
		Gender:         input.Gender,
		IdentityNumber: input.IdentityNumber,
	}
	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el estudiante"})
		return
	}
	c.JSON(http.StatusCreated, student)
}

func UpdateStudentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de estudiante inválido"})
		return
	}

	var student models.Student
	if err := config.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Estudiante no encontrado"})
		return
	}

	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student.SectionID = input.SectionID
	student.FullName = input.FullName
	student.ListNumber = input.ListNumber
	student.Gender = input.Gender
	student.IdentityNumber = input.IdentityNumber
	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el estudiante"})
		return
	}
	c.JSON(http.StatusOK, student)
}

func DeleteStudentHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de estudiante inválido"})
		return
	}

	if err := config.DB.Delete(&models.Student{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el estudiante"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Estudiante eliminado correctamente"})
}
