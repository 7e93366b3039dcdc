package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"asistencia-escolar/config"
	"asistencia-escolar/internal/middleware"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ListSectionsHandler lista las secciones con su conteo de estudiantes,
// filtradas a la coordinación del solicitante salvo para el admin.
func ListSectionsHandler(c *gin.Context) {
	scope := middleware.GetScope(c)

	query := config.DB.Model(&models.Section{}).Preload("Department").Order("name asc")
	if !scope.IsAdmin() && scope.DepartmentID != nil {
		query = query.Where("department_id = ?", *scope.DepartmentID)
	}
	if deptID := c.Query("department_id"); deptID != "" {
		query = query.Where("department_id = ?", deptID)
	}

	var sections []models.Section
	if err := query.Find(&sections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las secciones"})
		return
	}

	responseData := make([]models.SectionResponse, 0, len(sections))
	for _, s := range sections {
		var count int64
		config.DB.Model(&models.Student{}).Where("section_id = ?", s.ID).Count(&count)
		resp := models.SectionResponse{
			ID:           s.ID,
			Name:         s.Name,
			DepartmentID: s.DepartmentID,
			StudentCount: int(count),
		}
		if s.Department != nil {
			resp.Department = s.Department.Name
		}
		responseData = append(responseData, resp)
	}
	c.JSON(http.StatusOK, gin.H{"data": responseData})
}

func GetSectionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de sección inválido"})
		return
	}

	var section models.Section
	if err := config.DB.Preload("Department").Preload("Students", func(db *gorm.DB) *gorm.DB {
		return db.Order("list_number asc, full_name asc")
	}).First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sección no encontrada"})
		return
	}
	c.JSON(http.StatusOK, section)
}

func CreateSectionHandler(c *gin.Context) {
	var input models.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dept models.Department
	if err := config.DB.First(&dept, input.DepartmentID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La coordinación indicada no existe"})
		return
	}

	section := models.Section{Name: input.Name, DepartmentID: input.DepartmentID}
	if err := config.DB.Create(&section).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la sección"})
		return
	}
	c.JSON(http.StatusCreated, section)
}

func UpdateSectionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de sección inválido"})
		return
	}

	var section models.Section
	if err := config.DB.First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sección no encontrada"})
		return
	}

	var input models.SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section.Name = input.Name
	section.DepartmentID = input.DepartmentID
	if err := config.DB.Save(&section).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la sección"})
		return
	}
	c.JSON(http.StatusOK, section)
}

// DeleteSectionHandler elimina la sección y toda su nómina en una sola
// transacción: los estudiantes pertenecen exclusivamente a su sección.
func DeleteSectionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de sección inválido"})
		return
	}

	var section models.Section
	if err := config.DB.First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sección no encontrada"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", section.ID).Delete(&models.Student{}).Error; err != nil {
			return err
		}
		return tx.Delete(&section).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar la sección"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sección y su nómina eliminadas correctamente"})
}

// ExportSectionRosterHandler genera la nómina de la sección en formato .xlsx
// con el mismo orden de columnas que acepta la importación.
func ExportSectionRosterHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de sección inválido"})
		return
	}

	var section models.Section
	if err := config.DB.Preload("Students", func(db *gorm.DB) *gorm.DB {
		return db.Order("list_number asc, full_name asc")
	}).First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sección no encontrada"})
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("No se pudo cerrar el archivo de exportación", "error", err)
		}
	}()

	sheet := "Nómina"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"No.", "Nombre completo", "Género", "Cédula/NUI"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
	}
	f.SetColWidth(sheet, "B", "B", 40)

	for i, s := range section.Students {
		row := strconv.Itoa(i + 2)
		gender := "V"
		if s.Gender == models.GenderHembra {
			gender = "H"
		}
		f.SetCellValue(sheet, "A"+row, s.ListNumber)
		f.SetCellValue(sheet, "B"+row, s.FullName)
		f.SetCellValue(sheet, "C"+row, gender)
		f.SetCellValue(sheet, "D"+row, s.IdentityNumber)
	}

	fileName := fmt.Sprintf("nomina_%s.xlsx", section.Name)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	if err := f.Write(c.Writer); err != nil {
		slog.Error("No se pudo escribir la nómina exportada", "error", err, "section_id", section.ID)
	}
}
