package models

import "gorm.io/gorm"

// Section representa una sección de estudiantes (p. ej. "4TO A").
// Los estudiantes pertenecen exclusivamente a su sección: eliminar la
// sección elimina también a sus estudiantes.
type Section struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	DepartmentID uint   `json:"departmentId" gorm:"not null"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Students   []Student   `gorm:"foreignKey:SectionID" json:"students,omitempty"`
}

// SectionInput valida los datos de creación/edición de una sección.
type SectionInput struct {
	Name         string `json:"name" binding:"required"`
	DepartmentID uint   `json:"departmentId" binding:"required"`
}

// SectionResponse agrega el conteo de estudiantes para los listados.
type SectionResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	DepartmentID uint   `json:"departmentId"`
	Department   string `json:"department"`
	StudentCount int    `json:"studentCount"`
}
