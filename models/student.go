package models

import "gorm.io/gorm"

// Valores del enum de género tal como vienen en las nóminas.
const (
	GenderVaron  = "VARON"
	GenderHembra = "HEMBRA"
)

// Student representa a un estudiante dentro de una sección.
type Student struct {
	gorm.Model
	SectionID      uint   `json:"sectionId" gorm:"not null;index"`
	FullName       string `json:"fullName" gorm:"not null"`
	ListNumber     int    `json:"listNumber"` // número de orden dentro de la sección
	Gender         string `json:"gender" gorm:"size:10;not null"`
	IdentityNumber string `json:"identityNumber"`

	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

// StudentInput valida los datos del formulario de estudiante.
type StudentInput struct {
	SectionID      uint   `json:"sectionId" binding:"required"`
	FullName       string `json:"fullName" binding:"required"`
	ListNumber     int    `json:"listNumber"`
	Gender         string `json:"gender" binding:"required,oneof=VARON HEMBRA"`
	IdentityNumber string `json:"identityNumber"`
}
