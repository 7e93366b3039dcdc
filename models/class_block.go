package models

import "gorm.io/gorm"

// Días de la semana tal como se guardan en los bloques de horario.
var Weekdays = []string{"LUNES", "MARTES", "MIERCOLES", "JUEVES", "VIERNES", "SABADO", "DOMINGO"}

// ClassBlock es un bloque de horario: una sección con una asignatura (o una
// actividad no académica cuando SubjectID es nulo) a cargo de un docente,
// en un día de la semana y un rango horario fijo.
type ClassBlock struct {
	gorm.Model
	SectionID   uint   `json:"sectionId" gorm:"not null;index"`
	SubjectID   *uint  `json:"subjectId"` // nulo = actividad no académica
	TeacherID   uint   `json:"teacherId" gorm:"not null;index"`
	Weekday     string `json:"weekday" gorm:"size:10;not null;index"`
	StartTime   string `json:"startTime" gorm:"size:5;not null"` // "HH:MM"
	EndTime     string `json:"endTime" gorm:"size:5;not null"`
	Description string `json:"description"` // solo se usa para actividades

	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Teacher *User    `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// ClassBlockInput valida la creación/edición de bloques. La regla
// StartTime < EndTime se verifica en el handler porque las etiquetas de
// binding no comparan campos entre sí.
type ClassBlockInput struct {
	SectionID   uint   `json:"sectionId" binding:"required"`
	SubjectID   *uint  `json:"subjectId"`
	TeacherID   uint   `json:"teacherId" binding:"required"`
	Weekday     string `json:"weekday" binding:"required,oneof=LUNES MARTES MIERCOLES JUEVES VIERNES SABADO DOMINGO"`
	StartTime   string `json:"startTime" binding:"required,len=5"`
	EndTime     string `json:"endTime" binding:"required,len=5"`
	Description string `json:"description"`
}

// ClassBlockView es la proyección de un bloque con los datos de sección,
// asignatura y docente ya resueltos para el tablero y los listados.
type ClassBlockView struct {
	ID          uint   `json:"id"`
	SectionID   uint   `json:"sectionId"`
	Section     string `json:"section"`
	SubjectID   *uint  `json:"subjectId"`
	Subject     string `json:"subject"`
	TeacherID   uint   `json:"teacherId"`
	Teacher     string `json:"teacher"`
	Weekday     string `json:"weekday"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
}
