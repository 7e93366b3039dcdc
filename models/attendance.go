package models

import "time"

// AttendanceRecord es el reporte de asistencia de un bloque de clase en una
// fecha calendario. Existe a lo más un registro por (bloque, fecha); el
// índice único respalda el upsert por clave natural. Sin borrado lógico:
// un DeletedAt rompería la unicidad de la clave natural.
type AttendanceRecord struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ClassBlockID  uint      `json:"classBlockId" gorm:"not null;uniqueIndex:idx_attendance_block_date"`
	Date          string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_attendance_block_date;index"`
	Topic         string    `json:"topic"`
	IncidentNotes string    `json:"incidentNotes"`
	CountVarones  int       `json:"varones"`
	CountHembras  int       `json:"hembras"`
	CountTotal    int       `json:"total"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	ClassBlock *ClassBlock    `gorm:"foreignKey:ClassBlockID" json:"classBlock,omitempty"`
	Absences   []AbsenceEntry `gorm:"foreignKey:AttendanceRecordID" json:"absences,omitempty"`
}

// AbsenceEntry es un estudiante marcado ausente dentro de un reporte.
// El conjunto completo se reemplaza en cada actualización del reporte.
type AbsenceEntry struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	AttendanceRecordID uint   `json:"attendanceRecordId" gorm:"not null;index"`
	StudentID          uint   `json:"studentId" gorm:"not null"`
	Note               string `json:"note"`

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// AttendanceInput es la carga del formulario de reporte de asistencia.
type AttendanceInput struct {
	ClassBlockID  uint           `json:"classBlockId" binding:"required"`
	Date          string         `json:"date"` // vacío = hoy en la zona del plantel
	Topic         string         `json:"topic" binding:"required"`
	IncidentNotes string         `json:"incidentNotes"`
	CountVarones  int            `json:"varones"`
	CountHembras  int            `json:"hembras"`
	CountTotal    int            `json:"total"`
	Absences      []AbsenceInput `json:"absences"`
}

type AbsenceInput struct {
	StudentID uint   `json:"studentId" binding:"required"`
	Note      string `json:"note"`
}
