package models

import "time"

// Códigos de razón de ausencia del personal. Nulos cuando está presente.
const (
	ReasonUnexcused    = "INJUSTIFICADA"
	ReasonMedicalLeave = "LICENCIA_MEDICA"
	ReasonPersonal     = "PERMISO"
	ReasonVacation     = "VACACIONES"
	ReasonOther        = "OTRO"
)

// PersonnelAttendance es el registro diario de presencia/ausencia de un
// miembro del personal, independiente de los reportes por bloque de clase.
// A lo más un registro por (usuario, fecha); última escritura gana, sin
// historial de correcciones.
type PersonnelAttendance struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"userId" gorm:"not null;uniqueIndex:idx_personnel_user_date"`
	RecorderID uint      `json:"recorderId" gorm:"not null"`
	Date       string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_personnel_user_date;index"`
	Present    bool      `json:"present"`
	ReasonCode *string   `json:"reasonCode"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Recorder *User `gorm:"foreignKey:RecorderID" json:"recorder,omitempty"`
}

// PersonnelAttendanceInput es la carga del registro manual por un
// coordinador o administrador.
type PersonnelAttendanceInput struct {
	UserID     uint    `json:"userId" binding:"required"`
	Date       string  `json:"date"` // vacío = hoy
	Present    *bool   `json:"present" binding:"required"`
	ReasonCode *string `json:"reasonCode" binding:"omitempty,oneof=INJUSTIFICADA LICENCIA_MEDICA PERMISO VACACIONES OTRO"`
	Note       string  `json:"note"`
}
