package models

// Nombres de rol con semántica especial de alcance.
const (
	RoleAdmin       = "admin"       // acceso global, sin filtro de coordinación
	RoleCoordinator = "coordinador" // limitado a su coordinación
	RoleTeacher     = "docente"     // limitado a sus propios bloques de clase
)

// Role define un rol del sistema y sus permisos asociados.
type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"unique;not null"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions;"`
}
