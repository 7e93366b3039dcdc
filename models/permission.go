package models

// Permission representa un permiso granular agrupado por categoría
// (p. ej. "Estudiantes", "Asistencia", "Reportes").
type Permission struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
	Category    string `json:"category" gorm:"not null"`
}
