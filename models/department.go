package models

// Department es la unidad organizativa (coordinación) que delimita qué
// secciones y personal puede ver un rol no global. La coordinación marcada
// como administrativa recibe un tablero exclusivamente de personal, sin
// conceptos académicos.
type Department struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	Name             string `json:"name" gorm:"unique;not null"`
	IsAdministrative bool   `json:"isAdministrative" gorm:"default:false"`
}
