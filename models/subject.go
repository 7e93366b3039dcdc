package models

import "gorm.io/gorm"

// Subject representa una asignatura académica.
type Subject struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}
