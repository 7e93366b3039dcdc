package models

import (
	"time"

	"gorm.io/gorm"
)

// User representa a un miembro del personal del plantel y su identidad de
// acceso al sistema (docentes, coordinadores y administrativos).
type User struct {
	gorm.Model
	FullName       string  `json:"fullName" gorm:"not null"`
	Username       string  `json:"username" gorm:"unique;not null"`
	Email          string  `json:"email"`
	Password       string  `json:"-" gorm:"not null"`
	IdentityNumber string  `json:"identityNumber"`
	Position       string  `json:"position"`
	PhotoURL       string  `json:"photoUrl"`
	DepartmentID   *uint   `json:"departmentId"`
	IsActive       *bool   `json:"isActive" gorm:"default:true"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Roles      []Role      `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// UserInput se usa para crear/actualizar usuarios desde la API.
type UserInput struct {
	FullName       string `json:"fullName" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	IdentityNumber string `json:"identityNumber"`
	Position       string `json:"position"`
	DepartmentID   *uint  `json:"departmentId"`
	IsActive       *bool  `json:"isActive"`
	RoleIDs        []uint `json:"roleIds"`
}

// UserResponse evita filtrar el hash de contraseña en las respuestas.
type UserResponse struct {
	ID             uint      `json:"id"`
	FullName       string    `json:"fullName"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	IdentityNumber string    `json:"identityNumber"`
	Position       string    `json:"position"`
	PhotoURL       string    `json:"photoUrl"`
	DepartmentID   *uint     `json:"departmentId"`
	Department     string    `json:"department"`
	IsActive       bool      `json:"isActive"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"createdAt"`
}
