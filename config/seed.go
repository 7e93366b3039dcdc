package config

import (
	"log/slog"
	"os"

	"asistencia-escolar/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

// Catálogo de permisos granulares agrupados por categoría.
var defaultPermissions = []models.Permission{
	{Name: "usuarios_ver", Description: "Ver el personal", Category: "Usuarios"},
	{Name: "usuarios_crear", Description: "Crear usuarios", Category: "Usuarios"},
	{Name: "usuarios_editar", Description: "Editar usuarios", Category: "Usuarios"},
	{Name: "usuarios_eliminar", Description: "Eliminar usuarios", Category: "Usuarios"},
	{Name: "usuarios_importar", Description: "Importar plantilla de personal", Category: "Usuarios"},
	{Name: "roles_ver", Description: "Ver roles", Category: "Roles"},
	{Name: "roles_crear", Description: "Crear roles", Category: "Roles"},
	{Name: "roles_editar", Description: "Editar roles", Category: "Roles"},
	{Name: "roles_eliminar", Description: "Eliminar roles", Category: "Roles"},
	{Name: "permisos_ver", Description: "Ver el catálogo de permisos", Category: "Roles"},
	{Name: "departamentos_crear", Description: "Crear coordinaciones", Category: "Coordinaciones"},
	{Name: "departamentos_editar", Description: "Editar coordinaciones", Category: "Coordinaciones"},
	{Name: "departamentos_eliminar", Description: "Eliminar coordinaciones", Category: "Coordinaciones"},
	{Name: "secciones_ver", Description: "Ver secciones", Category: "Secciones"},
	{Name: "secciones_crear", Description: "Crear secciones", Category: "Secciones"},
	{Name: "secciones_editar", Description: "Editar secciones", Category: "Secciones"},
	{Name: "secciones_eliminar", Description: "Eliminar secciones", Category: "Secciones"},
	{Name: "estudiantes_ver", Description: "Ver estudiantes", Category: "Estudiantes"},
	{Name: "estudiantes_crear", Description: "Crear estudiantes", Category: "Estudiantes"},
	{Name: "estudiantes_editar", Description: "Editar estudiantes", Category: "Estudiantes"},
	{Name: "estudiantes_eliminar", Description: "Eliminar estudiantes", Category: "Estudiantes"},
	{Name: "estudiantes_importar", Description: "Importar nóminas", Category: "Estudiantes"},
	{Name: "asignaturas_ver", Description: "Ver asignaturas", Category: "Asignaturas"},
	{Name: "asignaturas_crear", Description: "Crear asignaturas", Category: "Asignaturas"},
	{Name: "asignaturas_editar", Description: "Editar asignaturas", Category: "Asignaturas"},
	{Name: "asignaturas_eliminar", Description: "Eliminar asignaturas", Category: "Asignaturas"},
	{Name: "horarios_ver", Description: "Ver el horario completo", Category: "Horarios"},
	{Name: "horarios_crear", Description: "Crear bloques de horario", Category: "Horarios"},
	{Name: "horarios_editar", Description: "Editar bloques de horario", Category: "Horarios"},
	{Name: "horarios_eliminar", Description: "Eliminar bloques de horario", Category: "Horarios"},
	{Name: "personal_asistencia_ver", Description: "Ver la asistencia del personal", Category: "Asistencia"},
	{Name: "personal_asistencia_registrar", Description: "Registrar asistencia del personal", Category: "Asistencia"},
	{Name: "reportes_exportar", Description: "Exportar reportes a Excel", Category: "Reportes"},
}

// SeedDefaults garantiza el catálogo de permisos, los roles base y el
// usuario admin inicial. Idempotente: corre en cada arranque.
func SeedDefaults() {
	if err := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&defaultPermissions).Error; err != nil {
		slog.Error("No se pudo sembrar el catálogo de permisos", "error", err)
	}

	for _, name := range []string{models.RoleAdmin, models.RoleCoordinator, models.RoleTeacher} {
		role := models.Role{Name: name}
		if err := DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&role).Error; err != nil {
			slog.Error("No se pudo sembrar el rol", "role", name, "error", err)
		}
	}

	seedAdminUser()
}

// seedAdminUser crea el usuario admin inicial si no existe ninguno con ese
// rol. Credenciales desde ADMIN_USERNAME/ADMIN_PASSWORD.
func seedAdminUser() {
	var count int64
	DB.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", models.RoleAdmin).
		Count(&count)
	if count > 0 {
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		slog.Warn("Sin usuario admin y sin ADMIN_USERNAME/ADMIN_PASSWORD definidos, no se creó el admin inicial")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("No se pudo cifrar la contraseña del admin inicial", "error", err)
		return
	}

	var adminRole models.Role
	if err := DB.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		slog.Error("No se encontró el rol admin para el usuario inicial", "error", err)
		return
	}

	admin := models.User{
		FullName: "Administrador",
		Username: username,
		Password: string(hashed),
		Roles:    []models.Role{adminRole},
	}
	if err := DB.Create(&admin).Error; err != nil {
		slog.Error("No se pudo crear el usuario admin inicial", "error", err)
		return
	}
	slog.Info("Usuario admin inicial creado", "username", username)
}
