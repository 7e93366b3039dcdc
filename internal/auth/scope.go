// Package auth define el alcance de autorización que se arma una sola vez
// por solicitud y se pasa explícitamente a las consultas de negocio, en
// lugar de leer el estado de sesión dentro de la lógica.
package auth

import "slices"

// Scope describe quién hace la solicitud y qué puede ver.
type Scope struct {
	UserID           uint
	Username         string
	FullName         string
	Roles            []string
	Permissions      []string
	DepartmentID     *uint
	IsAdministrative bool // su coordinación es la administrativa/operaciones
}

// IsAdmin indica acceso global sin filtro de coordinación.
func (s Scope) IsAdmin() bool {
	return slices.Contains(s.Roles, "admin")
}

// IsCoordinator indica un rol limitado a su coordinación.
func (s Scope) IsCoordinator() bool {
	return slices.Contains(s.Roles, "coordinador")
}

// IsTeacherOnly indica que el único alcance del usuario son sus propios
// bloques de clase (docente sin rol administrativo ni de coordinación).
func (s Scope) IsTeacherOnly() bool {
	return slices.Contains(s.Roles, "docente") && !s.IsAdmin() && !s.IsCoordinator()
}

// Can verifica un permiso granular. El rol admin siempre pasa.
func (s Scope) Can(permission string) bool {
	if s.IsAdmin() {
		return true
	}
	return slices.Contains(s.Permissions, permission)
}
