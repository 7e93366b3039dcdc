package importer

import (
	"strconv"
	"strings"
)

// RosterRow es una fila tipada de la nómina de una sección. Los campos
// pueden venir ausentes o malformados; el parseo es best-effort y nunca
// debe reventar: las filas inválidas se marcan y se muestran en la vista
// previa en lugar de abortar la carga.
type RosterRow struct {
	ListNumber     int    `json:"listNumber"`
	FullName       string `json:"fullName"`
	Gender         string `json:"gender"` // VARON | HEMBRA | "" si no se reconoce
	IdentityNumber string `json:"identityNumber"`
	Problem        string `json:"problem,omitempty"`
}

// PersonnelRow es una fila tipada de la plantilla de personal.
type PersonnelRow struct {
	FullName       string `json:"fullName"`
	IdentityNumber string `json:"identityNumber"`
	Position       string `json:"position"`
	DepartmentName string `json:"departmentName"`
	HasAccess      bool   `json:"hasAccess"`
	Username       string `json:"username"`
	Password       string `json:"-"`
	Problem        string `json:"problem,omitempty"`
}

// cell devuelve la celda i de la fila, o "" si la fila es corta.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseGender reconoce la letra de género de las nóminas (V/H, con
// variantes M/F como tolerancia).
func parseGender(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "V", "M", "VARON", "MASCULINO":
		return "VARON"
	case "H", "F", "HEMBRA", "FEMENINO":
		return "HEMBRA"
	default:
		return ""
	}
}

// ParseRosterRows convierte las filas crudas de una hoja de nómina
// (columnas: número de orden, nombre, letra de género, cédula/NUI) en filas
// tipadas. La primera fila se descarta si parece encabezado.
func ParseRosterRows(rows [][]string) []RosterRow {
	out := make([]RosterRow, 0, len(rows))
	for i, raw := range rows {
		if i == 0 && looksLikeHeader(cell(raw, 0)) {
			continue
		}
		name := cell(raw, 1)
		if name == "" && cell(raw, 0) == "" {
			continue // fila vacía
		}

		r := RosterRow{
			FullName:       name,
			Gender:         parseGender(cell(raw, 2)),
			IdentityNumber: cell(raw, 3),
		}
		if n, err := strconv.Atoi(cell(raw, 0)); err == nil {
			r.ListNumber = n
		}
		switch {
		case r.FullName == "":
			r.Problem = "fila sin nombre"
		case r.Gender == "":
			r.Problem = "género no reconocido: " + cell(raw, 2)
		}
		out = append(out, r)
	}
	return out
}

// ParsePersonnelRows convierte las filas crudas de la plantilla de personal
// (columnas: nombre, cédula, cargo, coordinación, acceso, usuario,
// contraseña) en filas tipadas.
func ParsePersonnelRows(rows [][]string) []PersonnelRow {
	out := make([]PersonnelRow, 0, len(rows))
	for i, raw := range rows {
		if i == 0 && looksLikeHeader(cell(raw, 0)) {
			continue
		}
		name := cell(raw, 0)
		if name == "" {
			continue
		}

		r := PersonnelRow{
			FullName:       name,
			IdentityNumber: cell(raw, 1),
			Position:       cell(raw, 2),
			DepartmentName: cell(raw, 3),
			HasAccess:      parseFlag(cell(raw, 4)),
			Username:       cell(raw, 5),
			Password:       cell(raw, 6),
		}
		if r.HasAccess && r.Username == "" {
			r.Problem = "acceso habilitado sin nombre de usuario"
		}
		out = append(out, r)
	}
	return out
}

func parseFlag(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SI", "SÍ", "S", "1", "TRUE", "X", "YES":
		return true
	default:
		return false
	}
}

// Etiquetas con las que suelen encabezar las plantillas: "No.", "#" o
// "Nombre" en la primera columna.
var headerLabels = map[string]bool{"NO": true, "NUM": true, "NUMERO": true, "NOMBRE": true, "NOMBRES": true}

func looksLikeHeader(first string) bool {
	if first == "#" {
		return true
	}
	return headerLabels[Normalize(first)]
}
