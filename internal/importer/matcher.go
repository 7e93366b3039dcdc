// Package importer contiene las utilidades de carga masiva desde hojas de
// cálculo: normalización de texto, emparejamiento difuso de nombres contra
// registros existentes y extracción de horas desde texto libre.
package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var diacritics = map[rune]rune{
	'Á': 'A', 'É': 'E', 'Í': 'I', 'Ó': 'O', 'Ú': 'U', 'Ü': 'U', 'Ñ': 'N',
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u', 'ü': 'u', 'ñ': 'n',
	'À': 'A', 'È': 'E', 'Ì': 'I', 'Ò': 'O', 'Ù': 'U',
	'à': 'a', 'è': 'e', 'ì': 'i', 'ò': 'o', 'ù': 'u',
}

// Normalize lleva un nombre a su forma canónica de comparación: mayúsculas,
// sin tildes, solo alfanuméricos y espacios, espacios colapsados.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if folded, ok := diacritics[r]; ok {
			r = folded
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.ToUpper(strings.Join(strings.Fields(b.String()), " "))
}

// Candidate es un registro existente contra el que se empareja texto libre.
type Candidate struct {
	ID   uint
	Name string
}

// Match es el resultado del emparejamiento. Approximate indica que el
// acierto vino de la heurística por tokens y no de igualdad exacta, para
// que la vista previa de importación lo señale al revisor humano.
type Match struct {
	Candidate   Candidate
	Approximate bool
}

// MatchName empareja texto libre contra los candidatos. Primero igualdad
// exacta normalizada; si no hay, gana el primer candidato cuyo nombre
// normalizado contenga algún token (≥3 caracteres) de la entrada. La
// heurística depende del orden y puede confundir fragmentos cortos o
// comunes; es una imprecisión conocida tolerada porque el flujo de
// importación siempre muestra una vista previa antes de confirmar.
func MatchName(raw string, candidates []Candidate) (Match, bool) {
	norm := Normalize(raw)
	if norm == "" {
		return Match{}, false
	}

	for _, c := range candidates {
		if Normalize(c.Name) == norm {
			return Match{Candidate: c}, true
		}
	}

	for _, token := range strings.Fields(norm) {
		if len(token) < 3 {
			continue
		}
		for _, c := range candidates {
			if strings.Contains(Normalize(c.Name), token) {
				return Match{Candidate: c, Approximate: true}, true
			}
		}
	}
	return Match{}, false
}

var timePattern = regexp.MustCompile(`(?i)(\d{1,2})\s*[:.]\s*(\d{2})\s*(a|p)?\.?\s*m?\.?`)

// ExtractTime normaliza horas en texto libre tipo "7:00 a.m." o
// "2.30 P.M." a formato 24 horas "HH:MM". Entrada no reconocible devuelve
// cadena vacía (el llamador la trata como "sin emparejar"), nunca un error.
func ExtractTime(raw string) string {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}

	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return ""
	}

	meridiem := strings.ToLower(m[3])
	if meridiem == "p" && hour < 12 {
		hour += 12
	} else if meridiem == "a" && hour == 12 {
		hour = 0
	}

	return fmt.Sprintf("%02d:%s", hour, m[2])
}
