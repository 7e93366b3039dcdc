package importer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Juan Pérez", "JUAN PEREZ"},
		{"  maría   ÑÁÑEZ ", "MARIA NANEZ"},
		{"O'Brien-García", "O BRIEN GARCIA"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, quería %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchName(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Name: "PEDRO MARTINEZ"},
		{ID: 2, Name: "JUAN PEREZ"},
		{ID: 3, Name: "JUANA PERALTA"},
	}

	t.Run("igualdad exacta gana sobre substring", func(t *testing.T) {
		m, ok := MatchName("Juan Pérez", candidates)
		if !ok || m.Candidate.ID != 2 {
			t.Fatalf("MatchName = %+v ok=%v, quería candidato 2", m, ok)
		}
		if m.Approximate {
			t.Error("la igualdad exacta no debe marcarse como aproximada")
		}
	})

	t.Run("token de tres o más caracteres empareja por contención", func(t *testing.T) {
		m, ok := MatchName("Prof. Martinez", candidates)
		if !ok || m.Candidate.ID != 1 {
			t.Fatalf("MatchName = %+v ok=%v, quería candidato 1", m, ok)
		}
		if !m.Approximate {
			t.Error("el acierto por token debe marcarse como aproximado")
		}
	})

	t.Run("tokens cortos no emparejan", func(t *testing.T) {
		if m, ok := MatchName("JP", candidates); ok {
			t.Errorf("MatchName con token corto devolvió %+v", m)
		}
	})

	t.Run("sin candidato", func(t *testing.T) {
		if _, ok := MatchName("Nadie Conocido", nil); ok {
			t.Error("MatchName sin candidatos debe fallar")
		}
	})
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2:30 p.m.", "14:30"},
		{"7:00 a.m.", "07:00"},
		{"12:15 a.m.", "00:15"},
		{"12:00 p.m.", "12:00"},
		{"14:30", "14:30"},
		{"8.45 AM", "08:45"},
		{"garbage", ""},
		{"", ""},
		{"99:00", ""},
	}
	for _, tt := range tests {
		if got := ExtractTime(tt.in); got != tt.want {
			t.Errorf("ExtractTime(%q) = %q, quería %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRosterRows(t *testing.T) {
	rows := [][]string{
		{"No.", "Nombre", "Género", "Cédula"},
		{"1", "ANA GOMEZ", "H", "001-1234567-8"},
		{"2", "LUIS DIAZ", "V", ""},
		{"3", "", "V", ""},
		{"4", "PEDRO SIN GENERO", "?", ""},
		{"", "", "", ""},
	}
	got := ParseRosterRows(rows)
	if len(got) != 4 {
		t.Fatalf("ParseRosterRows devolvió %d filas, quería 4", len(got))
	}
	if got[0].Gender != "HEMBRA" || got[0].ListNumber != 1 || got[0].Problem != "" {
		t.Errorf("fila 0 inesperada: %+v", got[0])
	}
	if got[1].Gender != "VARON" {
		t.Errorf("fila 1 inesperada: %+v", got[1])
	}
	if got[2].Problem == "" {
		t.Error("la fila sin nombre debe venir marcada con problema")
	}
	if got[3].Problem == "" {
		t.Error("la fila con género irreconocible debe venir marcada")
	}
}

func TestParsePersonnelRows(t *testing.T) {
	rows := [][]string{
		{"Nombre", "Cédula", "Cargo", "Coordinación", "Acceso", "Usuario", "Contraseña"},
		{"ANTONIO MARTINEZ", "001-0000001-1", "Docente", "TECNICA", "SI", "amartinez", "secreta"},
		{"CLARA NUÑEZ", "", "Secretaria", "ADMINISTRATIVA", "", "", ""},
		{"SIN USUARIO", "", "Docente", "TECNICA", "SI", "", ""},
	}
	got := ParsePersonnelRows(rows)
	if len(got) != 3 {
		t.Fatalf("ParsePersonnelRows devolvió %d filas, quería 3", len(got))
	}
	if !got[0].HasAccess || got[0].Username != "amartinez" {
		t.Errorf("fila 0 inesperada: %+v", got[0])
	}
	if got[1].HasAccess {
		t.Error("acceso vacío debe interpretarse como falso")
	}
	if got[2].Problem == "" {
		t.Error("acceso sin usuario debe venir marcado con problema")
	}
}
