package schoolday

import (
	"testing"
	"time"
)

// Zona fija del Caribe (AST, UTC-4, sin horario de verano).
var ast = time.FixedZone("AST", -4*60*60)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		instant     time.Time
		wantDate    string
		wantWeekday string
		wantTime    string
	}{
		{
			name:        "mediodía entre semana",
			instant:     time.Date(2025, 3, 10, 16, 30, 0, 0, time.UTC), // lunes 12:30 AST
			wantDate:    "2025-03-10",
			wantWeekday: "LUNES",
			wantTime:    "12:30",
		},
		{
			name:        "madrugada UTC sigue siendo el día anterior en el plantel",
			instant:     time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC), // 22:00 del lunes 10 en AST
			wantDate:    "2025-03-10",
			wantWeekday: "LUNES",
			wantTime:    "22:00",
		},
		{
			name:        "domingo",
			instant:     time.Date(2025, 3, 9, 12, 0, 0, 0, ast),
			wantDate:    "2025-03-09",
			wantWeekday: "DOMINGO",
			wantTime:    "12:00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.instant, ast)
			if got.Date != tt.wantDate || got.Weekday != tt.wantWeekday || got.Time != tt.wantTime {
				t.Errorf("Resolve() = %+v, quería fecha=%s día=%s hora=%s", got, tt.wantDate, tt.wantWeekday, tt.wantTime)
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	if got := WeekdayOf("2025-03-14"); got != "VIERNES" {
		t.Errorf("WeekdayOf(2025-03-14) = %q, quería VIERNES", got)
	}
	if got := WeekdayOf("no-es-fecha"); got != "" {
		t.Errorf("WeekdayOf(basura) = %q, quería cadena vacía", got)
	}
}
