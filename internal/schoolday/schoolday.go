// Package schoolday resuelve instantes a fechas calendario del plantel.
//
// Todas las operaciones del sistema anclan su "hoy" a una única zona civil
// fija (la del plantel), nunca a UTC ni a la zona local del servidor: cerca
// de medianoche una derivación ingenua desde UTC corre el día reportado.
// El resultado se resuelve una sola vez por operación lógica y se reutiliza
// en todas las consultas derivadas, para que un cambio de día a mitad de
// solicitud no mezcle fechas.
package schoolday

import "time"

// DateLayout es el formato de fecha calendario usado en toda la base de datos.
const DateLayout = "2006-01-02"

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "LUNES",
	time.Tuesday:   "MARTES",
	time.Wednesday: "MIERCOLES",
	time.Thursday:  "JUEVES",
	time.Friday:    "VIERNES",
	time.Saturday:  "SABADO",
	time.Sunday:    "DOMINGO",
}

// Day es una fecha calendario ya resuelta en la zona del plantel.
type Day struct {
	Date    string // "2006-01-02"
	Weekday string // "LUNES".."DOMINGO"
	Time    string // "HH:MM", hora civil del instante resuelto
}

// Resolve proyecta un instante a la fecha calendario observada en loc.
// Función pura del instante de entrada; sin condiciones de error.
func Resolve(t time.Time, loc *time.Location) Day {
	local := t.In(loc)
	return Day{
		Date:    local.Format(DateLayout),
		Weekday: weekdayNames[local.Weekday()],
		Time:    local.Format("15:04"),
	}
}

// WeekdayOf devuelve el nombre del día de la semana para una fecha
// "2006-01-02" ya resuelta. Permite pedir resúmenes de fechas pasadas sin
// tocar el reloj. Devuelve "" si la fecha no parsea.
func WeekdayOf(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return weekdayNames[t.Weekday()]
}
