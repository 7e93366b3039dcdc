// Package reporting implementa el motor de agregación del tablero diario:
// matrícula, conteos reportados, porcentaje de asistencia, bloques
// pendientes y ausencias del personal, todo recortado al alcance del
// solicitante.
package reporting

import (
	"fmt"

	"asistencia-escolar/internal/auth"
	"asistencia-escolar/internal/schoolday"
	"asistencia-escolar/models"

	"gorm.io/gorm"
)

// GenderCount es un conteo desglosado por género.
type GenderCount struct {
	Total   int `json:"total"`
	Varones int `json:"varones"`
	Hembras int `json:"hembras"`
}

// AbsentStudentRow es una fila de la lista de ausentes para el detalle del
// tablero (sin segunda consulta).
type AbsentStudentRow struct {
	StudentID  uint   `json:"studentId"`
	FullName   string `json:"fullName"`
	Gender     string `json:"gender"`
	ListNumber int    `json:"listNumber"`
	Section    string `json:"section"`
	Subject    string `json:"subject"`
	Note       string `json:"note"`
}

// PersonnelAbsenceRow es un miembro del personal marcado ausente en la fecha.
type PersonnelAbsenceRow struct {
	UserID     uint   `json:"userId"`
	FullName   string `json:"fullName"`
	Position   string `json:"position"`
	Department string `json:"department"`
	ReasonCode string `json:"reasonCode"`
	Note       string `json:"note"`
}

// AcademicSummary es el resumen diario para alcances académicos.
type AcademicSummary struct {
	Date            string      `json:"date"`
	Weekday         string      `json:"weekday"`
	Enrollment      GenderCount `json:"enrollment"`
	ScheduledToday  GenderCount `json:"scheduledToday"`
	ReportedPresent GenderCount `json:"reportedPresent"`
	ReportedAbsent  int         `json:"reportedAbsent"`
	AusentesVarones int         `json:"ausentesVarones"`
	AusentesHembras int         `json:"ausentesHembras"`
	Percentage      string      `json:"percentage"`
	BlocksScheduled int         `json:"blocksScheduled"`
	BlocksReported  int         `json:"blocksReported"`

	// Listas de detalle; PendingBlocks se omite para docentes (no les
	// corresponde ver qué colegas están pendientes).
	PendingBlocks     []models.ClassBlockView `json:"pendingBlocks,omitempty"`
	AbsentStudents    []AbsentStudentRow      `json:"absentStudents"`
	PersonnelAbsences []PersonnelAbsenceRow   `json:"personnelAbsences,omitempty"`
}

// PersonnelSummary es la forma alterna del tablero para la coordinación
// administrativa: solo personal, sin conceptos académicos.
type PersonnelSummary struct {
	Date              string                `json:"date"`
	Weekday           string                `json:"weekday"`
	StaffTotal        int                   `json:"staffTotal"`
	AbsentToday       int                   `json:"absentToday"`
	PresentPercentage string                `json:"presentPercentage"`
	Absences          []PersonnelAbsenceRow `json:"absences"`
}

// FormatPercentage calcula presente/(presente+ausente) a un decimal.
// Con denominador cero (sin reportes) devuelve "0%" por regla de borde,
// no un error de división.
func FormatPercentage(present, absent int) string {
	total := present + absent
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(present)/float64(total)*100)
}

// sectionScope aplica el filtro de coordinación/docente a una consulta que
// ya tiene sections y class_blocks unidos según corresponda.
func applySectionScope(q *gorm.DB, scope auth.Scope) *gorm.DB {
	switch {
	case scope.IsAdmin():
		return q
	case scope.IsTeacherOnly():
		return q.Where("sections.id IN (SELECT section_id FROM class_blocks WHERE teacher_id = ? AND deleted_at IS NULL)", scope.UserID)
	case scope.DepartmentID != nil:
		return q.Where("sections.department_id = ?", *scope.DepartmentID)
	default:
		// Sin coordinación asignada y sin rol global: no ve nada.
		return q.Where("1 = 0")
	}
}

// BlocksForDay devuelve los bloques activos en un día de la semana, con
// sección, asignatura y docente resueltos, en orden natural de horario
// (start_time asc, id como desempate estable). Sin efectos secundarios.
func BlocksForDay(db *gorm.DB, weekday string, scope auth.Scope) ([]models.ClassBlockView, error) {
	q := db.Table("class_blocks").
		Select(`class_blocks.id,
			class_blocks.section_id,
			sections.name AS section,
			class_blocks.subject_id,
			COALESCE(subjects.name, class_blocks.description) AS subject,
			class_blocks.teacher_id,
			users.full_name AS teacher,
			class_blocks.weekday,
			class_blocks.start_time,
			class_blocks.end_time,
			class_blocks.description`).
		Joins("JOIN sections ON sections.id = class_blocks.section_id AND sections.deleted_at IS NULL").
		Joins("LEFT JOIN subjects ON subjects.id = class_blocks.subject_id").
		Joins("JOIN users ON users.id = class_blocks.teacher_id").
		Where("class_blocks.weekday = ? AND class_blocks.deleted_at IS NULL", weekday).
		Order("class_blocks.start_time, class_blocks.id")

	if scope.IsTeacherOnly() {
		q = q.Where("class_blocks.teacher_id = ?", scope.UserID)
	} else if !scope.IsAdmin() && scope.DepartmentID != nil {
		q = q.Where("sections.department_id = ?", *scope.DepartmentID)
	} else if !scope.IsAdmin() && scope.DepartmentID == nil {
		q = q.Where("1 = 0")
	}

	var blocks []models.ClassBlockView
	if err := q.Scan(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// DailySummary produce el resumen del día para el alcance dado. La fecha
// puede ser pasada: el día de la semana se deriva de la fecha pedida, no
// del reloj. La coordinación administrativa recibe PersonnelSummary; el
// resto, AcademicSummary.
func DailySummary(db *gorm.DB, date string, scope auth.Scope) (any, error) {
	weekday := schoolday.WeekdayOf(date)
	if weekday == "" {
		return nil, fmt.Errorf("fecha inválida: %q", date)
	}

	if scope.IsAdministrative && !scope.IsAdmin() {
		return personnelSummary(db, date, weekday, scope)
	}
	return academicSummary(db, date, weekday, scope)
}

func academicSummary(db *gorm.DB, date, weekday string, scope auth.Scope) (*AcademicSummary, error) {
	sum := &AcademicSummary{Date: date, Weekday: weekday}

	// 1. Matrícula por género dentro del alcance.
	enrollQ := db.Table("students").
		Select(genderSelect("students.gender")).
		Joins("JOIN sections ON sections.id = students.section_id AND sections.deleted_at IS NULL").
		Where("students.deleted_at IS NULL")
	if err := applySectionScope(enrollQ, scope).Scan(&sum.Enrollment).Error; err != nil {
		return nil, err
	}

	// 2. Estudiantes con clase hoy: secciones con al menos un bloque en el
	// día de la semana pedido. Generalmente menor que la matrícula total.
	schedQ := db.Table("students").
		Select(genderSelect("students.gender")).
		Joins("JOIN sections ON sections.id = students.section_id AND sections.deleted_at IS NULL").
		Where("students.deleted_at IS NULL").
		Where("students.section_id IN (SELECT section_id FROM class_blocks WHERE weekday = ? AND deleted_at IS NULL)", weekday)
	if scope.IsTeacherOnly() {
		schedQ = schedQ.Where("students.section_id IN (SELECT section_id FROM class_blocks WHERE weekday = ? AND teacher_id = ? AND deleted_at IS NULL)", weekday, scope.UserID)
	}
	if err := applySectionScope(schedQ, scope).Scan(&sum.ScheduledToday).Error; err != nil {
		return nil, err
	}

	// 3. Conteos reportados por los docentes (presentes).
	repQ := db.Table("attendance_records").
		Select(`COALESCE(SUM(attendance_records.count_total), 0) AS total,
			COALESCE(SUM(attendance_records.count_varones), 0) AS varones,
			COALESCE(SUM(attendance_records.count_hembras), 0) AS hembras`).
		Joins("JOIN class_blocks ON class_blocks.id = attendance_records.class_block_id AND class_blocks.deleted_at IS NULL").
		Joins("JOIN sections ON sections.id = class_blocks.section_id AND sections.deleted_at IS NULL").
		Where("attendance_records.date = ?", date)
	if scope.IsTeacherOnly() {
		repQ = repQ.Where("class_blocks.teacher_id = ?", scope.UserID)
	}
	if err := applySectionScope(repQ, scope).Scan(&sum.ReportedPresent).Error; err != nil {
		return nil, err
	}

	// 4. Ausencias individuales por género.
	var absent GenderCount
	absQ := db.Table("absence_entries").
		Select(genderSelect("students.gender")).
		Joins("JOIN attendance_records ON attendance_records.id = absence_entries.attendance_record_id").
		Joins("JOIN class_blocks ON class_blocks.id = attendance_records.class_block_id AND class_blocks.deleted_at IS NULL").
		Joins("JOIN sections ON sections.id = class_blocks.section_id AND sections.deleted_at IS NULL").
		Joins("JOIN students ON students.id = absence_entries.student_id").
		Where("attendance_records.date = ?", date)
	if scope.IsTeacherOnly() {
		absQ = absQ.Where("class_blocks.teacher_id = ?", scope.UserID)
	}
	if err := applySectionScope(absQ, scope).Scan(&absent).Error; err != nil {
		return nil, err
	}
	sum.ReportedAbsent = absent.Total
	sum.AusentesVarones = absent.Varones
	sum.AusentesHembras = absent.Hembras

	sum.Percentage = FormatPercentage(sum.ReportedPresent.Total, sum.ReportedAbsent)

	// 5. Bloques programados vs reportados: el faltante (programados menos
	// reportados por identidad de bloque) es la lista de pendientes.
	blocks, err := BlocksForDay(db, weekday, scope)
	if err != nil {
		return nil, err
	}
	reported := map[uint]bool{}
	var reportedIDs []uint
	if err := db.Table("attendance_records").
		Where("date = ?", date).
		Pluck("class_block_id", &reportedIDs).Error; err != nil {
		return nil, err
	}
	for _, id := range reportedIDs {
		reported[id] = true
	}

	pending := make([]models.ClassBlockView, 0)
	for _, b := range blocks {
		if reported[b.ID] {
			sum.BlocksReported++
		} else {
			pending = append(pending, b)
		}
	}
	sum.BlocksScheduled = len(blocks)
	if !scope.IsTeacherOnly() {
		sum.PendingBlocks = pending
	}

	// 6. Lista de estudiantes ausentes para el detalle.
	absRowsQ := db.Table("absence_entries").
		Select(`students.id AS student_id,
			students.full_name,
			students.gender,
			students.list_number,
			sections.name AS section,
			COALESCE(subjects.name, class_blocks.description) AS subject,
			absence_entries.note`).
		Joins("JOIN attendance_records ON attendance_records.id = absence_entries.attendance_record_id").
		Joins("JOIN class_blocks ON class_blocks.id = attendance_records.class_block_id AND class_blocks.deleted_at IS NULL").
		Joins("LEFT JOIN subjects ON subjects.id = class_blocks.subject_id").
		Joins("JOIN sections ON sections.id = class_blocks.section_id AND sections.deleted_at IS NULL").
		Joins("JOIN students ON students.id = absence_entries.student_id").
		Where("attendance_records.date = ?", date).
		Order("sections.name, students.list_number")
	if scope.IsTeacherOnly() {
		absRowsQ = absRowsQ.Where("class_blocks.teacher_id = ?", scope.UserID)
	}
	sum.AbsentStudents = make([]AbsentStudentRow, 0)
	if err := applySectionScope(absRowsQ, scope).Scan(&sum.AbsentStudents).Error; err != nil {
		return nil, err
	}

	// 7. Ausencias del personal (no visibles para docentes).
	if !scope.IsTeacherOnly() {
		rows, err := personnelAbsences(db, date, scope)
		if err != nil {
			return nil, err
		}
		sum.PersonnelAbsences = rows
	}

	return sum, nil
}

func personnelAbsences(db *gorm.DB, date string, scope auth.Scope) ([]PersonnelAbsenceRow, error) {
	q := db.Table("personnel_attendances").
		Select(`users.id AS user_id,
			users.full_name,
			users.position,
			COALESCE(departments.name, '') AS department,
			COALESCE(personnel_attendances.reason_code, '') AS reason_code,
			personnel_attendances.note`).
		Joins("JOIN users ON users.id = personnel_attendances.user_id AND users.deleted_at IS NULL").
		Joins("LEFT JOIN departments ON departments.id = users.department_id").
		Where("personnel_attendances.date = ? AND personnel_attendances.present = ?", date, false).
		Order("users.full_name")
	if !scope.IsAdmin() && scope.DepartmentID != nil {
		q = q.Where("users.department_id = ?", *scope.DepartmentID)
	}

	rows := make([]PersonnelAbsenceRow, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func personnelSummary(db *gorm.DB, date, weekday string, scope auth.Scope) (*PersonnelSummary, error) {
	sum := &PersonnelSummary{Date: date, Weekday: weekday}

	staffQ := db.Model(&models.User{}).Where("is_active = ?", true)
	if scope.DepartmentID != nil {
		staffQ = staffQ.Where("department_id = ?", *scope.DepartmentID)
	}
	var staffTotal int64
	if err := staffQ.Count(&staffTotal).Error; err != nil {
		return nil, err
	}
	sum.StaffTotal = int(staffTotal)

	rows, err := personnelAbsences(db, date, scope)
	if err != nil {
		return nil, err
	}
	sum.Absences = rows
	sum.AbsentToday = len(rows)
	sum.PresentPercentage = FormatPercentage(sum.StaffTotal-sum.AbsentToday, sum.AbsentToday)
	return sum, nil
}

// genderSelect arma el conteo desglosado portable entre postgres y sqlite.
func genderSelect(col string) string {
	return fmt.Sprintf(`COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN %s = 'VARON' THEN 1 ELSE 0 END), 0) AS varones,
		COALESCE(SUM(CASE WHEN %s = 'HEMBRA' THEN 1 ELSE 0 END), 0) AS hembras`, col, col)
}
