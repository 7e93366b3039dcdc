package reporting

import (
	"testing"

	"asistencia-escolar/internal/attendance"
	"asistencia-escolar/internal/auth"
	"asistencia-escolar/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 2025-03-10 es lunes.
const monday = "2025-03-10"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Department{}, &models.User{}, &models.Role{}, &models.Permission{},
		&models.Section{}, &models.Student{}, &models.Subject{}, &models.ClassBlock{},
		&models.AttendanceRecord{}, &models.AbsenceEntry{}, &models.PersonnelAttendance{},
	))
	return db
}

type fixture struct {
	dept    models.Department
	teacher models.User
	section models.Section
	alumnos []models.Student
	block   models.ClassBlock
}

// seedMonday arma el escenario de referencia: una sección con 3 estudiantes
// (2 VARON, 1 HEMBRA) y un único bloque los lunes.
func seedMonday(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{}

	f.dept = models.Department{Name: "TECNICA"}
	require.NoError(t, db.Create(&f.dept).Error)

	f.teacher = models.User{FullName: "ANTONIO MARTINEZ", Username: "amartinez", Password: "x", DepartmentID: &f.dept.ID}
	require.NoError(t, db.Create(&f.teacher).Error)

	f.section = models.Section{Name: "4TO A", DepartmentID: f.dept.ID}
	require.NoError(t, db.Create(&f.section).Error)

	f.alumnos = []models.Student{
		{SectionID: f.section.ID, FullName: "LUIS DIAZ", ListNumber: 1, Gender: models.GenderVaron},
		{SectionID: f.section.ID, FullName: "PEDRO GOMEZ", ListNumber: 2, Gender: models.GenderVaron},
		{SectionID: f.section.ID, FullName: "ANA PEREZ", ListNumber: 3, Gender: models.GenderHembra},
	}
	require.NoError(t, db.Create(&f.alumnos).Error)

	subject := models.Subject{Name: "MATEMATICA"}
	require.NoError(t, db.Create(&subject).Error)

	f.block = models.ClassBlock{
		SectionID: f.section.ID,
		SubjectID: &subject.ID,
		TeacherID: f.teacher.ID,
		Weekday:   "LUNES",
		StartTime: "08:00",
		EndTime:   "09:00",
	}
	require.NoError(t, db.Create(&f.block).Error)
	return f
}

func adminScope() auth.Scope {
	return auth.Scope{UserID: 1, Roles: []string{models.RoleAdmin}}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		present, absent int
		want            string
	}{
		{0, 0, "0%"}, // sin reportes: regla de borde, no división entre cero
		{3, 0, "100.0%"},
		{2, 1, "66.7%"},
		{1, 2, "33.3%"},
		{0, 5, "0.0%"},
	}
	for _, tt := range tests {
		if got := FormatPercentage(tt.present, tt.absent); got != tt.want {
			t.Errorf("FormatPercentage(%d, %d) = %q, quería %q", tt.present, tt.absent, got, tt.want)
		}
	}
}

func TestDailySummaryBeforeAnyReport(t *testing.T) {
	db := setupDB(t)
	f := seedMonday(t, db)

	out, err := DailySummary(db, monday, adminScope())
	require.NoError(t, err)
	sum := out.(*AcademicSummary)

	require.Equal(t, "LUNES", sum.Weekday)
	require.Equal(t, GenderCount{Total: 3, Varones: 2, Hembras: 1}, sum.Enrollment)
	require.Equal(t, GenderCount{Total: 3, Varones: 2, Hembras: 1}, sum.ScheduledToday)
	require.Equal(t, "0%", sum.Percentage, "sin reportes el porcentaje es 0%, no un error")
	require.Equal(t, 1, sum.BlocksScheduled)
	require.Zero(t, sum.BlocksReported)
	require.Len(t, sum.PendingBlocks, 1)
	require.Equal(t, f.block.ID, sum.PendingBlocks[0].ID)
	require.Equal(t, "ANTONIO MARTINEZ", sum.PendingBlocks[0].Teacher)
}

func TestDailySummaryFullAttendance(t *testing.T) {
	db := setupDB(t)
	f := seedMonday(t, db)

	in := models.AttendanceInput{
		ClassBlockID: f.block.ID,
		Topic:        "Fracciones",
		CountVarones: 2, CountHembras: 1, CountTotal: 3,
	}
	_, err := attendance.UpsertRecord(db, in, monday, f.teacher.ID)
	require.NoError(t, err)

	out, err := DailySummary(db, monday, adminScope())
	require.NoError(t, err)
	sum := out.(*AcademicSummary)

	require.Equal(t, GenderCount{Total: 3, Varones: 2, Hembras: 1}, sum.Enrollment)
	require.Equal(t, 3, sum.ReportedPresent.Total)
	require.Zero(t, sum.ReportedAbsent)
	require.Equal(t, "100.0%", sum.Percentage)
	require.Empty(t, sum.PendingBlocks, "el único bloque ya fue reportado")
	require.Equal(t, 1, sum.BlocksReported)
}

func TestDailySummaryAbsenceBreakdown(t *testing.T) {
	db := setupDB(t)
	f := seedMonday(t, db)

	// Un varón ausente; presentes 1 varón y 1 hembra.
	in := models.AttendanceInput{
		ClassBlockID: f.block.ID,
		Topic:        "Fracciones",
		CountVarones: 1, CountHembras: 1, CountTotal: 2,
		Absences: []models.AbsenceInput{{StudentID: f.alumnos[0].ID, Note: "enfermo"}},
	}
	_, err := attendance.UpsertRecord(db, in, monday, f.teacher.ID)
	require.NoError(t, err)

	out, err := DailySummary(db, monday, adminScope())
	require.NoError(t, err)
	sum := out.(*AcademicSummary)

	require.Equal(t, 1, sum.AusentesVarones)
	require.Zero(t, sum.AusentesHembras)
	require.Equal(t, 1, sum.ReportedAbsent)
	require.Equal(t, "66.7%", sum.Percentage)

	require.Len(t, sum.AbsentStudents, 1)
	require.Equal(t, "LUIS DIAZ", sum.AbsentStudents[0].FullName)
	require.Equal(t, "MATEMATICA", sum.AbsentStudents[0].Subject)
	require.Equal(t, "enfermo", sum.AbsentStudents[0].Note)
}

func TestDailySummaryScopesByDepartment(t *testing.T) {
	db := setupDB(t)
	f := seedMonday(t, db)

	// Otra coordinación con su propia sección y bloque el mismo lunes.
	other := models.Department{Name: "BASICA"}
	require.NoError(t, db.Create(&other).Error)
	otherTeacher := models.User{FullName: "MARIA SUAREZ", Username: "msuarez", Password: "x", DepartmentID: &other.ID}
	require.NoError(t, db.Create(&otherTeacher).Error)
	otherSection := models.Section{Name: "2DO B", DepartmentID: other.ID}
	require.NoError(t, db.Create(&otherSection).Error)
	require.NoError(t, db.Create(&models.Student{SectionID: otherSection.ID, FullName: "JOSE LUNA", Gender: models.GenderVaron}).Error)
	require.NoError(t, db.Create(&models.ClassBlock{
		SectionID: otherSection.ID, TeacherID: otherTeacher.ID,
		Weekday: "LUNES", StartTime: "07:00", EndTime: "08:00", Description: "FORMACION",
	}).Error)

	coord := auth.Scope{
		UserID:       50,
		Roles:        []string{models.RoleCoordinator},
		DepartmentID: &f.dept.ID,
	}
	out, err := DailySummary(db, monday, coord)
	require.NoError(t, err)
	sum := out.(*AcademicSummary)

	require.Equal(t, 3, sum.Enrollment.Total, "el coordinador solo ve su coordinación")
	require.Equal(t, 1, sum.BlocksScheduled)

	// El admin global ve ambas coordinaciones.
	out, err = DailySummary(db, monday, adminScope())
	require.NoError(t, err)
	global := out.(*AcademicSummary)
	require.Equal(t, 4, global.Enrollment.Total)
	require.Equal(t, 2, global.BlocksScheduled)
}

func TestDailySummaryTeacherScope(t *testing.T) {
	db := setupDB(t)
	f := seedMonday(t, db)

	docente := auth.Scope{
		UserID:       f.teacher.ID,
		Roles:        []string{models.RoleTeacher},
		DepartmentID: &f.dept.ID,
	}
	out, err := DailySummary(db, monday, docente)
	require.NoError(t, err)
	sum := out.(*AcademicSummary)

	require.Equal(t, 1, sum.BlocksScheduled, "el docente solo ve sus propios bloques")
	require.Nil(t, sum.PendingBlocks, "el detalle de pendientes no se muestra a docentes")
	require.Nil(t, sum.PersonnelAbsences)
}

func TestDailySummaryAdministrativeShape(t *testing.T) {
	db := setupDB(t)
	seedMonday(t, db)

	admDept := models.Department{Name: "ADMINISTRATIVA", IsAdministrative: true}
	require.NoError(t, db.Create(&admDept).Error)
	staff := []models.User{
		{FullName: "CLARA NUÑEZ", Username: "cnunez", Password: "x", DepartmentID: &admDept.ID},
		{FullName: "RAMON VEGA", Username: "rvega", Password: "x", DepartmentID: &admDept.ID},
	}
	require.NoError(t, db.Create(&staff).Error)

	absent := false
	reason := models.ReasonMedicalLeave
	_, err := attendance.UpsertPersonnel(db, models.PersonnelAttendanceInput{
		UserID: staff[0].ID, Date: monday, Present: &absent, ReasonCode: &reason,
	}, 99)
	require.NoError(t, err)

	scope := auth.Scope{
		UserID:           staff[1].ID,
		Roles:            []string{models.RoleCoordinator},
		DepartmentID:     &admDept.ID,
		IsAdministrative: true,
	}
	out, err := DailySummary(db, monday, scope)
	require.NoError(t, err)

	sum, ok := out.(*PersonnelSummary)
	require.True(t, ok, "la coordinación administrativa recibe la forma de solo personal")
	require.Equal(t, 2, sum.StaffTotal)
	require.Equal(t, 1, sum.AbsentToday)
	require.Equal(t, "50.0%", sum.PresentPercentage)
	require.Len(t, sum.Absences, 1)
	require.Equal(t, models.ReasonMedicalLeave, sum.Absences[0].ReasonCode)
}

func TestBlocksForDayOrdering(t *testing.T) {
	db := setupDB(t)
	f := seedMonday(t, db)

	late := models.ClassBlock{
		SectionID: f.section.ID, TeacherID: f.teacher.ID,
		Weekday: "LUNES", StartTime: "10:00", EndTime: "11:00", Description: "DEPORTE",
	}
	early := models.ClassBlock{
		SectionID: f.section.ID, TeacherID: f.teacher.ID,
		Weekday: "LUNES", StartTime: "07:00", EndTime: "08:00", Description: "FORMACION",
	}
	require.NoError(t, db.Create(&late).Error)
	require.NoError(t, db.Create(&early).Error)

	blocks, err := BlocksForDay(db, "LUNES", adminScope())
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	require.Equal(t, "07:00", blocks[0].StartTime)
	require.Equal(t, "08:00", blocks[1].StartTime)
	require.Equal(t, "10:00", blocks[2].StartTime)

	// Un bloque sin asignatura expone su descripción como materia.
	require.Equal(t, "FORMACION", blocks[0].Subject)
}

func TestDailySummaryInvalidDate(t *testing.T) {
	db := setupDB(t)
	_, err := DailySummary(db, "no-es-fecha", adminScope())
	require.Error(t, err)
}
