package attendance

import (
	"testing"

	"asistencia-escolar/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Una sola conexión: cada conexión de sqlite en memoria es una BD aparte.
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

func seedSection(t *testing.T, db *gorm.DB) fixture {
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

func TestUpsertRecordConverges(t *testing.T) {
	db := setupDB(t)
	f := seedSection(t, db)
	const date = "2025-03-10"

	first := models.AttendanceInput{
		ClassBlockID: f.block.ID,
		Topic:        "Fracciones",
		CountVarones: 2, CountHembras: 1, CountTotal: 3,
		Absences: []models.AbsenceInput{{StudentID: f.alumnos[0].ID, Note: "enfermo"}},
	}
	res1, err := UpsertRecord(db, first, date, f.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, SideEffectApplied, res1.SideEffect)

	second := models.AttendanceInput{
		ClassBlockID: f.block.ID,
		Topic:        "Fracciones (corregido)",
		CountVarones: 1, CountHembras: 1, CountTotal: 2,
		Absences: []models.AbsenceInput{
			{StudentID: f.alumnos[0].ID},
			{StudentID: f.alumnos[1].ID},
		},
	}
	res2, err := UpsertRecord(db, second, date, f.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, res1.Record.ID, res2.Record.ID, "el segundo envío debe converger al mismo registro")

	var count int64
	require.NoError(t, db.Model(&models.AttendanceRecord{}).
		Where("class_block_id = ? AND date = ?", f.block.ID, date).Count(&count).Error)
	require.EqualValues(t, 1, count, "a lo más un registro por (bloque, fecha)")

	saved, err := GetRecord(db, f.block.ID, date)
	require.NoError(t, err)
	require.Equal(t, "Fracciones (corregido)", saved.Topic)
	require.Equal(t, 2, saved.CountTotal)

	// La lista de ausencias se reemplaza completa, nunca se mezcla.
	require.Len(t, saved.Absences, 2)
	for _, a := range saved.Absences {
		require.Equal(t, saved.ID, a.AttendanceRecordID)
	}
}

func TestUpsertRecordAbsenceCountMatchesInput(t *testing.T) {
	db := setupDB(t)
	f := seedSection(t, db)

	in := models.AttendanceInput{
		ClassBlockID: f.block.ID,
		Topic:        "Lectura",
		CountVarones: 1, CountHembras: 1, CountTotal: 2,
		Absences: []models.AbsenceInput{{StudentID: f.alumnos[2].ID, Note: "sin justificar"}},
	}
	res, err := UpsertRecord(db, in, "2025-03-10", f.teacher.ID)
	require.NoError(t, err)

	var entries []models.AbsenceEntry
	require.NoError(t, db.Where("attendance_record_id = ?", res.Record.ID).Find(&entries).Error)
	require.Len(t, entries, len(in.Absences))
	require.Equal(t, f.alumnos[2].ID, entries[0].StudentID)
}

func TestUpsertRecordAutoPresence(t *testing.T) {
	db := setupDB(t)
	f := seedSection(t, db)
	const date = "2025-03-10"

	// Sin registro previo del docente para la fecha.
	var before int64
	db.Model(&models.PersonnelAttendance{}).Where("user_id = ? AND date = ?", f.teacher.ID, date).Count(&before)
	require.Zero(t, before)

	in := models.AttendanceInput{ClassBlockID: f.block.ID, Topic: "Tema", CountTotal: 3}
	res, err := UpsertRecord(db, in, date, f.teacher.ID)
	require.NoError(t, err)
	require.Equal(t, SideEffectApplied, res.SideEffect)

	var rows []models.PersonnelAttendance
	require.NoError(t, db.Where("user_id = ? AND date = ?", f.teacher.ID, date).Find(&rows).Error)
	require.Len(t, rows, 1, "exactamente una fila de personal por (docente, fecha)")
	require.True(t, rows[0].Present)
	require.Nil(t, rows[0].ReasonCode)
	require.Equal(t, AutoPresenceNote, rows[0].Note)
}

func TestUpsertRecordAutoPresenceOverwritesManualAbsence(t *testing.T) {
	db := setupDB(t)
	f := seedSection(t, db)
	const date = "2025-03-10"

	// Un coordinador lo marcó ausente por la mañana.
	absent := false
	reason := models.ReasonUnexcused
	_, err := UpsertPersonnel(db, models.PersonnelAttendanceInput{
		UserID: f.teacher.ID, Date: date, Present: &absent, ReasonCode: &reason,
	}, 99)
	require.NoError(t, err)

	// Luego el docente presenta su reporte de clase: queda presente.
	in := models.AttendanceInput{ClassBlockID: f.block.ID, Topic: "Tema", CountTotal: 3}
	_, err = UpsertRecord(db, in, date, f.teacher.ID)
	require.NoError(t, err)

	var row models.PersonnelAttendance
	require.NoError(t, db.Where("user_id = ? AND date = ?", f.teacher.ID, date).First(&row).Error)
	require.True(t, row.Present)
	require.Nil(t, row.ReasonCode)
}

func TestUpsertRecordBlockNotFound(t *testing.T) {
	db := setupDB(t)
	_, err := UpsertRecord(db, models.AttendanceInput{ClassBlockID: 12345, Topic: "x"}, "2025-03-10", 1)
	require.ErrorIs(t, err, ErrBlockNotFound)
}

func TestUpsertPersonnelPresentForcesNilReason(t *testing.T) {
	db := setupDB(t)
	f := seedSection(t, db)

	present := true
	reason := models.ReasonVacation
	saved, err := UpsertPersonnel(db, models.PersonnelAttendanceInput{
		UserID: f.teacher.ID, Date: "2025-03-10", Present: &present, ReasonCode: &reason,
	}, 99)
	require.NoError(t, err)
	require.True(t, saved.Present)
	require.Nil(t, saved.ReasonCode, "una persona presente no tiene razón de ausencia")
}

func TestClearPersonnel(t *testing.T) {
	db := setupDB(t)
	f := seedSection(t, db)
	const date = "2025-03-10"

	// Limpiar sin registro existente es un no-op benigno.
	require.NoError(t, ClearPersonnel(db, f.teacher.ID, date))

	absent := false
	_, err := UpsertPersonnel(db, models.PersonnelAttendanceInput{UserID: f.teacher.ID, Date: date, Present: &absent}, 99)
	require.NoError(t, err)

	require.NoError(t, ClearPersonnel(db, f.teacher.ID, date))
	var count int64
	db.Model(&models.PersonnelAttendance{}).Where("user_id = ? AND date = ?", f.teacher.ID, date).Count(&count)
	require.Zero(t, count, "tras limpiar, el miembro vuelve al estado pendiente")
}
