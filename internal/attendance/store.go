// Package attendance implementa los almacenes de reportes de asistencia por
// bloque de clase y de asistencia diaria del personal.
package attendance

import (
	"errors"
	"fmt"

	"asistencia-escolar/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Estado del efecto secundario de auto-presencia (§marcado cruzado).
type SideEffectStatus string

const (
	SideEffectApplied SideEffectStatus = "applied"
	SideEffectSkipped SideEffectStatus = "skipped"
	SideEffectFailed  SideEffectStatus = "failed"
)

// UpsertResult reporta por separado la operación principal y el efecto
// secundario de auto-presencia, para que los llamadores y las pruebas
// puedan observar ambos sin adivinar desde los logs.
type UpsertResult struct {
	Record        models.AttendanceRecord
	SideEffect    SideEffectStatus
	SideEffectErr error
}

// ErrBlockNotFound indica que el bloque de clase referido no existe.
var ErrBlockNotFound = errors.New("bloque de clase no encontrado")

// AutoPresenceNote es la nota generada por el sistema al marcar presente a
// un docente que presentó reporte de clase ese día.
const AutoPresenceNote = "Presencia registrada automáticamente por reporte de clase"

// UpsertRecord guarda (o reemplaza) el reporte de asistencia de un bloque en
// una fecha. El upsert va sobre la clave natural (bloque, fecha) dentro de
// una transacción, de modo que dos envíos concurrentes convergen a una sola
// fila; la lista de ausencias se reemplaza completa, nunca se mezcla.
//
// Tras confirmar la transacción se intenta marcar presente al docente del
// bloque (auto-presencia). Ese paso es best-effort: su falla se reporta en
// el resultado y jamás revierte ni falla el guardado principal.
func UpsertRecord(db *gorm.DB, in models.AttendanceInput, date string, recorderID uint) (UpsertResult, error) {
	res := UpsertResult{SideEffect: SideEffectSkipped}

	var block models.ClassBlock
	if err := db.First(&block, in.ClassBlockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, ErrBlockNotFound
		}
		return res, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		rec := models.AttendanceRecord{
			ClassBlockID:  in.ClassBlockID,
			Date:          date,
			Topic:         in.Topic,
			IncidentNotes: in.IncidentNotes,
			CountVarones:  in.CountVarones,
			CountHembras:  in.CountHembras,
			CountTotal:    in.CountTotal,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "class_block_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"topic", "incident_notes", "count_varones", "count_hembras", "count_total", "updated_at",
			}),
		}).Create(&rec).Error
		if err != nil {
			return err
		}

		// Releemos por clave natural: en caso de conflicto algunos drivers
		// no devuelven el id de la fila ya existente.
		var saved models.AttendanceRecord
		if err := tx.Where("class_block_id = ? AND date = ?", in.ClassBlockID, date).First(&saved).Error; err != nil {
			return err
		}

		if err := tx.Where("attendance_record_id = ?", saved.ID).Delete(&models.AbsenceEntry{}).Error; err != nil {
			return err
		}
		if len(in.Absences) > 0 {
			entries := make([]models.AbsenceEntry, 0, len(in.Absences))
			for _, a := range in.Absences {
				entries = append(entries, models.AbsenceEntry{
					AttendanceRecordID: saved.ID,
					StudentID:          a.StudentID,
					Note:               a.Note,
				})
			}
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}

		res.Record = saved
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("no se pudo guardar el reporte de asistencia: %w", err)
	}

	// Auto-presencia del docente del bloque, fuera de la transacción
	// principal: su falla no debe tocar el reporte ya confirmado.
	present := true
	_, sideErr := UpsertPersonnel(db, models.PersonnelAttendanceInput{
		UserID:  block.TeacherID,
		Date:    date,
		Present: &present,
		Note:    AutoPresenceNote,
	}, recorderID)
	if sideErr != nil {
		res.SideEffect = SideEffectFailed
		res.SideEffectErr = sideErr
	} else {
		res.SideEffect = SideEffectApplied
	}
	return res, nil
}

// GetRecord devuelve el reporte de un bloque en una fecha con su lista de
// ausencias, o gorm.ErrRecordNotFound.
func GetRecord(db *gorm.DB, classBlockID uint, date string) (models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := db.Preload("Absences.Student").
		Where("class_block_id = ? AND date = ?", classBlockID, date).
		First(&rec).Error
	return rec, err
}

// UpsertPersonnel registra (o sobreescribe) la asistencia diaria de un
// miembro del personal. Última escritura gana; no se conserva historial.
// Si Present es verdadero, el código de razón se fuerza a nulo: una persona
// presente no tiene razón de ausencia.
func UpsertPersonnel(db *gorm.DB, in models.PersonnelAttendanceInput, recorderID uint) (models.PersonnelAttendance, error) {
	present := in.Present != nil && *in.Present
	reason := in.ReasonCode
	if present {
		reason = nil
	}

	rec := models.PersonnelAttendance{
		UserID:     in.UserID,
		RecorderID: recorderID,
		Date:       in.Date,
		Present:    present,
		ReasonCode: reason,
		Note:       in.Note,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"present", "reason_code", "note", "recorder_id", "updated_at",
		}),
	}).Create(&rec).Error
	if err != nil {
		return rec, fmt.Errorf("no se pudo guardar la asistencia del personal: %w", err)
	}

	var saved models.PersonnelAttendance
	if err := db.Where("user_id = ? AND date = ?", in.UserID, in.Date).First(&saved).Error; err != nil {
		return rec, err
	}
	return saved, nil
}

// ClearPersonnel elimina el registro de un (usuario, fecha) devolviéndolo al
// estado "pendiente". Si no existe registro es un no-op benigno, no un error.
func ClearPersonnel(db *gorm.DB, userID uint, date string) error {
	return db.Where("user_id = ? AND date = ?", userID, date).
		Delete(&models.PersonnelAttendance{}).Error
}
