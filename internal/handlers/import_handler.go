package handlers

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"asistencia-escolar/config"
	"asistencia-escolar/internal/importer"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Las cargas masivas van en dos pasos: la vista previa deja las filas
// preparadas bajo un token y el commit las aplica. El área de preparación
// vive en memoria; una carga no confirmada se descarta al expirar.
const stagingTTL = 30 * time.Minute

type stagedRoster struct {
	SectionID uint
	Rows      []rosterPreviewRow
	ExpiresAt time.Time
}

type stagedPersonnel struct {
	Rows      []personnelPreviewRow
	ExpiresAt time.Time
}

var (
	stagingMu        sync.Mutex
	rosterStaging    = map[string]stagedRoster{}
	personnelStaging = map[string]stagedPersonnel{}
)

func pruneStaging() {
	now := time.Now()
	for k, v := range rosterStaging {
		if now.After(v.ExpiresAt) {
			delete(rosterStaging, k)
		}
	}
	for k, v := range personnelStaging {
		if now.After(v.ExpiresAt) {
			delete(personnelStaging, k)
		}
	}
}

type rosterPreviewRow struct {
	importer.RosterRow
	MatchedStudentID uint   `json:"matchedStudentId,omitempty"`
	MatchedName      string `json:"matchedName,omitempty"`
	Approximate      bool   `json:"approximate,omitempty"`
	Action           string `json:"action"` // "crear" | "actualizar" | "omitir"
}

type personnelPreviewRow struct {
	importer.PersonnelRow
	MatchedUserID uint   `json:"matchedUserId,omitempty"`
	MatchedName   string `json:"matchedName,omitempty"`
	Approximate   bool   `json:"approximate,omitempty"`
	DepartmentID  *uint  `json:"departmentId,omitempty"`
	Action        string `json:"action"`
}

// sheetRows abre el archivo subido y devuelve las filas de la primera hoja.
func sheetRows(c *gin.Context) ([][]string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el archivo a importar"})
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se pudo abrir el archivo"})
		return nil, false
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo no es un .xlsx válido"})
		return nil, false
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo no tiene hojas"})
		return nil, false
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se pudieron leer las filas"})
		return nil, false
	}
	return rows, true
}

// PreviewRosterImportHandler parsea la nómina subida, la empareja contra los
// estudiantes existentes de la sección y devuelve la vista previa con un
// token para confirmar.
func PreviewRosterImportHandler(c *gin.Context) {
	sectionID, err := strconv.ParseUint(c.PostForm("section_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El campo section_id es obligatorio"})
		return
	}
	var section models.Section
	if err := config.DB.First(&section, sectionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sección no encontrada"})
		return
	}

	rows, ok := sheetRows(c)
	if !ok {
		return
	}
	parsed := importer.ParseRosterRows(rows)

	var existing []models.Student
	if err := config.DB.Where("section_id = ?", sectionID).Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo leer la nómina existente"})
		return
	}
	candidates := make([]importer.Candidate, 0, len(existing))
	for _, s := range existing {
		candidates = append(candidates, importer.Candidate{ID: s.ID, Name: s.FullName})
	}

	preview := make([]rosterPreviewRow, 0, len(parsed))
	for _, r := range parsed {
		row := rosterPreviewRow{RosterRow: r, Action: "crear"}
		if r.Problem != "" {
			row.Action = "omitir"
		} else if m, found := importer.MatchName(r.FullName, candidates); found {
			row.MatchedStudentID = m.Candidate.ID
			row.MatchedName = m.Candidate.Name
			row.Approximate = m.Approximate
			row.Action = "actualizar"
		}
		preview = append(preview, row)
	}

	token := uuid.NewString()
	stagingMu.Lock()
	pruneStaging()
	rosterStaging[token] = stagedRoster{
		SectionID: uint(sectionID),
		Rows:      preview,
		ExpiresAt: time.Now().Add(stagingTTL),
	}
	stagingMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"token": token, "section": section.Name, "rows": preview})
}

// CommitRosterImportHandler aplica una carga previamente preparada: crea los
// estudiantes nuevos y actualiza los emparejados, en una sola transacción.
func CommitRosterImportHandler(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stagingMu.Lock()
	staged, ok := rosterStaging[input.Token]
	delete(rosterStaging, input.Token)
	stagingMu.Unlock()
	if !ok || time.Now().After(staged.ExpiresAt) {
		c.JSON(http.StatusNotFound, gin.H{"error": "La carga expiró o ya fue confirmada"})
		return
	}

	var created, updated, skipped int
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range staged.Rows {
			switch row.Action {
			case "omitir":
				skipped++
			case "actualizar":
				err := tx.Model(&models.Student{}).Where("id = ?", row.MatchedStudentID).
					Updates(map[string]any{
						"full_name":       row.FullName,
						"list_number":     row.ListNumber,
						"gender":          row.Gender,
						"identity_number": row.IdentityNumber,
					}).Error
				if err != nil {
					return err
				}
				updated++
			default:
				student := models.Student{
					SectionID:      staged.SectionID,
					FullName:       row.FullName,
					ListNumber:     row.ListNumber,
					Gender:         row.Gender,
					IdentityNumber: row.IdentityNumber,
				}
				if err := tx.Create(&student).Error; err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo aplicar la carga"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "updated": updated, "skipped": skipped})
}

// PreviewPersonnelImportHandler parsea la plantilla de personal, empareja
// cada fila contra los usuarios y coordinaciones existentes y devuelve la
// vista previa con su token.
func PreviewPersonnelImportHandler(c *gin.Context) {
	rows, ok := sheetRows(c)
	if !ok {
		return
	}
	parsed := importer.ParsePersonnelRows(rows)

	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo leer el personal existente"})
		return
	}
	byIdentity := make(map[string]models.User, len(users))
	candidates := make([]importer.Candidate, 0, len(users))
	for _, u := range users {
		if u.IdentityNumber != "" {
			byIdentity[u.IdentityNumber] = u
		}
		candidates = append(candidates, importer.Candidate{ID: u.ID, Name: u.FullName})
	}

	var departments []models.Department
	if err := config.DB.Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron leer las coordinaciones"})
		return
	}
	deptCandidates := make([]importer.Candidate, 0, len(departments))
	for _, d := range departments {
		deptCandidates = append(deptCandidates, importer.Candidate{ID: d.ID, Name: d.Name})
	}

	preview := make([]personnelPreviewRow, 0, len(parsed))
	for _, r := range parsed {
		row := personnelPreviewRow{PersonnelRow: r, Action: "crear"}
		if r.Problem != "" {
			row.Action = "omitir"
		} else {
			// La cédula es identidad fuerte; el nombre, solo respaldo difuso.
			if u, ok := byIdentity[r.IdentityNumber]; ok && r.IdentityNumber != "" {
				row.MatchedUserID = u.ID
				row.MatchedName = u.FullName
				row.Action = "actualizar"
			} else if m, found := importer.MatchName(r.FullName, candidates); found {
				row.MatchedUserID = m.Candidate.ID
				row.MatchedName = m.Candidate.Name
				row.Approximate = m.Approximate
				row.Action = "actualizar"
			}
			if r.DepartmentName != "" {
				if m, found := importer.MatchName(r.DepartmentName, deptCandidates); found {
					id := m.Candidate.ID
					row.DepartmentID = &id
				}
			}
		}
		preview = append(preview, row)
	}

	token := uuid.NewString()
	stagingMu.Lock()
	pruneStaging()
	personnelStaging[token] = stagedPersonnel{Rows: preview, ExpiresAt: time.Now().Add(stagingTTL)}
	stagingMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"token": token, "rows": preview})
}

// CommitPersonnelImportHandler aplica la plantilla de personal preparada.
// Las filas con acceso habilitado reciben usuario con contraseña cifrada y
// el rol docente por omisión.
func CommitPersonnelImportHandler(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stagingMu.Lock()
	staged, ok := personnelStaging[input.Token]
	delete(personnelStaging, input.Token)
	stagingMu.Unlock()
	if !ok || time.Now().After(staged.ExpiresAt) {
		c.JSON(http.StatusNotFound, gin.H{"error": "La carga expiró o ya fue confirmada"})
		return
	}

	var teacherRole models.Role
	hasTeacherRole := config.DB.Where("name = ?", models.RoleTeacher).First(&teacherRole).Error == nil

	var created, updated, skipped int
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range staged.Rows {
			switch row.Action {
			case "omitir":
				skipped++
			case "actualizar":
				updates := map[string]any{
					"full_name":       row.FullName,
					"identity_number": row.IdentityNumber,
					"position":        row.Position,
				}
				if row.DepartmentID != nil {
					updates["department_id"] = *row.DepartmentID
				}
				if err := tx.Model(&models.User{}).Where("id = ?", row.MatchedUserID).Updates(updates).Error; err != nil {
					return err
				}
				updated++
			default:
				user := models.User{
					FullName:       row.FullName,
					IdentityNumber: row.IdentityNumber,
					Position:       row.Position,
					DepartmentID:   row.DepartmentID,
					Username:       row.Username,
				}
				if row.HasAccess {
					hashed, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
					if err != nil {
						return err
					}
					user.Password = string(hashed)
				} else {
					// Sin acceso: identidad de registro solamente, nunca podrá
					// iniciar sesión con este hash imposible.
					inactive := false
					user.IsActive = &inactive
					user.Username = "sin-acceso-" + uuid.NewString()[:8]
					user.Password = "!"
				}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				if row.HasAccess && hasTeacherRole {
					if err := tx.Model(&user).Association("Roles").Append(&teacherRole); err != nil {
						return err
					}
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo aplicar la carga"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "updated": updated, "skipped": skipped})
}
