package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"asistencia-escolar/config"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func toUserResponse(u models.User) models.UserResponse {
	resp := models.UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Username:       u.Username,
		Email:          u.Email,
		IdentityNumber: u.IdentityNumber,
		Position:       u.Position,
		PhotoURL:       u.PhotoURL,
		DepartmentID:   u.DepartmentID,
		IsActive:       u.IsActive == nil || *u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
	if u.Department != nil {
		resp.Department = u.Department.Name
	}
	for _, r := range u.Roles {
		resp.Roles = append(resp.Roles, r.Name)
	}
	return resp
}

// ListUsersHandler devuelve el personal con sus roles, paginado o completo
// con ?all=true.
func ListUsersHandler(c *gin.Context) {
	query := config.DB.Preload("Roles").Preload("Department").Order("full_name asc")

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(username) LIKE ? OR identity_number LIKE ?",
			pattern, pattern, pattern)
	}
	if deptID := c.Query("department_id"); deptID != "" {
		query = query.Where("department_id = ?", deptID)
	}

	var users []models.User
	if c.Query("all") == "true" {
		if err := query.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el personal"})
			return
		}
		responseData := make([]models.UserResponse, 0, len(users))
		for _, u := range users {
			responseData = append(responseData, toUserResponse(u))
		}
		c.JSON(http.StatusOK, gin.H{"data": responseData})
		return
	}

	var totalRows int64
	if err := query.Model(&models.User{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo contar el personal"})
		return
	}
	if err := query.Scopes(Paginate(c)).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el personal"})
		return
	}

	responseData := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responseData = append(responseData, toUserResponse(u))
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, responseData, totalRows))
}

func GetUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	var user models.User
	if err := config.DB.Preload("Roles").Preload("Department").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el usuario"})
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func CreateUserHandler(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña es obligatoria al crear un usuario"})
		return
	}

	var existing models.User
	if err := config.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ya existe un usuario con ese nombre de usuario"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verificando el nombre de usuario"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo procesar la contraseña"})
		return
	}

	user := models.User{
		FullName:       input.FullName,
		Username:       input.Username,
		Email:          input.Email,
		Password:       string(hashed),
		IdentityNumber: input.IdentityNumber,
		Position:       input.Position,
		DepartmentID:   input.DepartmentID,
		IsActive:       input.IsActive,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return replaceRoles(tx, &user, input.RoleIDs)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el usuario: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func UpdateUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Username != user.Username {
		var existing models.User
		if err := config.DB.Where("username = ? AND id != ?", input.Username, user.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Otro usuario ya tiene ese nombre de usuario"})
			return
		}
	}

	user.FullName = input.FullName
	user.Username = input.Username
	user.Email = input.Email
	user.IdentityNumber = input.IdentityNumber
	user.Position = input.Position
	user.DepartmentID = input.DepartmentID
	user.IsActive = input.IsActive
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo procesar la contraseña"})
			return
		}
		user.Password = string(hashed)
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return replaceRoles(tx, &user, input.RoleIDs)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el usuario"})
		return
	}

	invalidateUserCache(user.ID)
	c.JSON(http.StatusOK, toUserResponse(user))
}

func DeleteUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	if err := config.DB.Delete(&models.User{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el usuario"})
		return
	}
	invalidateUserCache(uint(id))
	c.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado correctamente"})
}

// replaceRoles reemplaza la asignación de roles del usuario.
func replaceRoles(tx *gorm.DB, user *models.User, roleIDs []uint) error {
	if roleIDs == nil {
		return nil
	}
	var roles []models.Role
	if len(roleIDs) > 0 {
		if err := tx.Find(&roles, roleIDs).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(user).Association("Roles").Replace(roles); err != nil {
		return err
	}
	user.Roles = roles
	return nil
}

// invalidateUserCache expira el caché de sesión tras cambios de roles o
// permisos, para que el nuevo alcance aplique sin esperar el TTL.
func invalidateUserCache(userID uint) {
	if config.RDB == nil {
		return
	}
	config.RDB.Del(config.Ctx, fmt.Sprintf("user:%d:data", userID))
}
