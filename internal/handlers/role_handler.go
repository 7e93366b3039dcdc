package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"asistencia-escolar/config"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type roleInput struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	PermissionIDs []uint `json:"permissionIds"`
}

func ListRolesHandler(c *gin.Context) {
	var roles []models.Role
	if err := config.DB.Preload("Permissions").Order("name asc").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": roles})
}

func CreateRoleHandler(c *gin.Context) {
	var input roleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role{Name: input.Name, Description: input.Description}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		return replacePermissions(tx, &role, input.PermissionIDs)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el rol"})
		return
	}
	c.JSON(http.StatusCreated, role)
}

func UpdateRoleHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de rol inválido"})
		return
	}

	var role models.Role
	if err := config.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rol no encontrado"})
		return
	}

	var input roleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role.Name = input.Name
	role.Description = input.Description
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&role).Error; err != nil {
			return err
		}
		return replacePermissions(tx, &role, input.PermissionIDs)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el rol"})
		return
	}

	// Los usuarios con este rol pueden tener el alcance viejo en caché.
	invalidateRoleMembers(role.ID)
	c.JSON(http.StatusOK, role)
}

func DeleteRoleHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de rol inválido"})
		return
	}

	var role models.Role
	if err := config.DB.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rol no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al buscar el rol"})
		return
	}
	if role.Name == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El rol admin no se puede eliminar"})
		return
	}

	invalidateRoleMembers(role.ID)
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el rol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rol eliminado correctamente"})
}

// ListPermissionsHandler devuelve el catálogo completo agrupable por
// categoría en el cliente.
func ListPermissionsHandler(c *gin.Context) {
	var permissions []models.Permission
	if err := config.DB.Order("category asc, name asc").Find(&permissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los permisos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": permissions})
}

func replacePermissions(tx *gorm.DB, role *models.Role, permIDs []uint) error {
	if permIDs == nil {
		return nil
	}
	var perms []models.Permission
	if len(permIDs) > 0 {
		if err := tx.Find(&perms, permIDs).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(role).Association("Permissions").Replace(perms); err != nil {
		return err
	}
	role.Permissions = perms
	return nil
}

// invalidateRoleMembers expira el caché de sesión de todos los usuarios que
// tienen el rol, para que el cambio de permisos aplique de inmediato.
func invalidateRoleMembers(roleID uint) {
	if config.RDB == nil {
		return
	}
	var userIDs []uint
	if err := config.DB.Table("user_roles").Where("role_id = ?", roleID).Pluck("user_id", &userIDs).Error; err != nil {
		return
	}
	for _, id := range userIDs {
		invalidateUserCache(id)
	}
}
