package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"asistencia-escolar/config"
	"asistencia-escolar/internal/auth"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// CachedUserData es la estructura única de datos del usuario en el caché.
type CachedUserData struct {
	UserID           uint     `json:"user_id"`
	Username         string   `json:"username"`
	FullName         string   `json:"full_name"`
	Roles            []string `json:"roles"`
	Permissions      []string `json:"permissions"`
	DepartmentID     *uint    `json:"department_id"`
	IsAdministrative bool     `json:"is_administrative"`
}

// AuthMiddleware autentica por token JWT (cookie o encabezado Bearer) y
// arma el alcance de autorización de la solicitud, con caché en Redis.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Token de autorización no provisto")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Formato inválido del encabezado Authorization")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Token inválido o expirado")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Claims de token inválidos")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			handleAuthError(c, "ID de usuario inválido en el token")
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if config.RDB != nil {
			cachedData, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var userData CachedUserData
				if json.Unmarshal([]byte(cachedData), &userData) == nil {
					setContextAndProceed(c, &userData)
					return
				}
				slog.Warn("No se pudo deserializar el caché de usuario", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("Fallo el GET de Redis", "error", err, "user_id", userID)
			}
		}

		var dbUser models.User
		if err := config.DB.Preload("Roles.Permissions").Preload("Department").First(&dbUser, userID).Error; err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "El usuario del token no existe")
			return
		}
		if dbUser.IsActive != nil && !*dbUser.IsActive {
			handleAuthError(c, "Usuario inactivo")
			return
		}

		userData := buildUserData(&dbUser)

		if config.RDB != nil {
			if jsonData, err := json.Marshal(userData); err != nil {
				slog.Error("No se pudo serializar el usuario para el caché", "error", err, "user_id", userID)
			} else if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, 10*time.Minute).Err(); err != nil {
				slog.Error("No se pudo escribir el caché de usuario", "error", err, "user_id", userID)
			}
		}

		setContextAndProceed(c, userData)
	}
}

func buildUserData(u *models.User) *CachedUserData {
	data := &CachedUserData{
		UserID:       u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		DepartmentID: u.DepartmentID,
	}
	if u.Department != nil {
		data.IsAdministrative = u.Department.IsAdministrative
	}

	permSet := map[string]bool{}
	for _, role := range u.Roles {
		data.Roles = append(data.Roles, role.Name)
		for _, p := range role.Permissions {
			if !permSet[p.Name] {
				permSet[p.Name] = true
				data.Permissions = append(data.Permissions, p.Name)
			}
		}
	}
	return data
}

// setContextAndProceed publica tanto las claves sueltas (para plantillas y
// handlers viejos) como el Scope explícito que consume la lógica de negocio.
func setContextAndProceed(c *gin.Context, userData *CachedUserData) {
	c.Set("user_id", userData.UserID)
	c.Set("username", userData.Username)
	c.Set("roles", userData.Roles)
	c.Set("permissions", userData.Permissions)
	c.Set("scope", auth.Scope{
		UserID:           userData.UserID,
		Username:         userData.Username,
		FullName:         userData.FullName,
		Roles:            userData.Roles,
		Permissions:      userData.Permissions,
		DepartmentID:     userData.DepartmentID,
		IsAdministrative: userData.IsAdministrative,
	})
	c.Next()
}

// GetScope recupera el alcance armado por AuthMiddleware.
func GetScope(c *gin.Context) auth.Scope {
	if v, ok := c.Get("scope"); ok {
		if s, ok := v.(auth.Scope); ok {
			return s
		}
	}
	return auth.Scope{}
}

// PermissionMiddleware exige un permiso granular. El rol admin pasa siempre.
func PermissionMiddleware(requiredPermission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := GetScope(c)
		if scope.Can(requiredPermission) {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Permiso denegado"})
		c.Abort()
	}
}

func handleAuthError(c *gin.Context, message string) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, "/")
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	}
	c.Abort()
}
