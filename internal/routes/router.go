// Package routes registra la superficie HTTP completa de la aplicación.
package routes

import (
	"asistencia-escolar/internal/events"
	"asistencia-escolar/internal/handlers"
	"asistencia-escolar/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registra todas las rutas sobre el engine dado.
func SetupRoutes(r *gin.Engine, hub *events.Hub) {
	handlers.EventsHub = hub

	registerAuthRoutes(r)

	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/dashboard", handlers.ShowDashboardPage)
		registerAPIRoutes(authorized, hub)
	}
}

func registerAuthRoutes(r *gin.Engine) {
	r.GET("/", handlers.ShowLoginPage)
	r.POST("/login", handlers.LoginHandler)
	r.GET("/logout", middleware.AuthMiddleware(), handlers.LogoutHandler)
}
