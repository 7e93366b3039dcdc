package main

import (
	"log/slog"
	"os"

	"asistencia-escolar/config"
	"asistencia-escolar/internal/events"
	"asistencia-escolar/internal/routes"
	"asistencia-escolar/models"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	config.ConnectDB()
	config.ConnectRedis()

	err := config.DB.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Section{},
		&models.Student{},
		&models.Subject{},
		&models.ClassBlock{},
		&models.AttendanceRecord{},
		&models.AbsenceEntry{},
		&models.PersonnelAttendance{},
	)
	if err != nil {
		slog.Error("Fallo la migración de la base de datos", "error", err)
		os.Exit(1)
	}

	config.SeedDefaults()

	hub := events.NewHub()
	go hub.Run()

	r := gin.Default()
	r.LoadHTMLGlob("templates/*.html")
	r.Static("/static", "./static")

	routes.SetupRoutes(r, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("Servidor iniciado", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("El servidor terminó con error", "error", err)
		os.Exit(1)
	}
}
