package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// JwtKey firma los tokens de sesión. Se carga desde JWT_SECRET.
var JwtKey []byte

// SchoolLocation es la zona horaria civil del plantel. Todas las fechas
// calendario del sistema se resuelven en esta zona, nunca en UTC ni en la
// zona local del servidor.
var SchoolLocation *time.Location

// LoadEnv carga el archivo .env (si existe) y valida las variables críticas.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No se encontró archivo .env, usando variables del entorno")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("La variable de entorno JWT_SECRET no está definida")
		os.Exit(1)
	}
	JwtKey = []byte(secret)

	tzName := os.Getenv("SCHOOL_TZ")
	if tzName == "" {
		tzName = "America/Santo_Domingo"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		// Sin base de datos tz instalada caemos al offset fijo del Caribe (AST, sin DST).
		slog.Warn("No se pudo cargar la zona horaria, usando UTC-4 fijo", "tz", tzName, "error", err)
		loc = time.FixedZone("AST", -4*60*60)
	}
	SchoolLocation = loc
}
