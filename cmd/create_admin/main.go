// create_admin crea la cuenta de administrador o restablece su password si ya existe.
//
// Uso: go run ./cmd/create_admin -username admin -password 'secreto' [-name "..."] [-email ...]
// Lee la conexión a PostgreSQL de la misma configuración que la API (DB_*, DATABASE_URL).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/application/auth"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Laboratorio-api/pkg/config"
	"github.com/jhoicas/Laboratorio-api/pkg/logger"
)

func main() {
	username := flag.String("username", "admin", "nombre de usuario del administrador")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password (o ADMIN_PASSWORD)")
	fullName := flag.String("name", "Administrador del sistema", "nombre completo")
	email := flag.String("email", "", "correo electrónico")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "create_admin"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	}

	// JWT no se usa aquí; EnsureAdmin solo toca el repositorio de usuarios.
	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{}, ports.SystemClock(cfg.App.Location()))
	created, err := uc.EnsureAdmin(ctx, *username, *password, *fullName, *email)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	if created {
		log.Info().Str("username", *username).Msg("administrador creado")
		return
	}
	log.Info().Str("username", *username).Msg("el administrador ya existía: password restablecido")
}
