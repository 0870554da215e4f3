// adminctl provisions operator accounts. There is no public signup: admin
// users are created from the command line and granted the admin role here.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crow-lk/dream-builders-hub/internal/config"
	"github.com/crow-lk/dream-builders-hub/internal/crypto"
	"github.com/crow-lk/dream-builders-hub/internal/domain"
	"github.com/crow-lk/dream-builders-hub/internal/logger"
	"github.com/crow-lk/dream-builders-hub/internal/repository/postgres"
)

func main() {
	email := flag.String("email", "", "admin account email")
	password := flag.String("password", "", "admin account password")
	flag.Parse()

	config.Load()
	cfg := config.LoadAPIConfig()
	log := logger.New("adminctl", slog.LevelInfo)

	if *email == "" || *password == "" {
		log.Error("email and password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.New(pool)

	hash, err := crypto.HashPassword(*password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user", "error", err)
		os.Exit(1)
	}
	if err := repo.GrantRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		log.Error("failed to grant admin role", "error", err)
		os.Exit(1)
	}

	log.Info("admin account created", "user_id", user.ID, "email", user.Email)
}
