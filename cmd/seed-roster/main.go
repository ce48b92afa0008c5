package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/rollcall-backend/internal/config"
	"github.com/attendly/rollcall-backend/internal/database"
	"github.com/attendly/rollcall-backend/internal/logger"
	"github.com/attendly/rollcall-backend/internal/model"
	"github.com/attendly/rollcall-backend/internal/repository"
)

// Seeds a demo classroom roster. Safe to rerun: duplicate rolls are skipped.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentRepo := repository.NewStudentRepository(pool)

	names := []string{
		"Asha Verma", "Bilal Khan", "Chloe Martin", "Daniel Okafor", "Elena Petrova",
		"Farhan Ahmed", "Grace Liu", "Hugo Fernandez", "Isla McGregor", "Jonas Weber",
		"Kavya Nair", "Liam O'Brien", "Mei Tanaka", "Noah Johansson", "Olivia Rossi",
		"Priya Sharma", "Quentin Dubois", "Rosa Alvarez", "Samuel Mensah", "Tara Singh",
	}

	fmt.Printf("=== Seeding %d students ===\n", len(names))

	created, skipped := 0, 0
	for i, name := range names {
		student := &model.Student{
			Roll:   fmt.Sprintf("A%d", i+1),
			Name:   name,
			Status: model.StatusAbsent,
		}

		err := studentRepo.Create(ctx, student)
		switch {
		case errors.Is(err, repository.ErrDuplicateRoll):
			skipped++
		case err != nil:
			log.Fatal().Err(err).Str("roll", student.Roll).Msg("Seed failed")
		default:
			created++
		}
	}

	fmt.Printf("\nSeed completed! Created %d, skipped %d existing.\n", created, skipped)
}
