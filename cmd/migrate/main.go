package main

import (
	"context"
	"database/sql"
	"flag"
	"time"

	_ "github.com/lib/pq"

	"github.com/betcatalog/core/internal/config"
	"github.com/betcatalog/core/pkg/database"
	"github.com/betcatalog/core/pkg/logger"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall migration timeout")
	flag.Parse()

	logger.SetupLogger()
	log := logger.New("migrate")

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	for i, stmt := range database.SchemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("Schema statement %d failed: %v", i+1, err)
		}
	}

	log.Info().
		Int("statements", len(database.SchemaStatements)).
		Msg("Schema applied")
}
