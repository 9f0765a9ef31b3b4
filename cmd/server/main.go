package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"cargo-layout-service/internal/adapters/cache"
	"cargo-layout-service/internal/adapters/repositories"
	"cargo-layout-service/internal/api"
	"cargo-layout-service/internal/config"
	"cargo-layout-service/internal/ports"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/crates.json")
	port := config.Get("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stat(seedPath); err == nil {
		if err := repositories.SeedFromJSON(db, seedPath); err != nil {
			log.Fatal(err)
		}
	}

	repo := repositories.NewSqliteCrateRepository(db)

	// The layout cache is optional: without REDIS_ADDR every request is
	// recomputed, which is fine at interactive scale.
	var layoutCache ports.LayoutCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ttl, err := time.ParseDuration(config.Get("LAYOUT_CACHE_TTL", "10m"))
		if err != nil {
			log.Fatalf("invalid LAYOUT_CACHE_TTL: %v", err)
		}

		client := redis.NewClient(&redis.Options{Addr: addr})
		layoutCache = cache.NewRedisLayoutCache(client, ttl)
		log.Printf("Layout cache enabled addr=%s ttl=%s", addr, ttl)
	}

	router := api.NewRouter(repo, layoutCache)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
