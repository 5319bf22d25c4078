package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/soge-platform/api/migrations"
)

// Usage: migrate [-dir path] [up|down|status|version]
func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", "", "migrations directory on disk; embedded migrations are used when empty")
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose dialect: %v", err)
	}

	source := *dir
	if source == "" {
		goose.SetBaseFS(migrations.FS)
		source = "."
	}

	if err := goose.Run(command, db, source); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}
}
