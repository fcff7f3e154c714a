package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gigmarket/config"
	"gigmarket/pkg/database"

	"github.com/joho/godotenv"
)

const usage = `
gigmarket - database CLI tool

Usage:
  migrate [command] [flags]

Commands:
  up          Apply all pending migrations
  status      Show database connection and table status

Flags:
  -migrations string   Path to migrations directory (default "migrations")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
`

func main() {
	migrationsDir := flag.String("migrations", "migrations", "Path to migrations directory")
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := config.LoadConfig()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	switch flag.Arg(0) {
	case "up":
		log.Println("running migrations...")
		if err := database.ApplyMigrations(ctx, pool, *migrationsDir); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		log.Println("migrations completed")
	case "status":
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		log.Println("database connection: OK")
		for _, table := range []string{"users", "gigs", "orders", "order_messages", "notifications"} {
			exists, err := database.TableExists(ctx, pool, table)
			if err != nil {
				log.Printf("error checking table %s: %v", table, err)
				continue
			}
			if exists {
				log.Printf("table %-16s exists", table)
			} else {
				log.Printf("table %-16s missing", table)
			}
		}
	default:
		fmt.Printf("Unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
