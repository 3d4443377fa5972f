package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/repository"

	_ "github.com/lib/pq"
)

func main() {
	dsn := flag.String("dsn", "", "Database URL (defaults to DB_SOURCE from the config)")
	flag.Parse()

	if *dsn == "" {
		cfg, err := config.LoadConfig("configs")
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		*dsn = cfg.DBSource
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	if _, err := db.ExecContext(ctx, repository.Schema); err != nil {
		fmt.Printf("Error applying schema: %v\n", err)
		os.Exit(1)
	}

	for _, table := range []string{"users", "sessions", "locations"} {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			fmt.Printf("Error verifying table %s: %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("Table %s ready (%d rows)\n", table, count)
	}

	fmt.Println("Schema applied")
}
