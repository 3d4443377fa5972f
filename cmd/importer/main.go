package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/repository"
	"weather-dashboard/internal/service"

	"github.com/jackc/pgx/v5"
)

func main() {
	file := flag.String("file", "", "Path to the CSV file to import (columns: name,lat,lon)")
	username := flag.String("user", "", "Username whose list receives the locations")
	flag.Parse()

	if *file == "" || *username == "" {
		fmt.Println("Error: --file and --user flags are required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	records, err := parseCSV(*file)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	repo := repository.NewRepository(conn)

	user, err := repo.FindUserByUsername(context.Background(), *username)
	if err != nil {
		fmt.Printf("Error looking up user %q: %v\n", *username, err)
		os.Exit(1)
	}

	// All rows or none
	if err := repo.UpsertLocations(context.Background(), user.ID, records); err != nil {
		fmt.Printf("Error importing records: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

// parseCSV reads name,lat,lon rows after a header line. Later rows win over
// earlier rows with the same name.
func parseCSV(filePath string) ([]models.Location, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int)
	var records []models.Location
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		loc := models.Location{
			Name: strings.TrimSpace(record[0]),
			Lat:  strings.TrimSpace(record[1]),
			Lon:  strings.TrimSpace(record[2]),
		}
		if err := service.ValidateLocation(loc); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if i, ok := index[loc.Name]; ok {
			records[i] = loc
			continue
		}
		index[loc.Name] = len(records)
		records = append(records, loc)
	}

	return records, nil
}
