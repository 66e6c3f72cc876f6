package main

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/mr-tron/base58"
)

// One-off: fills in missing legacy access tokens for guests imported from
// older exports. Run with `go run scripts/backfill_tokens.go`.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Build connection string
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id FROM guests WHERE token IS NULL OR token = ''`)
	if err != nil {
		log.Fatal("Failed to list guests:", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Fatal("Failed to scan row:", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		log.Fatal("Row iteration failed:", err)
	}

	updated := 0
	for _, id := range ids {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			log.Fatal("Failed to generate token:", err)
		}
		token := base58.Encode(raw)

		if _, err := db.Exec(`UPDATE guests SET token = $1 WHERE id = $2`, token, id); err != nil {
			log.Printf("Failed to update guest %d: %v", id, err)
			continue
		}
		updated++
	}

	log.Printf("Backfilled tokens for %d of %d guests", updated, len(ids))
}
