package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/rift-cache/internal/database"
)

const (
	batchSize     = 100
	defaultTotal  = 10000
	columnsPerRow = 6
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":    "profiles.db",
		"SEED_COUNT": strconv.Itoa(defaultTotal),
	}
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN", "SEED_COUNT"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting profile seeder...")
	cfg := loadConfig()

	total, err := strconv.Atoi(cfg["SEED_COUNT"])
	if err != nil || total <= 0 {
		log.Fatalf("SEED_COUNT must be a positive integer, got %q", cfg["SEED_COUNT"])
	}

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], 1)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	log.Info("Preparing to insert dummy profiles...", "total", total, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]any, 0, batchSize*columnsPerRow)

	for i := 0; i < total; i++ {
		riotUpdated := time.Now().Add(-time.Duration(rand.Intn(60)) * time.Minute)
		riotData := fmt.Sprintf(`{"totalPoints":{"current":%d,"level":"SILVER"}}`, rand.Intn(20000))
		masteryData := fmt.Sprintf(`[{"championId":%d,"championPoints":%d}]`, 1+rand.Intn(900), rand.Intn(500000))

		// Every other profile carries a client snapshot.
		var lcuData, lcuUpdated any
		if i%2 == 0 {
			lcuData = fmt.Sprintf(`{"%d":{"currentLevel":"GOLD"}}`, 100000+rand.Intn(900000))
			lcuUpdated = riotUpdated.UnixMilli()
		}

		base := len(valueArgs)
		placeholders := make([]string, columnsPerRow)
		for c := range placeholders {
			placeholders[c] = "$" + strconv.Itoa(base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ", ")+")")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			riotData,
			masteryData,
			riotUpdated.UnixMilli(),
			lcuData,
			lcuUpdated,
		)

		if (i+1)%batchSize == 0 || (i+1) == total {
			stmt := fmt.Sprintf(`
				INSERT INTO users (id, riot_data, mastery_data, last_update_riot, lcu_data, last_update_lcu)
				VALUES %s
				ON CONFLICT (id) DO NOTHING;`, strings.Join(valueStrings, ","))

			if _, err := tx.Exec(stmt, valueArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]any, 0, batchSize*columnsPerRow)
			log.Info("Inserted batch", "completed", i+1, "total", total)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	log.Info("Successfully inserted all dummy profiles.", "duration", time.Since(startTime))
}
