package store

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dts-gxu/JobTracker/internal/database"
)

// setupTestDB opens a fresh in-memory SQLite database, one per test, with
// the full schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// low cost keeps the bcrypt-heavy tests fast
const testBcryptCost = 4

func registerTestUser(t *testing.T, users *UserStore, username string) uint {
	t.Helper()
	u, err := users.Register(RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u.ID
}
