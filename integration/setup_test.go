package integration_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"examprep/internal/auth"
	"examprep/internal/catalog"
	"examprep/internal/db"
	"examprep/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// setupTestDB connects to TEST_DSN, migrates it and empties every table.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DSN not set")
	}

	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database, "../migrations"))
	cleanDatabase(t, database)
	return database
}

func cleanDatabase(t *testing.T, database *sqlx.DB) {
	tables := []string{
		"purchases",
		"wallet_transactions",
		"wallets",
		"test_series_questions",
		"test_series_sections",
		"test_series",
		"notes",
		"exam_plans",
		"users",
	}
	for _, table := range tables {
		_, err := database.Exec(fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err, "Failed to clean table "+table)
	}
}

func createUser(t *testing.T, database *sqlx.DB, email string) (int, string) {
	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)

	var userID int
	err = database.QueryRow(`
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, 'Test Student', $2, 'student')
		RETURNING id
	`, email, hashed).Scan(&userID)
	require.NoError(t, err)

	pair, err := auth.IssueTokens(auth.Identity{UserID: userID, Email: email, Role: auth.RoleStudent}, testSecret)
	require.NoError(t, err)
	return userID, pair.AccessToken
}

func createPlan(t *testing.T, repo catalog.Repository, title string, price int64, validityDays int) *catalog.Item {
	plan, err := repo.CreateItem(context.Background(), &catalog.Item{
		Type:         catalog.ItemExamPlan,
		Title:        title,
		Status:       catalog.StatusActive,
		Price:        price,
		MRP:          price * 2,
		ValidityDays: validityDays,
	})
	require.NoError(t, err)
	return plan
}
