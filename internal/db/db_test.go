package db

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existsQuery = `SELECT EXISTS(SELECT 1 FROM exam_plans WHERE id = $1)`

func TestExists(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	database := sqlx.NewDb(sqlDB, "sqlmock")
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Exists(context.Background(), database, existsQuery, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists_NoRows(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	database := sqlx.NewDb(sqlDB, "sqlmock")
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)

	ok, err := Exists(context.Background(), database, existsQuery, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExists_Error(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	database := sqlx.NewDb(sqlDB, "sqlmock")
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
		WithArgs(5).
		WillReturnError(sql.ErrConnDone)

	_, err = Exists(context.Background(), database, existsQuery, 5)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
