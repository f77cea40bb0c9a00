package database

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnect_RetriesUntilPingSucceeds(t *testing.T) {
	original := openDB
	defer func() { openDB = original }()

	attempts := 0
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		attempts++
		assert.Equal(t, "postgres", driverName)

		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		if attempts < 3 {
			mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))
		} else {
			mock.ExpectPing()
		}
		return db, nil
	}

	db, err := Connect("dsn", RetryPolicy{MaxRetries: 5}, zap.NewNop())

	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, 3, attempts)
	db.Close()
}

func TestConnect_GivesUp(t *testing.T) {
	original := openDB
	defer func() { openDB = original }()

	attempts := 0
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		attempts++
		return nil, fmt.Errorf("bad dsn")
	}

	db, err := Connect("dsn", RetryPolicy{MaxRetries: 2}, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, attempts)
}
