package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"registration-service/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestConnectSQLiteSuccess(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	assert.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing()

	var openedDriver, openedDSN string
	originalOpenDB := openDB
	openDB = func(driverName, dataSourceName string) (*sql.DB, error) {
		openedDriver = driverName
		openedDSN = dataSourceName
		return mockDB, nil
	}
	defer func() { openDB = originalOpenDB }()

	path := filepath.Join(t.TempDir(), "data", "registration.sqlite3")
	cfg := config.DatabaseConfig{Engine: "sqlite", Path: path}

	database, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, database)
	assert.Equal(t, "sqlite", openedDriver)
	assert.Equal(t, path, openedDSN)

	info, err := os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectSQLiteMkdirError(t *testing.T) {
	originalMkdirAll := mkdirAll
	mkdirAll = func(path string, perm os.FileMode) error {
		return errors.New("permission denied")
	}
	defer func() { mkdirAll = originalMkdirAll }()

	cfg := config.DatabaseConfig{Engine: "sqlite", Path: "data/registration.sqlite3"}
	_, err := Connect(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error creating database directory")
}

func TestConnectPostgresSuccess(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	assert.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing()

	var openedDSN string
	originalOpenDB := openDB
	openDB = func(driverName, dataSourceName string) (*sql.DB, error) {
		openedDSN = dataSourceName
		return mockDB, nil
	}
	defer func() { openDB = originalOpenDB }()

	cfg := config.DatabaseConfig{
		Engine:   "postgres",
		Host:     "localhost",
		Port:     "5432",
		Username: "user",
		Password: "pass",
		Name:     "registration",
		SSLMode:  "disable",
	}

	database, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, database)
	assert.Equal(t, "host=localhost port=5432 user=user password=pass dbname=registration sslmode=disable", openedDSN)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectUnsupportedEngine(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Engine: "mysql"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database engine")
}

func TestConnectOpenError(t *testing.T) {
	originalOpenDB := openDB
	openDB = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("open error")
	}
	defer func() { openDB = originalOpenDB }()

	_, err := Connect(config.DatabaseConfig{Engine: "sqlite", Path: filepath.Join(t.TempDir(), "app.sqlite3")})
	assert.Error(t, err)
}

func TestConnectPingError(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	assert.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing().WillReturnError(errors.New("ping error"))

	originalOpenDB := openDB
	openDB = func(driverName, dataSourceName string) (*sql.DB, error) {
		return mockDB, nil
	}
	defer func() { openDB = originalOpenDB }()

	_, err = Connect(config.DatabaseConfig{Engine: "sqlite", Path: filepath.Join(t.TempDir(), "app.sqlite3")})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	for _, engine := range []string{"sqlite", "postgres"} {
		mockDB, mock, err := sqlmock.New()
		assert.NoError(t, err)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, EnsureSchema(mockDB, engine))
		assert.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	}
}

func TestEnsureSchemaUnsupportedEngine(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	assert.Error(t, EnsureSchema(mockDB, "mysql"))
}

func TestEnsureSchemaExecError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnError(errors.New("locked"))

	err = EnsureSchema(mockDB, "sqlite")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error creating users table")
}
