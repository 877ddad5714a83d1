package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/repositories"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &DB{DB: sqlDB, logger: zap.NewNop()}, mock
}

func TestOutcomeRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutcomeRepository(db, zap.NewNop())

	outcome := models.NewOperationOutcome("req-1", models.OperationTranslate, models.OutcomeSucceeded).
		WithProvider("libretranslate").
		WithFailures([]map[string]string{{"provider": "libretranslate-argos", "kind": "timeout"}}).
		WithLatency(1500*time.Millisecond, 2)

	mock.ExpectExec("INSERT INTO operation_outcomes").
		WithArgs(
			outcome.ID,
			"req-1",
			"translate",
			"succeeded",
			outcome.Provider,
			2,
			`[{"kind":"timeout","provider":"libretranslate-argos"}]`,
			1500,
			outcome.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), outcome)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutcomeRepository_InsertError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutcomeRepository(db, zap.NewNop())

	outcome := models.NewOperationOutcome("", models.OperationWeather, models.OutcomeRejected)
	outcome.Failures = nil

	mock.ExpectExec("INSERT INTO operation_outcomes").
		WithArgs(sqlmock.AnyArg(), "", "weather", "rejected", sqlmock.AnyArg(), 0, "[]", 0, sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), outcome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert operation outcome")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutcomeRepository_ListRecent(t *testing.T) {
	columns := []string{"id", "request_id", "operation", "status", "provider", "attempts", "failures", "latency_ms", "created_at"}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	t.Run("filters by operation and status", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOutcomeRepository(db, zap.NewNop())

		rows := sqlmock.NewRows(columns).
			AddRow(id.String(), "req-9", "poi", "degraded", nil, 2, `[{"provider":"overpass","kind":"timeout"}]`, 61000, now)

		mock.ExpectQuery(`FROM operation_outcomes WHERE operation = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT \$3`).
			WithArgs("poi", "degraded", 10).
			WillReturnRows(rows)

		got, err := repo.ListRecent(context.Background(), repositories.OutcomeFilter{
			Operation: models.OperationPOI,
			Status:    models.OutcomeDegraded,
			Limit:     10,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)

		o := got[0]
		assert.Equal(t, id, o.ID)
		assert.Equal(t, "req-9", o.RequestID)
		assert.Equal(t, models.OperationPOI, o.Operation)
		assert.Equal(t, models.OutcomeDegraded, o.Status)
		assert.Nil(t, o.Provider)
		assert.Equal(t, 2, o.Attempts)
		assert.Equal(t, 61000, o.LatencyMs)
		assert.Equal(t, now, o.CreatedAt)

		var failures []map[string]string
		require.NoError(t, json.Unmarshal(o.Failures, &failures))
		assert.Equal(t, "overpass", failures[0]["provider"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("default and capped limit without filters", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOutcomeRepository(db, zap.NewNop())

		mock.ExpectQuery(`FROM operation_outcomes ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(defaultOutcomeLimit).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id.String(), "req-1", "geocode", "succeeded", "nominatim", 1, "[]", 120, now))
		mock.ExpectQuery(`FROM operation_outcomes ORDER BY created_at DESC LIMIT \$1`).
			WithArgs(maxOutcomeLimit).
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.ListRecent(context.Background(), repositories.OutcomeFilter{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].Provider)
		assert.Equal(t, "nominatim", *got[0].Provider)

		got, err = repo.ListRecent(context.Background(), repositories.OutcomeFilter{Limit: 10000})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOutcomeRepository(db, zap.NewNop())

		mock.ExpectQuery("FROM operation_outcomes").WillReturnError(errors.New("relation does not exist"))

		_, err := repo.ListRecent(context.Background(), repositories.OutcomeFilter{Operation: models.OperationWeather})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query operation outcomes")
	})
}

func TestDB_InitSchema(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS operation_outcomes").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, db.InitSchema(context.Background()))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS operation_outcomes").WillReturnError(errors.New("permission denied"))
	err := db.InitSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize schema")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_HealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		assert.NoError(t, db.HealthCheck(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ping fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err := db.HealthCheck(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database health check failed")
	})
}
