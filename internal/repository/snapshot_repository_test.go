package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admission-api/internal/models"
)

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnsureSchema(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS snapshots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotLoadFound(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db)
	payload, err := json.Marshal([]models.Counsellor{{ID: "c1", Name: "Dr. Amit Sharma", IsAvailable: true}})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM snapshots WHERE key = $1")).
		WithArgs("counsellors").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	var counsellors []models.Counsellor
	found, err := repo.Load(context.Background(), "counsellors", &counsellors)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, counsellors, 1)
	assert.Equal(t, "c1", counsellors[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotLoadMissingKey(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM snapshots WHERE key = $1")).
		WithArgs("enquiries").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	var enquiries []models.Enquiry
	found, err := repo.Load(context.Background(), "enquiries", &enquiries)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotLoadCorruptPayload(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM snapshots WHERE key = $1")).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("{not json")))

	var users []models.User
	found, err := repo.Load(context.Background(), "users", &users)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestSnapshotSaveUpserts(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots")).
		WithArgs("counsellors", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), "counsellors", []models.Counsellor{{ID: "c1"}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotSaveSurfacesDBError(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	repo := NewSnapshotRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Save(context.Background(), "enquiries", []models.Enquiry{})
	assert.Error(t, err)
}
