package db

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGormDB(t *testing.T) (*GormDB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return &GormDB{DB: gormDB}, mock
}

func TestCountVotes(t *testing.T) {
	gormDB, mock := newMockGormDB(t)
	repo := NewVoteRepo(gormDB)
	recordID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountVotes(recordID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVote(t *testing.T) {
	gormDB, mock := newMockGormDB(t)
	repo := NewVoteRepo(gormDB)
	recordID := uuid.New()
	voteID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "record_id", "user_id", "vote_type"}).
			AddRow(voteID.String(), recordID.String(), 7, "urgent"))

	vote, err := repo.GetVote(recordID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.VoteUrgent, vote.VoteType)
	assert.Equal(t, uint(7), vote.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Retracting with no standing vote must roll the transaction back and
// surface not-found, leaving the cached count untouched.
func TestRetractVoteWithoutVoteRollsBack(t *testing.T) {
	gormDB, mock := newMockGormDB(t)
	repo := NewVoteRepo(gormDB)
	recordID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "records" .+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "vote_count"}).
			AddRow(recordID.String(), "under-investigation", 0))
	mock.ExpectQuery(`SELECT .+ FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.RetractVote(recordID, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHistoryByRecordID(t *testing.T) {
	gormDB, mock := newMockGormDB(t)
	repo := NewStatusHistoryRepo(gormDB)
	recordID := uuid.New()

	newer := time.Now()
	older := newer.Add(-time.Hour)
	mock.ExpectQuery(`SELECT .+ FROM "status_histories" WHERE record_id = .+ ORDER BY changed_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "record_id", "old_status", "new_status", "change_reason", "changed_at"}).
			AddRow(uuid.New().String(), recordID.String(), "under-investigation", "resolved", "fixed", newer).
			AddRow(uuid.New().String(), recordID.String(), nil, "under-investigation", "anonymous report created", older))

	entries, err := repo.GetHistoryByRecordID(recordID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.StatusResolved, entries[0].NewStatus)
	assert.Nil(t, entries[1].OldStatus)
	assert.Equal(t, "System", entries[1].AdminName())
	assert.NoError(t, mock.ExpectationsWereMet())
}
