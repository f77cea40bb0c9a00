package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"wordtrainer/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepo_CreateGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGroupRepo(db)

	mock.ExpectQuery("INSERT INTO groups \\(name\\) VALUES \\(\\$1\\) RETURNING id").
		WithArgs("animals").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	group, err := repo.CreateGroup(context.Background(), "animals")

	require.NoError(t, err)
	assert.Equal(t, domain.Group{ID: 4, Name: "animals"}, *group)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepo_ListGroups(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGroupRepo(db)

	mock.ExpectQuery("SELECT id, name FROM groups ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "animals").AddRow(2, "food"))

	groups, err := repo.ListGroups(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Group{{ID: 1, Name: "animals"}, {ID: 2, Name: "food"}}, groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepo_ListGroups_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGroupRepo(db)

	mock.ExpectQuery("SELECT id, name FROM groups").WillReturnError(fmt.Errorf("query error"))

	groups, err := repo.ListGroups(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Nil(t, groups)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepo_RenameGroup(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		expectedError error
	}{
		{
			name:     "renamed",
			mockRows: sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "new"),
		},
		{
			name:          "no group with old name",
			mockRows:      sqlmock.NewRows([]string{"id", "name"}),
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewGroupRepo(db)

			mock.ExpectQuery("UPDATE groups SET name = \\$2 WHERE id = \\(SELECT id FROM groups WHERE name = \\$1 ORDER BY id LIMIT 1\\)").
				WithArgs("old", "new").
				WillReturnRows(tt.mockRows)

			group, err := repo.RenameGroup(context.Background(), "old", "new")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, group)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.Group{ID: 3, Name: "new"}, *group)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGroupRepo_DeleteGroup(t *testing.T) {
	tests := []struct {
		name          string
		affected      int64
		expectedError error
	}{
		{
			name:     "deleted",
			affected: 1,
		},
		{
			name:          "missing",
			affected:      0,
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewGroupRepo(db)

			mock.ExpectExec("DELETE FROM groups WHERE id = \\$1").
				WithArgs(int64(3)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err = repo.DeleteGroup(context.Background(), 3)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGroupRepo_AddWordToGroup(t *testing.T) {
	tests := []struct {
		name          string
		result        driver.Result
		mockError     error
		expectedError error
	}{
		{
			name:   "added",
			result: sqlmock.NewResult(0, 1),
		},
		{
			name:          "unknown group",
			mockError:     &pq.Error{Code: "23503"},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "unknown word",
			result:        sqlmock.NewResult(0, 0),
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("broken pipe"),
			expectedError: domain.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewGroupRepo(db)

			exp := mock.ExpectExec("UPDATE words SET group_id = \\$1 WHERE id = \\$2").
				WithArgs(int64(2), int64(7))
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err = repo.AddWordToGroup(context.Background(), 2, 7)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGroupRepo_RemoveWordFromGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGroupRepo(db)

	mock.ExpectExec("UPDATE words SET group_id = NULL WHERE id = \\$1").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.RemoveWordFromGroup(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepo_RemoveWordFromGroup_UnknownWord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGroupRepo(db)

	mock.ExpectExec("UPDATE words SET group_id = NULL").
		WithArgs(int64(70)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.RemoveWordFromGroup(context.Background(), 70), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepo_ListWordsByGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewGroupRepo(db)

	rows := sqlmock.NewRows(wordRowColumns).
		AddRow(3, "auto", "car", 2, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM words WHERE group_id = \\$1 ORDER BY id").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	words, err := repo.ListWordsByGroup(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.True(t, words[0].InGroup(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
