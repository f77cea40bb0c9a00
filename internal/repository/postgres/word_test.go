package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wordtrainer/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wordRowColumns = []string{"id", "foreign_word", "translated_word", "group_id", "created_at"}

func TestWordRepo_CreateWord(t *testing.T) {
	groupID := int64(5)

	tests := []struct {
		name          string
		groupID       *int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedError error
	}{
		{
			name:     "without group",
			groupID:  nil,
			mockRows: sqlmock.NewRows(wordRowColumns).AddRow(1, "haus|house", "house", nil, time.Now()),
		},
		{
			name:     "with group",
			groupID:  &groupID,
			mockRows: sqlmock.NewRows(wordRowColumns).AddRow(2, "haus|house", "house", groupID, time.Now()),
		},
		{
			name:          "unknown group",
			groupID:       &groupID,
			mockError:     &pq.Error{Code: "23503"},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "database error",
			groupID:       nil,
			mockError:     fmt.Errorf("connection reset"),
			expectedError: domain.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)

			var groupArg any
			if tt.groupID != nil {
				groupArg = *tt.groupID
			}
			exp := mock.ExpectQuery("INSERT INTO words").WithArgs("haus|house", "house", groupArg)
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnRows(tt.mockRows)
			}

			word, err := repo.CreateWord(context.Background(), "haus|house", "house", tt.groupID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, word)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "house", word.TranslatedWord)
				assert.Equal(t, tt.groupID, word.GroupID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_UpdateWord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("UPDATE words SET foreign_word = \\$2, translated_word = \\$3 WHERE id = \\$1").
		WithArgs(int64(1), "baum", "tree").
		WillReturnRows(sqlmock.NewRows(wordRowColumns).AddRow(1, "baum", "tree", nil, time.Now()))

	word, err := repo.UpdateWord(context.Background(), 1, "baum", "tree")

	require.NoError(t, err)
	assert.Equal(t, int64(1), word.ID)
	assert.Equal(t, "tree", word.TranslatedWord)
	assert.Nil(t, word.GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_UpdateWord_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("UPDATE words").
		WithArgs(int64(99), "baum", "tree").
		WillReturnRows(sqlmock.NewRows(wordRowColumns))

	word, err := repo.UpdateWord(context.Background(), 99, "baum", "tree")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, word)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_DeleteWords(t *testing.T) {
	tests := []struct {
		name          string
		ids           []int64
		affected      int64
		expectedError error
	}{
		{
			name:     "all deleted",
			ids:      []int64{1, 2},
			affected: 2,
		},
		{
			name:          "some missing",
			ids:           []int64{1, 2},
			affected:      1,
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)

			mock.ExpectBegin()
			mock.ExpectExec("DELETE FROM words WHERE id = ANY").
				WithArgs(sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			if tt.expectedError != nil {
				mock.ExpectRollback()
			} else {
				mock.ExpectCommit()
			}

			err = repo.DeleteWords(context.Background(), tt.ids)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWordRepo_DeleteWords_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	assert.NoError(t, repo.DeleteWords(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListWords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	rows := sqlmock.NewRows(wordRowColumns).
		AddRow(1, "haus|house", "house", nil, time.Now()).
		AddRow(2, "baum", "tree", 3, time.Now())

	mock.ExpectQuery("SELECT id, foreign_word, translated_word, group_id, created_at FROM words ORDER BY id").
		WillReturnRows(rows)

	words, err := repo.ListWords(context.Background())

	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Nil(t, words[0].GroupID)
	require.NotNil(t, words[1].GroupID)
	assert.Equal(t, int64(3), *words[1].GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_ListWords_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	// Wrong column type to cause scan error
	rows := sqlmock.NewRows(wordRowColumns).
		AddRow("invalid", "haus", "house", nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM words ORDER BY id").WillReturnRows(rows)

	words, err := repo.ListWords(context.Background())

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_FetchWordsByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	// id 3 is missing and simply not returned
	rows := sqlmock.NewRows(wordRowColumns).
		AddRow(1, "haus|house", "house", nil, time.Now()).
		AddRow(2, "baum", "tree", nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM words WHERE id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	words, err := repo.FetchWordsByIDs(context.Background(), []int64{1, 2, 3})

	require.NoError(t, err)
	assert.Len(t, words, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_FetchWordsByIDs_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM words WHERE id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("query error"))

	words, err := repo.FetchWordsByIDs(context.Background(), []int64{1})

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_FetchWordsByIDs_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWordRepo(db)

	words, err := repo.FetchWordsByIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordRepo_CheckAnswer(t *testing.T) {
	tests := []struct {
		name          string
		answer        string
		mockRows      *sqlmock.Rows
		expectedOK    bool
		expectedError error
	}{
		{
			name:       "correct with surrounding space and case",
			answer:     " House ",
			mockRows:   sqlmock.NewRows([]string{"foreign_word", "translated_word"}).AddRow("haus|house", "house"),
			expectedOK: true,
		},
		{
			name:       "incorrect",
			answer:     "home",
			mockRows:   sqlmock.NewRows([]string{"foreign_word", "translated_word"}).AddRow("haus|house", "house"),
			expectedOK: false,
		},
		{
			name:          "unknown word",
			answer:        "house",
			mockRows:      sqlmock.NewRows([]string{"foreign_word", "translated_word"}),
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewWordRepo(db)

			mock.ExpectQuery("SELECT foreign_word, translated_word FROM words WHERE id = \\$1").
				WithArgs(int64(1)).
				WillReturnRows(tt.mockRows)

			result, err := repo.CheckAnswer(context.Background(), 1, tt.answer)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedOK, result.Correct)
				assert.Equal(t, "haus|house", result.ForeignWord)
				assert.Equal(t, "house", result.CorrectTranslation)
				assert.Equal(t, tt.answer, result.UserAnswer)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
