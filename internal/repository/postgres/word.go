package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wordtrainer/internal/answer"
	"wordtrainer/internal/domain"

	"github.com/lib/pq"
)

// foreignKeyViolation is the postgres error code for a missing referenced row
const foreignKeyViolation = pq.ErrorCode("23503")

const wordColumns = `id, foreign_word, translated_word, group_id, created_at`

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// CreateWord saves a word-translation pair, optionally inside a group
func (r *WordRepo) CreateWord(ctx context.Context, foreignWord, translatedWord string, groupID *int64) (*domain.Word, error) {
	query := `
		INSERT INTO words (foreign_word, translated_word, group_id)
		VALUES ($1, $2, $3)
		RETURNING id, foreign_word, translated_word, group_id, created_at
	`
	w, err := scanWord(r.db.QueryRowContext(ctx, query, foreignWord, translatedWord, nullableID(groupID)))
	if isForeignKeyViolation(err) {
		return nil, domain.NewNotFoundError("group", *groupID)
	}
	if err != nil {
		return nil, domain.NewTransportError("create word", err)
	}
	return w, nil
}

// UpdateWord changes the foreign word and translation of an existing word
func (r *WordRepo) UpdateWord(ctx context.Context, id int64, foreignWord, translatedWord string) (*domain.Word, error) {
	query := `
		UPDATE words
		SET foreign_word = $2, translated_word = $3
		WHERE id = $1
		RETURNING id, foreign_word, translated_word, group_id, created_at
	`
	w, err := scanWord(r.db.QueryRowContext(ctx, query, id, foreignWord, translatedWord))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("word", id)
	}
	if err != nil {
		return nil, domain.NewTransportError("update word", err)
	}
	return w, nil
}

// DeleteWords deletes all given words or none of them
func (r *WordRepo) DeleteWords(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewTransportError("delete words", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM words WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return domain.NewTransportError("delete words", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.NewTransportError("delete words", err)
	}
	if affected != int64(len(ids)) {
		return domain.NewNotFoundError("words", ids)
	}

	if err := tx.Commit(); err != nil {
		return domain.NewTransportError("delete words", err)
	}
	return nil
}

// ListWords returns all words in insertion order
func (r *WordRepo) ListWords(ctx context.Context) ([]domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words ORDER BY id`

	words, err := queryWords(ctx, r.db, query)
	if err != nil {
		return nil, domain.NewTransportError("list words", err)
	}
	return words, nil
}

// FetchWordsByIDs returns the words with the given ids.
// Ids that do not exist are omitted rather than reported.
func (r *WordRepo) FetchWordsByIDs(ctx context.Context, ids []int64) ([]domain.Word, error) {
	if len(ids) == 0 {
		return []domain.Word{}, nil
	}

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = ANY($1) ORDER BY id`

	words, err := queryWords(ctx, r.db, query, pq.Array(ids))
	if err != nil {
		return nil, domain.NewTransportError("fetch words", err)
	}
	return words, nil
}

// CheckAnswer scores a typed answer against the stored translation
func (r *WordRepo) CheckAnswer(ctx context.Context, wordID int64, userAnswer string) (*domain.AnswerResult, error) {
	var foreignWord, translatedWord string
	query := `SELECT foreign_word, translated_word FROM words WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, wordID).Scan(&foreignWord, &translatedWord)

	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("word", wordID)
	}
	if err != nil {
		return nil, domain.NewTransportError("check answer", err)
	}

	return &domain.AnswerResult{
		Correct:            answer.Match(translatedWord, userAnswer),
		ForeignWord:        foreignWord,
		CorrectTranslation: translatedWord,
		UserAnswer:         userAnswer,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var w domain.Word
	var groupID sql.NullInt64
	if err := row.Scan(&w.ID, &w.ForeignWord, &w.TranslatedWord, &groupID, &w.CreatedAt); err != nil {
		return nil, err
	}
	if groupID.Valid {
		id := groupID.Int64
		w.GroupID = &id
	}
	return &w, nil
}

func queryWords(ctx context.Context, db *sql.DB, query string, args ...any) ([]domain.Word, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
