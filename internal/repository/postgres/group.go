package postgres

import (
	"context"
	"database/sql"

	"wordtrainer/internal/domain"
)

// GroupRepo implements repository.GroupRepository.
// Membership is the nullable words.group_id column, so a word belongs to at most one group.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo creates a new group repository
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup creates an empty group
func (r *GroupRepo) CreateGroup(ctx context.Context, name string) (*domain.Group, error) {
	g := domain.Group{Name: name}
	query := `INSERT INTO groups (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&g.ID); err != nil {
		return nil, domain.NewTransportError("create group", err)
	}
	return &g, nil
}

// ListGroups returns all groups in insertion order
func (r *GroupRepo) ListGroups(ctx context.Context) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM groups ORDER BY id`)
	if err != nil {
		return nil, domain.NewTransportError("list groups", err)
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, domain.NewTransportError("list groups", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewTransportError("list groups", err)
	}
	return groups, nil
}

// RenameGroup renames the group currently called oldName.
// When several groups share the name, the one with the lowest id is renamed.
func (r *GroupRepo) RenameGroup(ctx context.Context, oldName, newName string) (*domain.Group, error) {
	var g domain.Group
	query := `
		UPDATE groups
		SET name = $2
		WHERE id = (SELECT id FROM groups WHERE name = $1 ORDER BY id LIMIT 1)
		RETURNING id, name
	`
	err := r.db.QueryRowContext(ctx, query, oldName, newName).Scan(&g.ID, &g.Name)

	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("group", oldName)
	}
	if err != nil {
		return nil, domain.NewTransportError("rename group", err)
	}
	return &g, nil
}

// DeleteGroup deletes a group; its words stay and lose their group
func (r *GroupRepo) DeleteGroup(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return domain.NewTransportError("delete group", err)
	}
	return requireAffected(res, "delete group", domain.NewNotFoundError("group", id))
}

// AddWordToGroup moves a word into a group. Adding a word to the group it
// is already in changes nothing.
func (r *GroupRepo) AddWordToGroup(ctx context.Context, groupID, wordID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE words SET group_id = $1 WHERE id = $2`, groupID, wordID)
	if isForeignKeyViolation(err) {
		return domain.NewNotFoundError("group", groupID)
	}
	if err != nil {
		return domain.NewTransportError("add word to group", err)
	}
	return requireAffected(res, "add word to group", domain.NewNotFoundError("word", wordID))
}

// RemoveWordFromGroup clears the group of a word, whichever group it was in
func (r *GroupRepo) RemoveWordFromGroup(ctx context.Context, wordID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE words SET group_id = NULL WHERE id = $1`, wordID)
	if err != nil {
		return domain.NewTransportError("remove word from group", err)
	}
	return requireAffected(res, "remove word from group", domain.NewNotFoundError("word", wordID))
}

// ListWordsByGroup returns the words of a group in insertion order
func (r *GroupRepo) ListWordsByGroup(ctx context.Context, groupID int64) ([]domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words WHERE group_id = $1 ORDER BY id`

	words, err := queryWords(ctx, r.db, query, groupID)
	if err != nil {
		return nil, domain.NewTransportError("list group words", err)
	}
	return words, nil
}

func requireAffected(res sql.Result, op string, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.NewTransportError(op, err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
