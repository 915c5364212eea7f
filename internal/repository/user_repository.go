package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/godsaeng/godsaeng-backend/internal/model"
	"github.com/godsaeng/godsaeng-backend/internal/utils"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// UserRepo persists accounts in the `users` table.
type UserRepo struct{ db *sql.DB }

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

var _ UserStore = (*UserRepo)(nil)

// isDuplicate reports whether err is a unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// Create inserts a new user and returns its ID. There is no prior existence
// check; the unique key on users.name is the single arbiter of duplication
// and its violation is surfaced as ErrNameExists.
func (r *UserRepo) Create(ctx context.Context, name, password string, cost int) (uint64, error) {
	name = strings.TrimSpace(name)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, password_hash) VALUES (?, ?)",
		name, hash)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrNameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByID fetches a user by primary key.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = "SELECT id, name, password_hash, created_at, updated_at FROM users WHERE id = ?"
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByName fetches a user by its unique name. The lookup is case
// sensitive because the column uses a binary collation.
func (r *UserRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	const q = "SELECT id, name, password_hash, created_at, updated_at FROM users WHERE name = ?"
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, name).
		Scan(&u.ID, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateCredentials replaces name and password hash in a single statement
// so both change together or not at all. A name collision with another
// account surfaces as ErrNameExists via the unique key.
func (r *UserRepo) UpdateCredentials(ctx context.Context, id uint64, name, password string, cost int) (*model.User, error) {
	name = strings.TrimSpace(name)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET name = ?, password_hash = ? WHERE id = ?",
		name, hash, id)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrNameExists
		}
		return nil, err
	}
	// RowsAffected is 0 both when the row is gone and when nothing changed,
	// so the follow-up SELECT decides between the two.
	return r.FindByID(ctx, id)
}

// Delete removes the user row. Owned events are not touched here; the
// account-deletion policy is decided by the caller.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
