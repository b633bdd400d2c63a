// FilePath: internal/repository/sqlstore/sqlstore.user.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/tilthub/brewmonitor/internal/crypto"
	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

type UserRepo struct {
	BaseRepo
}

func NewUserRepository(db database.DB) *UserRepo {
	return &UserRepo{BaseRepo: BaseRepo{db: db}}
}

// userRow includes the credential columns that never leave this package.
type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	IsAdmin      bool   `db:"is_admin"`
}

func (r *UserRepo) Create(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.NewValidationError("username and password are required", nil)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	id, err := r.insertID(ctx,
		`INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)`,
		username, hash, isAdmin,
	)
	if err != nil {
		return nil, err
	}

	return &models.User{ID: id, Username: username, IsAdmin: isAdmin}, nil
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("user id is required", nil)
	}

	user := &models.User{}
	query := r.rebind(`SELECT id, username, is_admin FROM users WHERE id = ?`)
	err := r.db.GetDB().GetContext(ctx, user, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("user not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	query := `SELECT id, username, is_admin FROM users ORDER BY id`
	if err := r.db.GetDB().SelectContext(ctx, &users, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list users", err)
	}
	return users, nil
}

// Verify checks a username/password pair against the stored hash and returns
// the account on success.
func (r *UserRepo) Verify(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.NewAuthError("credentials are required", nil)
	}

	row := userRow{}
	query := r.rebind(`SELECT id, username, password_hash, is_admin FROM users WHERE username = ?`)
	err := r.db.GetDB().GetContext(ctx, &row, query, username)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewAuthError("unknown user or wrong password", err)
		}
		return nil, errors.NewDatabaseError("failed to load user", err)
	}

	if err := crypto.CheckPassword(row.PasswordHash, password); err != nil {
		return nil, errors.NewAuthError("unknown user or wrong password", err)
	}

	return &models.User{ID: row.ID, Username: row.Username, IsAdmin: row.IsAdmin}, nil
}

func (r *UserRepo) DeleteTx(ctx context.Context, id int64, tx database.Transaction) error {
	result, err := r.execTx(ctx, tx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("user not found", nil)
	}
	return nil
}
