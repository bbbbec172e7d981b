package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/accountd/accountd/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, name, username, email, password_hash, role, profile_image, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.ProfileImage, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// mapError translates driver-level errors into the domain taxonomy:
// no rows becomes ErrNotFound, unique violations become ErrConflict.
func mapError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrConflict
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (name, username, email, password_hash, role, profile_image)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + userColumns

	savedUser, err := scanUser(r.db.QueryRow(ctx, query,
		user.Name, user.Username, user.Email, user.PasswordHash, user.Role, user.ProfileImage,
	))
	if err != nil {
		return model.User{}, mapError(err, "create user")
	}

	return savedUser, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return model.User{}, mapError(err, "get user by id")
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return model.User{}, mapError(err, "get user by email")
	}

	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListPage returns one id-ordered page of users and the total count.
// Ordering by ascending id keeps pages stable and non-overlapping.
func (r *UserRepository) ListPage(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users page: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ListPageByUsername behaves like ListPage restricted to users whose
// username contains the given substring.
func (r *UserRepository) ListPageByUsername(ctx context.Context, offset, limit int, username string) ([]model.User, int64, error) {
	pattern := "%" + username + "%"

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE username LIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users by username: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username LIKE $1 ORDER BY id ASC OFFSET $2 LIMIT $3`

	rows, err := r.db.Query(ctx, query, pattern, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users page by username: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, params model.UpdateProfileParams) (model.User, error) {
	query := `UPDATE users
			  SET name = COALESCE($2, name),
			      username = COALESCE($3, username),
			      profile_image = COALESCE($4, profile_image),
			      updated_at = now()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, params.Name, params.Username, params.ProfileImage))
	if err != nil {
		return model.User{}, mapError(err, "update user profile")
	}

	return user, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role model.Role) (model.User, error) {
	query := `UPDATE users SET role = $2, updated_at = now() WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, role))
	if err != nil {
		return model.User{}, mapError(err, "update user role")
	}

	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}
