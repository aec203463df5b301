package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avashist/upkeep/internal/model"
)

// CreateUser creates a new user. Location may be empty for users that have
// not been assigned to a location yet.
func CreateUser(ctx context.Context, db *sql.DB, govID, name, email, username, passwordHash, role, location string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (gov_id, name, email, username, password_hash, role, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		govID, name, nullable(email), username, passwordHash, role, nullable(location),
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

const userColumns = `id, gov_id, name, email, username, password_hash, role, location, stars, created_at, deleted_at`

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	var email, location sql.NullString
	var stars sql.NullInt64
	err := row.Scan(&u.ID, &u.GovID, &u.Name, &email, &u.Username, &u.PasswordHash,
		&u.Role, &location, &stars, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	u.Location = location.String
	if stars.Valid {
		u.Stars = &stars.Int64
	}
	return u, nil
}

// GetUser returns a user by internal ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByGovID returns an active user by government ID.
func GetUserByGovID(ctx context.Context, db *sql.DB, govID string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE gov_id = ? AND deleted_at IS NULL`, govID,
	))
	if err != nil {
		return nil, fmt.Errorf("getting user by gov id: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username (including soft-deleted for auth checks).
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	))
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// FindInchargeByLocation resolves the incharge responsible for a location.
// Returns nil when no incharge exists there. Multiple incharges at one
// location resolve to the first found; incharge assignment can change at
// any time, so callers must not cache the result.
func FindInchargeByLocation(ctx context.Context, db *sql.DB, location string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE role = ? AND location = ? AND deleted_at IS NULL LIMIT 1`,
		model.RoleIncharge, location,
	))
	if err != nil {
		return nil, fmt.Errorf("finding incharge for location: %w", err)
	}
	return u, nil
}

// ListUsers returns all non-deleted users.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var email, location sql.NullString
		var stars sql.NullInt64
		if err := rows.Scan(&u.ID, &u.GovID, &u.Name, &email, &u.Username, &u.PasswordHash,
			&u.Role, &location, &stars, &u.CreatedAt, &u.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Email = email.String
		u.Location = location.String
		if stars.Valid {
			u.Stars = &stars.Int64
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser updates a user's name, email, role, and location.
func UpdateUser(ctx context.Context, db *sql.DB, govID, name, email, role, location string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, role = ?, location = ?
		 WHERE gov_id = ? AND deleted_at IS NULL`,
		name, nullable(email), role, nullable(location), govID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// UpdateUserStars writes the user's star rating.
func UpdateUserStars(ctx context.Context, db *sql.DB, govID string, stars int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET stars = ? WHERE gov_id = ? AND deleted_at IS NULL`,
		stars, govID,
	)
	if err != nil {
		return fmt.Errorf("updating user stars: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user.
func DeleteUser(ctx context.Context, db *sql.DB, govID string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE gov_id = ? AND deleted_at IS NULL`,
		govID,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// nullable converts an empty string to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
