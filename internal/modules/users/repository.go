package users

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles user persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Create inserts a new user. Timestamps are set server-side.
func (r *Repository) Create(user *User) (*User, error) {
	ts := now()
	user.CreatedOn = ts
	user.UpdatedOn = ts

	result, err := r.db.Exec(`
		INSERT INTO users (name, email, password_hash, primary_phone, secondary_phone,
		                   role, status, created_by, profile_photo, reason, created_on, updated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.PrimaryPhone, user.SecondaryPhone,
		user.Role, user.Status, user.CreatedBy, user.ProfilePhoto, user.Reason,
		user.CreatedOn, user.UpdatedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	user.ID = id

	r.log.Debug().Int64("id", id).Msg("User created")
	return user, nil
}

// GetByID returns the user or nil when no row matches
func (r *Repository) GetByID(id int64) (*User, error) {
	row := r.db.QueryRow(`
		SELECT id, name, email, password_hash, primary_phone, secondary_phone,
		       role, status, created_by, profile_photo, reason, created_on, updated_on
		FROM users WHERE id = ?`, id)
	return r.scan(row)
}

// GetByEmail returns the user or nil when no row matches
func (r *Repository) GetByEmail(email string) (*User, error) {
	row := r.db.QueryRow(`
		SELECT id, name, email, password_hash, primary_phone, secondary_phone,
		       role, status, created_by, profile_photo, reason, created_on, updated_on
		FROM users WHERE email = ?`, email)
	return r.scan(row)
}

// Update replaces the mutable fields and refreshes updated_on.
// Returns nil when the user does not exist.
func (r *Repository) Update(id int64, user *User) (*User, error) {
	user.UpdatedOn = now()

	result, err := r.db.Exec(`
		UPDATE users
		SET name = ?, email = ?, password_hash = ?, primary_phone = ?, secondary_phone = ?,
		    role = ?, status = ?, profile_photo = ?, reason = ?, updated_on = ?
		WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, user.PrimaryPhone, user.SecondaryPhone,
		user.Role, user.Status, user.ProfilePhoto, user.Reason, user.UpdatedOn, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	return r.GetByID(id)
}

// Delete removes the user and returns the deleted record, or nil when absent
func (r *Repository) Delete(id int64) (*User, error) {
	user, err := r.GetByID(id)
	if err != nil || user == nil {
		return nil, err
	}

	if _, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Debug().Int64("id", id).Msg("User deleted")
	return user, nil
}

// List returns a page of users matching the case-insensitive substring filters
func (r *Repository) List(filter ListFilter, page, limit int) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []interface{}
	if filter.Name != "" {
		where += " AND name LIKE '%' || ? || '%' COLLATE NOCASE"
		args = append(args, filter.Name)
	}
	if filter.Email != "" {
		where += " AND email LIKE '%' || ? || '%' COLLATE NOCASE"
		args = append(args, filter.Email)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
		SELECT id, name, email, password_hash, primary_phone, secondary_phone,
		       role, status, created_by, profile_photo, reason, created_on, updated_on
		FROM users ` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	items := []User{}
	for rows.Next() {
		user, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return &ListResult{
		Users:       items,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		TotalUsers:  total,
	}, nil
}

// ToggleStatus flips the status between Active and Inactive.
// Returns nil when the user does not exist.
func (r *Repository) ToggleStatus(id int64) (*User, error) {
	user, err := r.GetByID(id)
	if err != nil || user == nil {
		return nil, err
	}

	newStatus := StatusActive
	if user.Status == StatusActive {
		newStatus = StatusInactive
	}

	_, err = r.db.Exec(`UPDATE users SET status = ?, updated_on = ? WHERE id = ?`,
		newStatus, now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}

	r.log.Debug().Int64("id", id).Str("status", newStatus).Msg("User status toggled")
	return r.GetByID(id)
}

// Count returns the total number of users
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scan(row *sql.Row) (*User, error) {
	user, err := r.scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *Repository) scanRow(row scannable) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PrimaryPhone,
		&u.SecondaryPhone, &u.Role, &u.Status, &u.CreatedBy, &u.ProfilePhoto,
		&u.Reason, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
