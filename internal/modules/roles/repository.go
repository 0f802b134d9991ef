package roles

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles role persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new role repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "roles").Logger(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Create inserts a new role with server-side timestamps
func (r *Repository) Create(role *Role) (*Role, error) {
	ts := now()
	role.CreatedOn = ts
	role.UpdatedOn = ts

	result, err := r.db.Exec(`
		INSERT INTO roles (role_name, created_by, status, permission, created_on, updated_on)
		VALUES (?, ?, ?, ?, ?, ?)`,
		role.RoleName, role.CreatedBy, role.Status, role.Permission,
		role.CreatedOn, role.UpdatedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert role: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	role.ID = id

	r.log.Debug().Int64("id", id).Msg("Role created")
	return role, nil
}

// GetByID returns the role or nil when no row matches
func (r *Repository) GetByID(id int64) (*Role, error) {
	row := r.db.QueryRow(`
		SELECT id, role_name, created_by, status, permission, created_on, updated_on
		FROM roles WHERE id = ?`, id)

	var role Role
	err := row.Scan(&role.ID, &role.RoleName, &role.CreatedBy, &role.Status,
		&role.Permission, &role.CreatedOn, &role.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan role: %w", err)
	}
	return &role, nil
}

// Update replaces the mutable fields and refreshes updated_on.
// Returns nil when the role does not exist.
func (r *Repository) Update(id int64, role *Role) (*Role, error) {
	role.UpdatedOn = now()

	result, err := r.db.Exec(`
		UPDATE roles SET role_name = ?, created_by = ?, status = ?, permission = ?, updated_on = ?
		WHERE id = ?`,
		role.RoleName, role.CreatedBy, role.Status, role.Permission, role.UpdatedOn, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	return r.GetByID(id)
}

// Delete removes the role and returns the deleted record, or nil when absent
func (r *Repository) Delete(id int64) (*Role, error) {
	role, err := r.GetByID(id)
	if err != nil || role == nil {
		return nil, err
	}

	if _, err := r.db.Exec(`DELETE FROM roles WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete role: %w", err)
	}

	r.log.Debug().Int64("id", id).Msg("Role deleted")
	return role, nil
}

// List returns all roles. The role catalogue is small; no pagination.
func (r *Repository) List() ([]Role, error) {
	rows, err := r.db.Query(`
		SELECT id, role_name, created_by, status, permission, created_on, updated_on
		FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	items := []Role{}
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.RoleName, &role.CreatedBy, &role.Status,
			&role.Permission, &role.CreatedOn, &role.UpdatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		items = append(items, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}

	return items, nil
}

// UpdateStatus sets the role status. Returns nil when the role does not exist.
func (r *Repository) UpdateStatus(id int64, status string) (*Role, error) {
	result, err := r.db.Exec(`UPDATE roles SET status = ?, updated_on = ? WHERE id = ?`,
		status, now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update role status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	r.log.Debug().Int64("id", id).Str("status", status).Msg("Role status updated")
	return r.GetByID(id)
}
