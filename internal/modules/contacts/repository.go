package contacts

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles contact persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new contact repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "contacts").Logger(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Create inserts a new contact with server-side timestamps
func (r *Repository) Create(contact *Contact) (*Contact, error) {
	ts := now()
	contact.CreatedOn = ts
	contact.UpdatedOn = ts

	result, err := r.db.Exec(`
		INSERT INTO contacts (name, email, phone_number, message, preferred_available_time,
		                      status, status_reason, created_on, updated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.Name, contact.Email, contact.PhoneNumber, contact.Message,
		contact.PreferredAvailableTime, contact.Status, contact.StatusReason,
		contact.CreatedOn, contact.UpdatedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	contact.ID = id

	r.log.Debug().Int64("id", id).Msg("Contact created")
	return contact, nil
}

// GetByID returns the contact or nil when no row matches
func (r *Repository) GetByID(id int64) (*Contact, error) {
	row := r.db.QueryRow(`
		SELECT id, name, email, phone_number, message, preferred_available_time,
		       status, status_reason, created_on, updated_on
		FROM contacts WHERE id = ?`, id)

	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return contact, err
}

// Update replaces the mutable fields and refreshes updated_on.
// Returns nil when the contact does not exist.
func (r *Repository) Update(id int64, contact *Contact) (*Contact, error) {
	contact.UpdatedOn = now()

	result, err := r.db.Exec(`
		UPDATE contacts
		SET name = ?, email = ?, phone_number = ?, message = ?, preferred_available_time = ?,
		    status = ?, status_reason = ?, updated_on = ?
		WHERE id = ?`,
		contact.Name, contact.Email, contact.PhoneNumber, contact.Message,
		contact.PreferredAvailableTime, contact.Status, contact.StatusReason,
		contact.UpdatedOn, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	return r.GetByID(id)
}

// Delete removes the contact and returns the deleted record, or nil when absent
func (r *Repository) Delete(id int64) (*Contact, error) {
	contact, err := r.GetByID(id)
	if err != nil || contact == nil {
		return nil, err
	}

	if _, err := r.db.Exec(`DELETE FROM contacts WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}

	r.log.Debug().Int64("id", id).Msg("Contact deleted")
	return contact, nil
}

// List returns a page of contacts, optionally filtered by a case-insensitive
// phone number substring
func (r *Repository) List(phoneNumber string, page, limit int) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []interface{}
	if phoneNumber != "" {
		where += " AND phone_number LIKE '%' || ? || '%' COLLATE NOCASE"
		args = append(args, phoneNumber)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM contacts "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `
		SELECT id, name, email, phone_number, message, preferred_available_time,
		       status, status_reason, created_on, updated_on
		FROM contacts ` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	items := []Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return &ListResult{
		Contacts:      items,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage:   page,
		TotalContacts: total,
	}, nil
}

// UpdateStatus sets the contact status with its reason.
// Returns nil when the contact does not exist.
func (r *Repository) UpdateStatus(id int64, status, statusReason string) (*Contact, error) {
	result, err := r.db.Exec(`
		UPDATE contacts SET status = ?, status_reason = ?, updated_on = ? WHERE id = ?`,
		status, statusReason, now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	r.log.Debug().Int64("id", id).Str("status", status).Msg("Contact status updated")
	return r.GetByID(id)
}

// Count returns the total number of contacts
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanContact(row scannable) (*Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.Message,
		&c.PreferredAvailableTime, &c.Status, &c.StatusReason, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	return &c, nil
}
