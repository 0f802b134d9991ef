package leads

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles lead persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new lead repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "leads").Logger(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Create inserts a new lead with server-side timestamps
func (r *Repository) Create(lead *Lead) (*Lead, error) {
	ts := now()
	lead.CreatedOn = ts
	lead.UpdatedOn = ts

	result, err := r.db.Exec(`
		INSERT INTO leads (lead_no, name, phone_no, email, message, property_no, status, created_on, updated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.LeadNo, lead.Name, lead.PhoneNo, lead.Email, lead.Message,
		lead.PropertyNo, lead.Status, lead.CreatedOn, lead.UpdatedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	lead.ID = id

	r.log.Debug().Int64("id", id).Str("lead_no", lead.LeadNo).Msg("Lead created")
	return lead, nil
}

// GetByID returns the lead or nil when no row matches
func (r *Repository) GetByID(id int64) (*Lead, error) {
	row := r.db.QueryRow(`
		SELECT id, lead_no, name, phone_no, email, message, property_no, status, created_on, updated_on
		FROM leads WHERE id = ?`, id)

	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return lead, err
}

// Update replaces contact details and refreshes updated_on.
// Returns nil when the lead does not exist.
func (r *Repository) Update(id int64, lead *Lead) (*Lead, error) {
	lead.UpdatedOn = now()

	result, err := r.db.Exec(`
		UPDATE leads SET name = ?, phone_no = ?, email = ?, message = ?, property_no = ?, updated_on = ?
		WHERE id = ?`,
		lead.Name, lead.PhoneNo, lead.Email, lead.Message, lead.PropertyNo, lead.UpdatedOn, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	return r.GetByID(id)
}

// UpdateStatus sets the lead status. Returns nil when the lead does not exist.
func (r *Repository) UpdateStatus(id int64, status string) (*Lead, error) {
	result, err := r.db.Exec(`UPDATE leads SET status = ?, updated_on = ? WHERE id = ?`,
		status, now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	r.log.Debug().Int64("id", id).Str("status", status).Msg("Lead status updated")
	return r.GetByID(id)
}

// Delete removes the lead and returns the deleted record, or nil when absent
func (r *Repository) Delete(id int64) (*Lead, error) {
	lead, err := r.GetByID(id)
	if err != nil || lead == nil {
		return nil, err
	}

	if _, err := r.db.Exec(`DELETE FROM leads WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete lead: %w", err)
	}

	r.log.Debug().Int64("id", id).Msg("Lead deleted")
	return lead, nil
}

// List returns a page of leads, optionally filtered by exact lead number
func (r *Repository) List(leadNo string, page, limit int) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []interface{}
	if leadNo != "" {
		where += " AND lead_no = ?"
		args = append(args, leadNo)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM leads "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	query := `
		SELECT id, lead_no, name, phone_no, email, message, property_no, status, created_on, updated_on
		FROM leads ` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	items := []Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leads: %w", err)
	}

	return &ListResult{
		Leads:       items,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		TotalLeads:  total,
	}, nil
}

// Count returns the total number of leads
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanLead(row scannable) (*Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.LeadNo, &l.Name, &l.PhoneNo, &l.Email, &l.Message,
		&l.PropertyNo, &l.Status, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan lead: %w", err)
	}
	return &l, nil
}
