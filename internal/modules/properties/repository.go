package properties

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles property persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new property repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "properties").Logger(),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

const propertyColumns = `id, property_no, location, address, project_name, sub_location,
	rera_no, rera_approved, property, property_type, property_for, property_subtype,
	facility, connectivity, offered_cost, current_cost, documents, usp, media,
	loan_applicable, registered_no, payment_options, size, return_ry, status,
	created_by, created_on, updated_on`

// Create inserts a new property with server-side timestamps
func (r *Repository) Create(p *Property) (*Property, error) {
	ts := now()
	p.CreatedOn = ts
	p.UpdatedOn = ts

	media, err := encodeMedia(p.Media)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Exec(`
		INSERT INTO properties (property_no, location, address, project_name, sub_location,
			rera_no, rera_approved, property, property_type, property_for, property_subtype,
			facility, connectivity, offered_cost, current_cost, documents, usp, media,
			loan_applicable, registered_no, payment_options, size, return_ry, status,
			created_by, created_on, updated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PropertyNo, p.Location, p.Address, p.ProjectName, p.SubLocation,
		p.ReraNo, p.ReraApproved, p.Property, p.PropertyType, p.PropertyFor, p.PropertySubtype,
		p.Facility, p.Connectivity, p.OfferedCost, p.CurrentCost, p.Documents, p.USP, media,
		p.LoanApplicable, p.RegisteredNo, p.PaymentOptions, p.Size, p.ReturnRY, p.Status,
		p.CreatedBy, p.CreatedOn, p.UpdatedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	p.ID = id

	r.log.Debug().Int64("id", id).Str("property_no", p.PropertyNo).Msg("Property created")
	return p, nil
}

// GetByID returns the property or nil when no row matches
func (r *Repository) GetByID(id int64) (*Property, error) {
	row := r.db.QueryRow(`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)

	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// Update replaces the mutable fields (media included) and refreshes
// updated_on. Returns nil when the property does not exist.
func (r *Repository) Update(id int64, p *Property) (*Property, error) {
	p.UpdatedOn = now()

	media, err := encodeMedia(p.Media)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Exec(`
		UPDATE properties SET location = ?, address = ?, project_name = ?, sub_location = ?,
			rera_no = ?, rera_approved = ?, property = ?, property_type = ?, property_for = ?,
			property_subtype = ?, facility = ?, connectivity = ?, offered_cost = ?,
			current_cost = ?, documents = ?, usp = ?, media = ?, loan_applicable = ?,
			registered_no = ?, payment_options = ?, size = ?, return_ry = ?, status = ?,
			created_by = ?, updated_on = ?
		WHERE id = ?`,
		p.Location, p.Address, p.ProjectName, p.SubLocation,
		p.ReraNo, p.ReraApproved, p.Property, p.PropertyType, p.PropertyFor,
		p.PropertySubtype, p.Facility, p.Connectivity, p.OfferedCost,
		p.CurrentCost, p.Documents, p.USP, media, p.LoanApplicable,
		p.RegisteredNo, p.PaymentOptions, p.Size, p.ReturnRY, p.Status,
		p.CreatedBy, p.UpdatedOn, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	return r.GetByID(id)
}

// Delete removes the property and returns the deleted record, or nil when absent
func (r *Repository) Delete(id int64) (*Property, error) {
	p, err := r.GetByID(id)
	if err != nil || p == nil {
		return nil, err
	}

	if _, err := r.db.Exec(`DELETE FROM properties WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete property: %w", err)
	}

	r.log.Debug().Int64("id", id).Msg("Property deleted")
	return p, nil
}

// List returns matching properties. With a free-text search filter present
// pagination is bypassed: all matches return on one page. Otherwise
// standard offset pagination applies.
func (r *Repository) List(filter ListFilter, page, limit int) (*ListResult, error) {
	where, args := buildWhere(filter)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM properties "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties ` + where + ` ORDER BY id`
	if !filter.Search() {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	items := []Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	totalPages := 1
	if !filter.Search() {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return &ListResult{
		Properties:      items,
		TotalPages:      totalPages,
		CurrentPage:     page,
		TotalProperties: total,
	}, nil
}

// UpdateStatus sets the property status. Returns nil when the property
// does not exist.
func (r *Repository) UpdateStatus(id int64, status string) (*Property, error) {
	result, err := r.db.Exec(`UPDATE properties SET status = ?, updated_on = ? WHERE id = ?`,
		status, now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update property status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	r.log.Debug().Int64("id", id).Str("status", status).Msg("Property status updated")
	return r.GetByID(id)
}

// ExpireStalePending flips Pending properties untouched since cutoff to
// Inactive, returning how many rows changed
func (r *Repository) ExpireStalePending(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE properties SET status = ?, updated_on = ?
		WHERE status = ? AND updated_on < ?`,
		StatusInactive, now(), StatusPending, cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending properties: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the total number of properties
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM properties`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

func buildWhere(filter ListFilter) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}

	like := func(column, value string) {
		if value != "" {
			where += " AND " + column + " LIKE '%' || ? || '%' COLLATE NOCASE"
			args = append(args, value)
		}
	}

	like("property_no", filter.PropertyNo)
	like("location", filter.Location)
	like("sub_location", filter.SubLocation)
	like("property_for", filter.PropertyFor)
	like("property_type", filter.PropertyType)
	like("property_subtype", filter.PropertySubtype)

	return where, args
}

func encodeMedia(media []string) (string, error) {
	if media == nil {
		media = []string{}
	}
	raw, err := json.Marshal(media)
	if err != nil {
		return "", fmt.Errorf("failed to encode media list: %w", err)
	}
	return string(raw), nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row scannable) (*Property, error) {
	var p Property
	var media string
	err := row.Scan(&p.ID, &p.PropertyNo, &p.Location, &p.Address, &p.ProjectName,
		&p.SubLocation, &p.ReraNo, &p.ReraApproved, &p.Property, &p.PropertyType,
		&p.PropertyFor, &p.PropertySubtype, &p.Facility, &p.Connectivity,
		&p.OfferedCost, &p.CurrentCost, &p.Documents, &p.USP, &media,
		&p.LoanApplicable, &p.RegisteredNo, &p.PaymentOptions, &p.Size, &p.ReturnRY,
		&p.Status, &p.CreatedBy, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}

	if err := json.Unmarshal([]byte(media), &p.Media); err != nil {
		return nil, fmt.Errorf("failed to decode media list: %w", err)
	}
	return &p, nil
}
