package properties

import "database/sql"

const propertiesSchema = `
CREATE TABLE IF NOT EXISTS properties (
    id INTEGER PRIMARY KEY,
    property_no TEXT UNIQUE NOT NULL,
    location TEXT NOT NULL,
    address TEXT NOT NULL,
    project_name TEXT NOT NULL,
    sub_location TEXT NOT NULL,
    rera_no TEXT NOT NULL,
    rera_approved TEXT NOT NULL,
    property TEXT NOT NULL,
    property_type TEXT NOT NULL,
    property_for TEXT NOT NULL,
    property_subtype TEXT NOT NULL,
    facility TEXT NOT NULL,
    connectivity TEXT NOT NULL,
    offered_cost TEXT NOT NULL,
    current_cost TEXT NOT NULL,
    documents TEXT NOT NULL,
    usp TEXT NOT NULL,
    media TEXT NOT NULL DEFAULT '[]',
    loan_applicable TEXT NOT NULL,
    registered_no TEXT NOT NULL,
    payment_options TEXT NOT NULL,
    size TEXT NOT NULL,
    return_ry TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Pending',
    created_by TEXT NOT NULL,
    created_on TEXT NOT NULL,
    updated_on TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_properties_property_no ON properties(property_no);
CREATE INDEX IF NOT EXISTS idx_properties_location ON properties(location);
CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status);
`

// InitSchema ensures the properties table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(propertiesSchema)
	return err
}
