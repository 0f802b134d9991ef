package leads

import "database/sql"

const leadsSchema = `
CREATE TABLE IF NOT EXISTS leads (
    id INTEGER PRIMARY KEY,
    lead_no TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    phone_no TEXT NOT NULL,
    email TEXT NOT NULL,
    message TEXT NOT NULL,
    property_no TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Active',
    created_on TEXT NOT NULL,
    updated_on TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_lead_no ON leads(lead_no);
CREATE INDEX IF NOT EXISTS idx_leads_property_no ON leads(property_no);
`

// InitSchema ensures the leads table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(leadsSchema)
	return err
}
