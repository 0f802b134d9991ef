package contacts

import "database/sql"

const contactsSchema = `
CREATE TABLE IF NOT EXISTS contacts (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    preferred_available_time TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'notConnected',
    status_reason TEXT NOT NULL DEFAULT '',
    created_on TEXT NOT NULL,
    updated_on TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone_number);
`

// InitSchema ensures the contacts table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(contactsSchema)
	return err
}
