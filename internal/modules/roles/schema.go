package roles

import "database/sql"

const rolesSchema = `
CREATE TABLE IF NOT EXISTS roles (
    id INTEGER PRIMARY KEY,
    role_name TEXT NOT NULL,
    created_by TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    permission TEXT NOT NULL,
    created_on TEXT NOT NULL,
    updated_on TEXT NOT NULL
);
`

// InitSchema ensures the roles table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(rolesSchema)
	return err
}
