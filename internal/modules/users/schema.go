package users

import "database/sql"

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    primary_phone TEXT NOT NULL,
    secondary_phone TEXT NOT NULL,
    role TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Inactive',
    created_by TEXT NOT NULL,
    profile_photo TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    created_on TEXT NOT NULL,
    updated_on TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

// InitSchema ensures the users table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(usersSchema)
	return err
}
