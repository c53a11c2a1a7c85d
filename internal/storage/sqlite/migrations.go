package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    telegram_id INTEGER NOT NULL UNIQUE,
    username TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    invite_code TEXT NOT NULL UNIQUE,
    creator_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (creator_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS group_members (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    joined_at INTEGER NOT NULL,
    UNIQUE (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS hatms (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    duration_days INTEGER NOT NULL,
    participants_count INTEGER NOT NULL,
    status TEXT NOT NULL,
    started_at INTEGER NOT NULL DEFAULT 0,
    ends_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS juz_assignments (
    id TEXT PRIMARY KEY,
    hatm_id TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    juz_number INTEGER NOT NULL,
    status TEXT NOT NULL,
    completed_at INTEGER NOT NULL DEFAULT 0,
    UNIQUE (hatm_id, juz_number),
    FOREIGN KEY (hatm_id) REFERENCES hatms(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id);
CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_hatms_group_status ON hatms(group_id, status);
CREATE INDEX IF NOT EXISTS idx_juz_hatm_id ON juz_assignments(hatm_id);
CREATE INDEX IF NOT EXISTS idx_juz_user_status ON juz_assignments(user_id, status);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
