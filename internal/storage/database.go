// Package storage provides database access and repositories
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		createUsersTable,
		createKVStoreTable,
		createNewsTable,
		createNoticesTable,
		createPlacesTable,
		createEventsTable,
		createNotificationsTable,
		createSettingsTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	role TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT 'es',
	is_active INTEGER NOT NULL DEFAULT 1,
	last_active DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`

const createKVStoreTable = `
CREATE TABLE IF NOT EXISTS kv_store (
	store_key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const createNewsTable = `
CREATE TABLE IF NOT EXISTS news (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	cover_image TEXT NOT NULL DEFAULT '',
	publish_date DATETIME NOT NULL,
	status TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	featured INTEGER NOT NULL DEFAULT 0,
	versions TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_news_status ON news(status);
CREATE INDEX IF NOT EXISTS idx_news_publish_date ON news(publish_date);
`

const createNoticesTable = `
CREATE TABLE IF NOT EXISTS notices (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	date DATETIME NOT NULL,
	category TEXT NOT NULL,
	send_push INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notices_date ON notices(date);
`

const createPlacesTable = `
CREATE TABLE IF NOT EXISTS places (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	latitude REAL NOT NULL DEFAULT 0,
	longitude REAL NOT NULL DEFAULT 0,
	occupancy INTEGER NOT NULL DEFAULT 0,
	featured_image TEXT NOT NULL DEFAULT '',
	gallery TEXT NOT NULL DEFAULT '[]',
	features TEXT NOT NULL DEFAULT '[]',
	is_active INTEGER NOT NULL DEFAULT 1,
	activity TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_places_type ON places(type);
`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	category TEXT NOT NULL,
	is_public INTEGER NOT NULL DEFAULT 1,
	status TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date);
`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	internal_link TEXT NOT NULL DEFAULT '',
	target_user TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	scheduled_date DATETIME,
	sent_date DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status, scheduled_date);
`

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
