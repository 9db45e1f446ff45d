package entry

import (
	"database/sql"
)

type implStore struct {
	db *sql.DB
}

// New creates a new Store instance backed by Postgres.
func New(db *sql.DB) Store {
	return &implStore{db: db}
}
