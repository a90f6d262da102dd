package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// Connect opens a Postgres pool and verifies it with a ping before handing it
// out, so startup fails fast on bad credentials.
func Connect(connString string) (*sql.DB, error) {
	pool, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(); err != nil {
		return nil, err
	}
	return pool, nil
}
