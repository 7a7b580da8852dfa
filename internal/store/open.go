package store

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Open picks a backend from the store URL:
//
//	http(s)://host          hosted REST table API (key required)
//	sqlite:path/to/file.db  SQLite through modernc.org/sqlite
//	postgres://...          PostgreSQL through lib/pq
func Open(storeURL, key string) (Client, error) {
	u, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("store: invalid store URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return NewREST(storeURL, key, nil)
	case "sqlite", "file":
		return NewSQL("sqlite", sqlitePath(storeURL))
	case "postgres", "postgresql":
		return NewSQL("postgres", storeURL)
	}
	return nil, fmt.Errorf("store: unsupported store URL scheme %q", u.Scheme)
}

func sqlitePath(storeURL string) string {
	if strings.HasPrefix(storeURL, "file:") {
		return storeURL
	}
	p := strings.TrimPrefix(storeURL, "sqlite:")
	return strings.TrimPrefix(p, "//")
}

// Prepare applies migrationsDir/<driver> when client is a SQL backend. The
// hosted table API is provisioned out of band.
func Prepare(client Client, migrationsDir string) error {
	s, ok := client.(*SQL)
	if !ok {
		return nil
	}
	return s.Migrate(filepath.Join(migrationsDir, s.Driver()))
}
