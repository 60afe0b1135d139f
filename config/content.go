package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"gorm.io/gorm"
)

// ErrDatabaseNotFound is returned when a content database is unknown or its
// file does not exist on disk.
var ErrDatabaseNotFound = errors.New("database not found")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to splice into SQL as a database
// or table name. Identifiers cannot be bound as parameters, so everything
// coming from the URL goes through this check first.
func ValidIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

var (
	contentDBs = map[string]*gorm.DB{}
	contentMu  sync.Mutex
)

// ContentDB returns a read-only handle for a named content database.
// Handles are opened lazily and cached for the process lifetime.
func ContentDB(name string) (*gorm.DB, error) {
	if !ValidIdentifier(name) || !isKnownContentDB(name) {
		return nil, ErrDatabaseNotFound
	}

	contentMu.Lock()
	defer contentMu.Unlock()

	if h, ok := contentDBs[name]; ok {
		return h, nil
	}

	path := filepath.Join(Get().DatabaseDir, name+".db")
	if _, err := os.Stat(path); err != nil {
		return nil, ErrDatabaseNotFound
	}

	h, err := OpenSQLite(fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, err
	}
	contentDBs[name] = h
	return h, nil
}

// ContentDatabaseNames lists the configured content databases.
func ContentDatabaseNames() []string {
	return Get().ContentDatabases
}

func isKnownContentDB(name string) bool {
	for _, n := range Get().ContentDatabases {
		if n == name {
			return true
		}
	}
	return false
}
