package database

import (
	"fmt"
	"log"

	"github.com/dgraph-io/badger/v4"
)

// NewBadgerDB opens the embedded Badger store at path. An empty path opens an
// in-memory store, which is what tests and throwaway runs use.
func NewBadgerDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %q: %w", path, err)
	}

	log.Printf("Opened badger store (path=%q, inMemory=%t).", path, path == "")
	return db, nil
}

// CloseBadgerDB closes the Badger store.
func CloseBadgerDB(db *badger.DB) {
	if db != nil {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close badger store: %v", err)
			return
		}
		log.Println("Badger store closed.")
	}
}
