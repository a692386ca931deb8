// Package cache stores finished inspection reports in a local bolt
// database so repeated runs over the same APK skip the pipeline.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/apkscope/apkscope-cli/pkg/models"
)

var reportsBucket = []byte("reports")

// Store is a report cache keyed by the APK's SHA-256 digest.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(reportsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the cached report for the given digest, or nil when the
// digest was never stored.
func (s *Store) Get(sha256 string) (*models.Apk, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(reportsBucket).Get([]byte(sha256)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var apk models.Apk
	if err := json.Unmarshal(raw, &apk); err != nil {
		// A report written by an older build is treated as a miss.
		return nil, nil
	}
	return &apk, nil
}

// Put stores the report under its own SHA-256 digest.
func (s *Store) Put(apk *models.Apk) error {
	raw, err := json.Marshal(apk)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(reportsBucket).Put([]byte(apk.SHA256), raw)
	})
}

// Delete drops the report stored under the given digest.
func (s *Store) Delete(sha256 string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(reportsBucket).Delete([]byte(sha256))
	})
}

// Count returns the number of cached reports.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(reportsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
