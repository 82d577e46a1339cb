package highscore

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("highscores")
	boltKey    = []byte("table")
)

// BoltStore keeps the table as one JSON value inside a bbolt database
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the database at path
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open high score database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create high score bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Load reads the table. A missing key is an empty table.
func (s *BoltStore) Load() (Table, error) {
	table := Table{}
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return nil
		}
		data := bucket.Get(boltKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &table)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load high scores: %w", err)
	}
	return table, nil
}

// Save overwrites the stored table
func (s *BoltStore) Save(table Table) error {
	if table == nil {
		table = Table{}
	}
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal high scores: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(boltKey, data)
	})
}

// Close releases the database file
func (s *BoltStore) Close() error {
	return s.db.Close()
}
