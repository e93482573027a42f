package refund

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketName      = "requests"
	indexBucketName = "request_ids"
)

// BoltDB implements Backend on a local BoltDB file.
// Refunds are keyed by an insertion sequence so listing keeps creation order.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(indexBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// FetchAll returns all refunds in insertion order
func (b *BoltDB) FetchAll(ctx context.Context) ([]Refund, error) {
	refunds := make([]Refund, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var r Refund
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshaling refund: %w", err)
			}
			refunds = append(refunds, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return refunds, nil
}

// Create saves a new refund after the existing ones
func (b *BoltDB) Create(ctx context.Context, r Refund) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		index := tx.Bucket([]byte(indexBucketName))
		if index.Get([]byte(r.ID)) != nil {
			return fmt.Errorf("saving refund %s: %w", r.ID, ErrDuplicateID)
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("allocating sequence: %w", err)
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling refund: %w", err)
		}
		if err := bucket.Put(key, data); err != nil {
			return err
		}
		return index.Put([]byte(r.ID), key)
	})
}

// Delete removes a refund from the database
func (b *BoltDB) Delete(ctx context.Context, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket([]byte(indexBucketName))
		key := index.Get([]byte(id))
		if key == nil {
			return fmt.Errorf("deleting refund %s: %w", id, ErrNotFound)
		}
		key = append([]byte(nil), key...)
		if err := tx.Bucket([]byte(bucketName)).Delete(key); err != nil {
			return err
		}
		return index.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
