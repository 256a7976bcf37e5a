package kvdb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"

	"github.com/rlaau/pqsort/bench"
)

type bboltStore struct {
	db   *bbolt.DB
	keys keyGen
}

func openBbolt(dir string) (*bboltStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	db, err := bbolt.Open(filepath.Join(dir, bboltDBFile), 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bbolt")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bbolt bucket")
	}
	return &bboltStore{db: db}, nil
}

func (s *bboltStore) Put(r bench.Result) error {
	val, err := encodeResult(r)
	if err != nil {
		return err
	}
	key := s.keys.next(r.StartedAt)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(key, val)
	})
}

func (s *bboltStore) List() ([]bench.Result, error) {
	var results []bench.Result
	err := s.db.View(func(tx *bbolt.Tx) error {
		// bbolt 는 키 순서대로 순회
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			r, err := decodeResult(k, v)
			if err != nil {
				return err
			}
			results = append(results, r)
			return nil
		})
	})
	return results, err
}

func (s *bboltStore) Close() error {
	return s.db.Close()
}
