package kvdb

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/rlaau/pqsort/bench"
)

type badgerStore struct {
	db   *badger.DB
	keys keyGen
}

func openBadger(dir string, logger *zap.Logger) (*badgerStore, error) {
	opts := badger.DefaultOptions(filepath.Join(dir, badgerDir)).
		WithLogger(zapLogf{s: logger.Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Put(r bench.Result) error {
	val, err := encodeResult(r)
	if err != nil {
		return err
	}
	key := s.keys.next(r.StartedAt)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func (s *badgerStore) List() ([]bench.Result, error) {
	var results []bench.Result
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			r, err := decodeResult(item.Key(), val)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	return results, err
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
