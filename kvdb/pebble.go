package kvdb

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/rlaau/pqsort/bench"
)

type pebbleStore struct {
	db   *pebble.DB
	keys keyGen
}

func openPebble(dir string, logger *zap.Logger) (*pebbleStore, error) {
	db, err := pebble.Open(filepath.Join(dir, pebbleDir), &pebble.Options{
		Logger: zapLogf{s: logger.Sugar()},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open pebble")
	}
	return &pebbleStore{db: db}, nil
}

func (s *pebbleStore) Put(r bench.Result) error {
	val, err := encodeResult(r)
	if err != nil {
		return err
	}
	return s.db.Set(s.keys.next(r.StartedAt), val, pebble.Sync)
}

func (s *pebbleStore) List() ([]bench.Result, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "pebble iterator")
	}
	defer iter.Close()

	var results []bench.Result
	for iter.First(); iter.Valid(); iter.Next() {
		// Value 는 Next 이후 재사용되지만 decode 가 바로 복사함
		r, err := decodeResult(iter.Key(), iter.Value())
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, iter.Error()
}

func (s *pebbleStore) Close() error {
	return s.db.Close()
}
