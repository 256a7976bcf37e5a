// Package kvdb 벤치마크 결과 영속화 (bbolt / BadgerDB / PebbleDB)
package kvdb

import (
	"encoding/binary"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rlaau/pqsort/bench"
)

// Backend 저장소 종류
type Backend string

const (
	BackendBbolt  Backend = "bbolt"
	BackendBadger Backend = "badger"
	BackendPebble Backend = "pebble"
)

// Backends 지원하는 전체 저장소
var Backends = []Backend{BackendBbolt, BackendBadger, BackendPebble}

const (
	bboltDBFile = "bbolt.db"
	badgerDir   = "badger"
	pebbleDir   = "pebble"
	bucketName  = "results"
	keySize     = 16
)

// ErrUnknownBackend 지원하지 않는 저장소 이름
var ErrUnknownBackend = errors.New("kvdb: unknown backend")

// ParseBackend 문자열을 Backend 로 변환
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Backends {
		if b == known {
			return b, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownBackend, "%q", name)
}

// Store 결과 저장소. 키 순서 = 저장 순서.
type Store interface {
	Put(r bench.Result) error
	List() ([]bench.Result, error)
	Close() error
}

// Open dir 아래에 backend 저장소를 열거나 생성
func Open(backend Backend, dir string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("kvdb").With(zap.String("backend", string(backend)))

	switch backend {
	case BackendBbolt:
		return openBbolt(dir)
	case BackendBadger:
		return openBadger(dir, logger)
	case BackendPebble:
		return openPebble(dir, logger)
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
	}
}

// keyGen 시작 시각(나노초) + 프로세스 내 순번, 빅엔디언이라 바이트 순서 = 시간 순서
type keyGen struct {
	seq atomic.Uint64
}

func (g *keyGen) next(startedAt time.Time) []byte {
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	key := make([]byte, keySize)
	binary.BigEndian.PutUint64(key[:8], uint64(startedAt.UnixNano()))
	binary.BigEndian.PutUint64(key[8:], g.seq.Add(1))
	return key
}

func encodeResult(r bench.Result) ([]byte, error) {
	val, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "encode result")
	}
	return val, nil
}

func decodeResult(key, val []byte) (bench.Result, error) {
	var r bench.Result
	if err := json.Unmarshal(val, &r); err != nil {
		return r, errors.Wrapf(err, "decode result %x", key)
	}
	return r, nil
}

// zapLogf badger/pebble 내부 로그를 zap 으로 전달
type zapLogf struct {
	s *zap.SugaredLogger
}

func (l zapLogf) Errorf(format string, args ...interface{})   { l.s.Errorf(format, args...) }
func (l zapLogf) Warningf(format string, args ...interface{}) { l.s.Warnf(format, args...) }
func (l zapLogf) Infof(format string, args ...interface{})    { l.s.Debugf(format, args...) }
func (l zapLogf) Debugf(format string, args ...interface{})   { l.s.Debugf(format, args...) }
func (l zapLogf) Fatalf(format string, args ...interface{})   { l.s.Fatalf(format, args...) }
