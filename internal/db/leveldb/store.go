// Package leveldb implements db.Store on an embedded goleveldb database, for
// single-node deployments that want a persistent cache without running Redis.
package leveldb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	goleveldb "github.com/syndtr/goleveldb/leveldb"

	"github.com/kailas-cloud/docqa/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// headerSize is the per-value prefix holding the expiry as unix nanoseconds (0 = none).
const headerSize = 8

// Store implements db.Store on goleveldb. TTLs are enforced lazily on read.
type Store struct {
	mu  sync.Mutex // serializes read-modify-write (IncrBy, Expire)
	db  *goleveldb.DB
	now func() time.Time
}

// Open opens or creates a database at path.
func Open(path string) (*Store, error) {
	const op = "db.leveldb.Open"

	ldb, err := goleveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db: ldb, now: time.Now}, nil
}

// Ping reports whether the database is still open.
func (s *Store) Ping(_ context.Context) error {
	if _, err := s.db.GetProperty("leveldb.stats"); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady returns immediately: an opened embedded database is ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	val, _, err := s.read(key)
	return val, err
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.write(db.OpSet, key, value, time.Time{})
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.write(db.OpSet, key, value, s.now().Add(ttl))
}

// Del removes a key. Missing keys are not an error.
func (s *Store) Del(_ context.Context, key string) error {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// IncrBy increments a decimal counter, creating it at zero.
func (s *Store) IncrBy(_ context.Context, key string, val int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, expiry, err := s.read(key)
	var cur int64
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
	case err != nil:
		return err
	default:
		cur, err = strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return &db.Error{Op: db.OpIncrBy, Err: fmt.Errorf("value is not an integer: %w", err)}
		}
	}
	return s.write(db.OpIncrBy, key, []byte(strconv.FormatInt(cur+val, 10)), expiry)
}

// Expire sets TTL on a key. When nx=true, only keys without an expiry are touched.
func (s *Store) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, expiry, err := s.read(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if nx && !expiry.IsZero() {
		return nil
	}
	return s.write(db.OpExpire, key, raw, s.now().Add(ttl))
}

func (s *Store) read(key string) ([]byte, time.Time, error) {
	data, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, goleveldb.ErrNotFound) {
			return nil, time.Time{}, db.ErrKeyNotFound
		}
		return nil, time.Time{}, &db.Error{Op: db.OpGet, Err: err}
	}
	if len(data) < headerSize {
		return nil, time.Time{}, &db.Error{Op: db.OpGet, Err: fmt.Errorf("corrupt value for %q", key)}
	}

	var expiry time.Time
	if ns := int64(binary.BigEndian.Uint64(data[:headerSize])); ns != 0 {
		expiry = time.Unix(0, ns)
		if !s.now().Before(expiry) {
			_ = s.db.Delete([]byte(key), nil)
			return nil, time.Time{}, db.ErrKeyNotFound
		}
	}
	return data[headerSize:], expiry, nil
}

func (s *Store) write(op, key string, value []byte, expiry time.Time) error {
	buf := make([]byte, headerSize+len(value))
	if !expiry.IsZero() {
		binary.BigEndian.PutUint64(buf[:headerSize], uint64(expiry.UnixNano()))
	}
	copy(buf[headerSize:], value)
	if err := s.db.Put([]byte(key), buf, nil); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}
