package student

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/hashicorp/go-hclog"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	keyPrefix   = []byte("student/")
	sequenceKey = []byte("seq/student")
)

// sequenceBandwidth is the number of ids leased from badger at a time.
const sequenceBandwidth = 64

// StoreConfig configures the badger database.
type StoreConfig struct {
	Path     string
	InMemory bool
}

// Store persists students in badger, encoded with msgpack.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger hclog.Logger
}

// OpenStore opens (or creates) the student database.
func OpenStore(cfg StoreConfig, logger hclog.Logger) (*Store, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("badger: path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: logger.Named("badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	seq, err := db.GetSequence(sequenceKey, sequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("badger: open sequence: %w", err)
	}

	logger.Info("student store opened", "path", cfg.Path, "in_memory", cfg.InMemory)
	return &Store{db: db, seq: seq, logger: logger}, nil
}

// NextID leases the next identifier. Identifiers start at 1.
func (s *Store) NextID() (int64, error) {
	for {
		n, err := s.seq.Next()
		if err != nil {
			return 0, fmt.Errorf("next id: %w", err)
		}
		if n > 0 {
			return int64(n), nil
		}
	}
}

// Put writes e under its id.
func (s *Store) Put(_ context.Context, e Entity) error {
	data, err := msgpack.Marshal(&e)
	if err != nil {
		return fmt.Errorf("encode student %d: %w", e.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entityKey(e.ID), data)
	})
}

// Get reads the student with id.
func (s *Store) Get(_ context.Context, id int64) (Entity, error) {
	var e Entity
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entityKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return Entity{}, err
	}
	return e, nil
}

// List returns every student in id order.
func (s *Store) List(ctx context.Context) ([]Entity, error) {
	var out []Entity
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entity
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

// Close releases the sequence and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn("release sequence", "error", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	s.logger.Info("student store closed")
	return nil
}

// entityKey is the prefix followed by the big-endian id, so keys sort by id.
func entityKey(id int64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], uint64(id))
	return key
}

// badgerLogger adapts hclog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger hclog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace(fmt.Sprintf(format, args...))
}
