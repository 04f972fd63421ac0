// Package progress remembers, per level, the rules a player last entered and
// the best solve so far. It is backed by an embedded BadgerDB.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"cellrules/internal/level"
	"cellrules/internal/rewrite"
)

// ErrClosed is returned by every method once Close has been called.
var ErrClosed = errors.New("progress: store closed")

// Config holds configuration for a Store.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM; used by tests.
	InMemory bool
	// SyncWrites flushes each write before returning.
	SyncWrites bool
	// Logger receives badger's internal messages. Nil disables them.
	Logger *slog.Logger
}

// DefaultConfig returns a durable on-disk configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Record is the saved state of one level.
type Record struct {
	Pack      string          `json:"pack"`
	LevelID   int             `json:"level_id"`
	Rules     []level.RuleDoc `json:"rules,omitempty"`
	Solved    bool            `json:"solved"`
	BestSteps int             `json:"best_steps,omitempty"`
	SolvedAt  time.Time       `json:"solved_at,omitzero"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *badger.DB
	closed bool
	now    func() time.Time
}

// Open opens the store described by cfg, creating its directory if needed.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("progress: path is required for a persistent store")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create progress directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open progress database: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.db.Close()
}

// Pack names are escaped so no pack's prefix is a prefix of another's.
func key(pack string, id int) []byte {
	return []byte(fmt.Sprintf("level/%s/%08d", url.PathEscape(pack), id))
}

func prefix(pack string) []byte {
	return []byte(fmt.Sprintf("level/%s/", url.PathEscape(pack)))
}

// Get returns the record for a level. ok is false when nothing was saved.
func (s *Store) Get(pack string, id int) (rec Record, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Record{}, false, ErrClosed
	}
	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, ok, err = get(txn, pack, id)
		return err
	})
	return rec, ok, err
}

func get(txn *badger.Txn, pack string, id int) (Record, bool, error) {
	item, err := txn.Get(key(pack, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{Pack: pack, LevelID: id}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var rec Record
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("decode progress for level %d: %w", id, err)
	}
	return rec, true, nil
}

// update reads, modifies and writes one record in a single transaction.
func (s *Store) update(pack string, id int, fn func(*Record)) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Record{}, ErrClosed
	}
	var rec Record
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		rec, _, err = get(txn, pack, id)
		if err != nil {
			return err
		}
		fn(&rec)
		rec.UpdatedAt = s.now().UTC()
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(key(pack, id), data)
	})
	return rec, err
}

// SaveRules stores the player's current rules for a level.
func (s *Store) SaveRules(pack string, id int, rules []rewrite.Rule) error {
	_, err := s.update(pack, id, func(r *Record) {
		r.Rules = level.EncodeRules(rules)
	})
	return err
}

// LoadRules returns the saved rules for a level, if any.
func (s *Store) LoadRules(pack string, id int) ([]rewrite.Rule, bool, error) {
	rec, ok, err := s.Get(pack, id)
	if err != nil || !ok || len(rec.Rules) == 0 {
		return nil, false, err
	}
	rules, err := level.DecodeRules(rec.Rules)
	if err != nil {
		return nil, false, fmt.Errorf("saved rules for level %d: %w", id, err)
	}
	return rules, true, nil
}

// MarkSolved records a solve in steps generations with the given rules. It
// keeps the fewest-steps solve and reports whether this one is the new best.
func (s *Store) MarkSolved(pack string, id, steps int, rules []rewrite.Rule) (bool, error) {
	best := false
	_, err := s.update(pack, id, func(r *Record) {
		r.Rules = level.EncodeRules(rules)
		if r.Solved && r.BestSteps <= steps {
			return
		}
		best = true
		r.Solved = true
		r.BestSteps = steps
		r.SolvedAt = s.now().UTC()
	})
	return best, err
}

// List returns every saved record of a pack ordered by level id.
func (s *Store) List(pack string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	var recs []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix(pack)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			recs = append(recs, rec)
		}
		return nil
	})
	sort.Slice(recs, func(i, j int) bool { return recs[i].LevelID < recs[j].LevelID })
	return recs, err
}

// Reset deletes everything saved for a pack.
func (s *Store) Reset(pack string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.DropPrefix(prefix(pack))
}
