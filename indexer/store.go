// Package indexer keeps a queryable SQL copy of every event the ledger
// commits. It is a sink on the executor: events reach it only after the call
// that produced them succeeded.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ghostledger/core/events"
)

// ErrPathRequired is returned when Open is given an empty path.
var ErrPathRequired = errors.New("indexer: database path must be configured")

// MaxLimit bounds a single query.
const MaxLimit = 500

// Record is one indexed event.
type Record struct {
	ID         string `gorm:"primaryKey;size:36"`
	Seq        uint64 `gorm:"uniqueIndex"`
	Type       string `gorm:"index;size:96"`
	Module     string `gorm:"index;size:32"`
	Contract   string `gorm:"index;size:42"`
	Height     uint64 `gorm:"index"`
	Time       int64
	Attributes string `gorm:"type:text"`
	CreatedAt  time.Time
}

// Attrs decodes the stored attribute map.
func (r Record) Attrs() (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(r.Attributes) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(r.Attributes), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clock reports the block height and unix time stamped on new records.
type Clock func() (uint64, int64)

// Store is the event index.
type Store struct {
	db     *gorm.DB
	mu     sync.Mutex
	seq    uint64
	clock  Clock
	logger *slog.Logger
}

// Open opens (or creates) the sqlite index at path.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, ErrPathRequired
	}
	return open(trimmed)
}

// OpenMemory opens a private in-memory index.
func OpenMemory() (*Store, error) {
	return open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

func open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("indexer: open database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("indexer: migrate: %w", err)
	}
	s := &Store{db: db, logger: slog.Default(), clock: func() (uint64, int64) { return 0, time.Now().Unix() }}
	var last Record
	res := db.Order("seq desc").Limit(1).Find(&last)
	if res.Error != nil {
		return nil, fmt.Errorf("indexer: load sequence: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.seq = last.Seq
	}
	return s, nil
}

// SetClock installs the height and time source.
func (s *Store) SetClock(c Clock) {
	if c == nil {
		return
	}
	s.mu.Lock()
	s.clock = c
	s.mu.Unlock()
}

// SetLogger replaces the logger used to report write failures.
func (s *Store) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Emit implements events.Emitter. Events without an attribute payload are
// indexed by type only. Write failures are logged, never returned, so the
// index cannot fail a committed call.
func (s *Store) Emit(evt events.Event) {
	if s == nil || evt == nil {
		return
	}
	if err := s.Append(context.Background(), evt); err != nil {
		s.logger.Error("index event", slog.String("type", evt.EventType()), slog.Any("error", err))
	}
}

// Append writes evt as the next record.
func (s *Store) Append(ctx context.Context, evt events.Event) error {
	rec := Record{ID: uuid.NewString(), Type: evt.EventType()}
	if i := strings.IndexByte(rec.Type, '.'); i > 0 {
		rec.Module = rec.Type[:i]
	}
	if payload, ok := evt.(events.Payload); ok && payload.Event() != nil {
		attrs := payload.Event().Attributes
		rec.Contract = attrs["contract"]
		encoded, err := json.Marshal(attrs)
		if err != nil {
			return err
		}
		rec.Attributes = string(encoded)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Height, rec.Time = s.clock()
	rec.Seq = s.seq + 1
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	s.seq = rec.Seq
	return nil
}

// Filter narrows Query. Zero values match everything.
type Filter struct {
	Type     string
	Module   string
	Contract string
	AfterSeq uint64
	Limit    int
}

func (s *Store) scoped(ctx context.Context, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&Record{}).Where("seq > ?", f.AfterSeq)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Module != "" {
		q = q.Where("module = ?", f.Module)
	}
	if f.Contract != "" {
		q = q.Where("contract = ?", f.Contract)
	}
	return q
}

// Query returns matching records in commit order.
func (s *Store) Query(ctx context.Context, f Filter) ([]Record, error) {
	limit := f.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	var out []Record
	if err := s.scoped(ctx, f).Order("seq asc").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Count reports how many records match f, ignoring its limit.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	var n int64
	err := s.scoped(ctx, f).Count(&n).Error
	return n, err
}
