package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"contentkit/internal/domain"
	"contentkit/pkg/prismic"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cachePrefix namespaces API responses so they can be purged without
// touching bookmarks.
const cachePrefix = "cache:"

// gcDiscardRatio is the value-log rewrite threshold recommended by badger.
const gcDiscardRatio = 0.7

// BadgerStore keeps bookmarks and cached API responses in one BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	log logrus.FieldLogger
}

var (
	_ Repository    = (*BadgerStore)(nil)
	_ prismic.Cache = (*BadgerStore)(nil)
)

// NewBadgerStore opens the database at dbPath.
func NewBadgerStore(dbPath string, logger logrus.FieldLogger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.WithField("path", dbPath).Info("BadgerDB opened")

	return &BadgerStore{
		db:  db,
		log: logger.WithField("component", "storage"),
	}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	s.log.Info("Closing BadgerDB...")
	if err := s.db.Close(); err != nil {
		s.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	s.log.Info("BadgerDB closed.")
	return nil
}

// --- Response cache ---

// Get implements prismic.Cache. Expired entries are misses.
func (s *BadgerStore) Get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cachePrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			s.log.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return nil, false
	}
	return value, true
}

// Set implements prismic.Cache. Failures are logged; the cache is best effort.
func (s *BadgerStore) Set(key string, value []byte, ttl time.Duration) {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(cachePrefix+key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// PurgeCache drops every cached response and keeps bookmarks.
func (s *BadgerStore) PurgeCache() error {
	if err := s.db.DropPrefix([]byte(cachePrefix)); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	s.log.Info("Response cache purged")
	return nil
}

// --- Bookmarks ---

// bookmarkKey format: user:{userID}:doc:{documentID}
func bookmarkKey(userID int64, documentID string) []byte {
	return []byte(fmt.Sprintf("user:%d:doc:%s", userID, documentID))
}

// userPrefix format: user:{userID}:doc:
func userPrefix(userID int64) []byte {
	return []byte(fmt.Sprintf("user:%d:doc:", userID))
}

// SaveBookmark implements Repository.
func (s *BadgerStore) SaveBookmark(ctx context.Context, b domain.Bookmark) error {
	log := s.log.WithFields(logrus.Fields{
		"user_id":     b.UserID,
		"document_id": b.DocumentID,
	})

	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now()
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(bookmarkKey(b.UserID, b.DocumentID), raw))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save bookmark")
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	log.Debug("Bookmark saved")
	return nil
}

// BookmarksByUser implements Repository.
func (s *BadgerStore) BookmarksByUser(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	var bookmarks []domain.Bookmark

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := userPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var b domain.Bookmark
				if err := json.Unmarshal(val, &b); err != nil {
					return fmt.Errorf("failed to unmarshal bookmark %s: %w", string(item.Key()), err)
				}
				bookmarks = append(bookmarks, b)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Failed to list bookmarks")
		return nil, fmt.Errorf("failed to get bookmarks for user %d: %w", userID, err)
	}

	sort.Slice(bookmarks, func(i, j int) bool {
		return bookmarks[i].Timestamp.After(bookmarks[j].Timestamp)
	})
	return bookmarks, nil
}

// DeleteBookmark implements Repository.
func (s *BadgerStore) DeleteBookmark(ctx context.Context, userID int64, documentID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(bookmarkKey(userID, documentID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete bookmark %s for user %d: %w", documentID, userID, err)
	}
	return nil
}

// --- Garbage collection ---

// CollectGarbage rewrites value-log files until badger reports nothing
// left to reclaim.
func (s *BadgerStore) CollectGarbage() (int, error) {
	rewrites := 0
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return rewrites, nil
		}
		if err != nil {
			return rewrites, fmt.Errorf("value log gc: %w", err)
		}
		rewrites++
	}
}

// RunGC collects garbage every interval until ctx is cancelled.
func (s *BadgerStore) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := s.CollectGarbage()
			if err != nil {
				s.log.WithError(err).Error("BadgerDB GC failed")
				continue
			}
			s.log.WithField("rewrites", n).Debug("BadgerDB GC completed")
		case <-ctx.Done():
			s.log.Info("Stopping BadgerDB GC routine")
			return
		}
	}
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
