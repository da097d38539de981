package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("history: session not found")

// Session is one stored conversation.
type Session struct {
	// ID is the session identifier.
	ID string `msgpack:"id"`

	// Title is a short human label, usually the first prompt.
	Title string `msgpack:"title"`

	// Model is the model the session was started with.
	Model string `msgpack:"model"`

	// CreatedAt and UpdatedAt are unix nanoseconds.
	CreatedAt int64 `msgpack:"created_at"`
	UpdatedAt int64 `msgpack:"updated_at"`
}

// Message is one stored conversation turn.
type Message struct {
	// Role is "user" or "model".
	Role string `msgpack:"role"`

	// Text is the turn content.
	Text string `msgpack:"text"`

	// Timestamp is unix nanoseconds. Zero means "now" on append.
	Timestamp int64 `msgpack:"ts"`
}

// Options configures a Store.
type Options struct {
	// Dir is the directory for data files. Required unless InMemory.
	Dir string

	// InMemory runs the store without disk persistence. Used by tests.
	InMemory bool
}

// Store is a local session store.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("history: Options.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(noopLogger{})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func sessionKey(id string) []byte {
	return []byte("sess/" + id)
}

func messageKey(sessionID string, ts int64) []byte {
	// Fixed-width timestamps keep badger's key order chronological.
	return []byte(fmt.Sprintf("msg/%s/%020d", sessionID, ts))
}

func messagePrefix(sessionID string) []byte {
	return []byte("msg/" + sessionID + "/")
}

// Create starts a new session and persists its metadata.
func (s *Store) Create(_ context.Context, title, model string) (*Session, error) {
	now := time.Now().UnixNano()
	sess := &Session{
		ID:        uuid.NewString(),
		Title:     title,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.putSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns a session by ID.
func (s *Store) Get(_ context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &sess)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// List returns all sessions, most recently updated first.
func (s *Store) List(_ context.Context) ([]*Session, error) {
	var sessions []*Session
	prefix := []byte("sess/")
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sess Session
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &sess)
			})
			if err != nil {
				continue
			}
			sessions = append(sessions, &sess)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt > sessions[j].UpdatedAt
	})
	return sessions, nil
}

// Append stores a message and bumps the session's UpdatedAt.
func (s *Store) Append(ctx context.Context, sessionID string, msg Message) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}
	data, err := msgpack.Marshal(msg)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(sessionID, msg.Timestamp), data)
	}); err != nil {
		return err
	}
	sess.UpdatedAt = msg.Timestamp
	return s.putSession(sess)
}

// Messages returns a session's messages in chronological order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	prefix := messagePrefix(sessionID)
	var messages []Message
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var msg Message
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &msg)
			})
			if err != nil {
				continue
			}
			messages = append(messages, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Delete removes a session and all of its messages. Deleting a missing
// session is a no-op.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	prefix := messagePrefix(sessionID)
	return s.db.Update(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(sessionKey(sessionID))
	})
}

func (s *Store) putSession(sess *Session) error {
	data, err := msgpack.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(sess.ID), data)
	})
}

// noopLogger silences badger's internal logging.
type noopLogger struct{}

func (noopLogger) Errorf(string, ...interface{})   {}
func (noopLogger) Warningf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})    {}
func (noopLogger) Debugf(string, ...interface{})   {}
