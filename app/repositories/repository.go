package repositories

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Repository owns the badger database behind the local comment store.
type Repository struct {
	db     *badger.DB
	mutex  sync.RWMutex
	dbPath string
}

// NewRepository opens (or creates) the database at path. An empty path opens
// an in-memory database, used by tests.
func NewRepository(path string) (*Repository, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, dbPath: path}, nil
}

// DB exposes the underlying database.
func (r *Repository) DB() *badger.DB {
	return r.db
}

// Path is where the database lives; empty for in-memory databases.
func (r *Repository) Path() string {
	return r.dbPath
}

// Comments returns the comment store backed by this database.
func (r *Repository) Comments() *BadgerCommentStore {
	return NewBadgerCommentStore(r.db)
}

func (r *Repository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.Close()
}

// Clear drops every stored comment and the id sequence.
func (r *Repository) Clear() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.db.DropAll()
}

// Backup writes a full backup of the database to w.
func (r *Repository) Backup(w io.Writer) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (r *Repository) Restore(rd io.Reader) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.db.Load(rd, 256); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// CountByPost reports how many local comments each post has.
func (r *Repository) CountByPost() (map[int]int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	counts := make(map[int]int)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(CommentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var postID int
			if _, err := fmt.Sscanf(string(it.Item().Key()), CommentKeyPrefix+"%d_comments", &postID); err != nil {
				continue
			}
			comments, err := decodeComments(it.Item())
			if err != nil {
				continue
			}
			if n := len(validComments(comments, postID)); n > 0 {
				counts[postID] = n
			}
		}
		return nil
	})
	return counts, err
}
