package repositories

import (
	"log/slog"
	"sync"
	"time"

	"postboard/app/logging"
	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentStore implements CommentStore using BadgerDB. Each post's local
// comments live under one key as a JSON array.
type BadgerCommentStore struct {
	mu     sync.Mutex
	db     *badger.DB
	now    func() time.Time
	logger *slog.Logger
}

// NewBadgerCommentStore creates a new BadgerCommentStore
func NewBadgerCommentStore(db *badger.DB) *BadgerCommentStore {
	return &BadgerCommentStore{db: db, now: time.Now, logger: logging.Logger}
}

// WithClock replaces the clock local ids are derived from.
func (s *BadgerCommentStore) WithClock(now func() time.Time) *BadgerCommentStore {
	s.now = now
	return s
}

// Append validates c, assigns its local id and post id, and appends it to the
// post's list in a single transaction.
func (s *BadgerCommentStore) Append(postID int, c *models.Comment) error {
	form := models.NewComment{Name: c.Name, Email: c.Email, Body: c.Body}
	if err := form.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stored *models.Comment
	err := s.db.Update(func(txn *badger.Txn) error {
		key := CommentsKey(postID)
		existing, err := s.read(txn, postID)
		if err != nil {
			return err
		}

		id, err := nextLocalID(txn, LocalCommentSeqKey, s.now().UnixMilli())
		if err != nil {
			return err
		}
		stored = form.ToComment(id, postID)

		data, err := marshalEntity(append(existing, stored))
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// Load returns the post's local comments, or an empty list when there are none
// or the stored value cannot be decoded.
func (s *BadgerCommentStore) Load(postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		comments, err = s.read(txn, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

// read decodes postID's list. Corrupt values are logged and read as empty,
// and entries that are null or belong to another post are dropped, so the
// next append replaces them.
func (s *BadgerCommentStore) read(txn *badger.Txn, postID int) ([]*models.Comment, error) {
	key := CommentsKey(postID)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	comments, err := decodeComments(item)
	if err != nil {
		s.logger.Warn("discarding corrupt local comments", "key", string(key), "error", err)
		return nil, nil
	}
	valid := validComments(comments, postID)
	if dropped := len(comments) - len(valid); dropped > 0 {
		s.logger.Warn("discarding corrupt local comments", "key", string(key), "dropped", dropped)
	}
	return valid, nil
}

func decodeComments(item *badger.Item) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &comments)
	})
	return comments, err
}

// validComments keeps the non-nil entries stored for postID.
func validComments(comments []*models.Comment, postID int) []*models.Comment {
	valid := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c != nil && c.PostID == postID {
			valid = append(valid, c)
		}
	}
	return valid
}
