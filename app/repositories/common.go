package repositories

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// CommentKeyPrefix starts every per-post comment list key.
	CommentKeyPrefix = "post_"

	// LocalCommentSeqKey holds the last local comment id handed out.
	LocalCommentSeqKey = "seq:local_comment"
)

// CommentsKey is the key of postID's local comment list.
func CommentsKey(postID int) []byte {
	return []byte(fmt.Sprintf("%s%d_comments", CommentKeyPrefix, postID))
}

// nextLocalID returns a timestamp-derived id that is strictly greater than
// any id the sequence handed out before.
func nextLocalID(txn *badger.Txn, seqKey string, nowMillis int64) (int64, error) {
	var last int64
	item, err := txn.Get([]byte(seqKey))
	switch {
	case err == badger.ErrKeyNotFound:
	case err != nil:
		return 0, err
	default:
		err = item.Value(func(val []byte) error {
			if len(val) == 8 {
				last = int64(binary.BigEndian.Uint64(val))
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	id := nowMillis
	if id <= last {
		id = last + 1
	}

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	if err := txn.Set([]byte(seqKey), buf[:]); err != nil {
		return 0, err
	}
	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
