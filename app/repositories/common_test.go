package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextLocalID(t *testing.T) {
	db := openTestDB(t)

	next := func(now int64) int64 {
		var id int64
		err := db.Update(func(txn *badger.Txn) error {
			var err error
			id, err = nextLocalID(txn, LocalCommentSeqKey, now)
			return err
		})
		require.NoError(t, err)
		return id
	}

	t.Run("first ID is the timestamp", func(t *testing.T) {
		assert.Equal(t, int64(1000), next(1000))
	})

	t.Run("same millisecond still increases", func(t *testing.T) {
		assert.Equal(t, int64(1001), next(1000))
		assert.Equal(t, int64(1002), next(1000))
	})

	t.Run("clock going backwards still increases", func(t *testing.T) {
		assert.Equal(t, int64(1003), next(10))
	})

	t.Run("later timestamp wins", func(t *testing.T) {
		assert.Equal(t, int64(5000), next(5000))
	})

	t.Run("different sequence keys", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := nextLocalID(txn, "seq:other", 7)
			assert.NoError(t, err)
			assert.Equal(t, int64(7), id)
			return nil
		})
		assert.NoError(t, err)
	})
}

func TestCommentsKey(t *testing.T) {
	assert.Equal(t, "post_5_comments", string(CommentsKey(5)))
}

func TestMarshalEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  interface{}
		wantErr bool
	}{
		{name: "list", entity: []int{1, 2}},
		{name: "unsupported", entity: make(chan int), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := marshalEntity(tt.entity)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			var out []int
			assert.NoError(t, unmarshalEntity(data, &out))
			assert.Equal(t, tt.entity, out)
		})
	}
}

func TestUnmarshalEntityInvalid(t *testing.T) {
	var out []int
	assert.Error(t, unmarshalEntity([]byte("not json"), &out))
}
