package mock

import (
	"sync"

	"postboard/app/models"
)

// CommentStore is an in-memory repositories.CommentStore.
type CommentStore struct {
	comments map[int][]*models.Comment
	nextID   int64
	mutex    sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
}

func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[int][]*models.Comment),
		nextID:   1,
	}
}

func (m *CommentStore) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.comments = make(map[int][]*models.Comment)
	m.nextID = 1
}

func (m *CommentStore) Append(postID int, c *models.Comment) error {
	if m.Err != nil {
		return m.Err
	}
	form := models.NewComment{Name: c.Name, Email: c.Email, Body: c.Body}
	if err := form.Validate(); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored := form.ToComment(m.nextID, postID)
	m.nextID++
	m.comments[postID] = append(m.comments[postID], stored)
	*c = *stored
	return nil
}

func (m *CommentStore) Load(postID int) ([]*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]*models.Comment, 0, len(m.comments[postID]))
	for _, c := range m.comments[postID] {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}
