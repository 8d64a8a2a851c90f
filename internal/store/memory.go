package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryDoc struct {
	id        string
	data      []byte
	createdAt time.Time
}

// MemoryStore is a DocumentStore held in process memory. Documents are kept
// encoded so callers see the same decoding as with SQLiteStore.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string][]memoryDoc
	writeErr error
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]memoryDoc),
		now:  time.Now,
	}
}

// SetWriteError makes every following write fail with err. Pass nil to clear.
func (s *MemoryStore) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

func memoryKey(userID, collection string) string {
	return userID + "/" + collection
}

func (s *MemoryStore) Add(ctx context.Context, userID, collection string, fields map[string]any) (Document, error) {
	docs, err := s.AddBatch(ctx, userID, collection, []map[string]any{fields})
	if err != nil {
		return Document{}, err
	}
	return docs[0], nil
}

func (s *MemoryStore) AddBatch(ctx context.Context, userID, collection string, batch []map[string]any) ([]Document, error) {
	if err := validateKey(userID, collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded := make([][]byte, len(batch))
	for i, fields := range batch {
		data, err := encodeFields(fields)
		if err != nil {
			return nil, err
		}
		encoded[i] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return nil, fmt.Errorf("write %s: %w", collection, s.writeErr)
	}

	now := s.now()
	key := memoryKey(userID, collection)
	out := make([]Document, 0, len(batch))
	for _, data := range encoded {
		doc := memoryDoc{id: NewID(), data: data, createdAt: now}
		s.docs[key] = append(s.docs[key], doc)

		fields, err := decodeFields(data)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: doc.id, Fields: fields, CreatedAt: now})
	}
	return out, nil
}

func (s *MemoryStore) List(ctx context.Context, userID, collection string) ([]Document, error) {
	if err := validateKey(userID, collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	stored := append([]memoryDoc(nil), s.docs[memoryKey(userID, collection)]...)
	s.mu.Unlock()

	// newest first; insertion order breaks ties
	out := make([]Document, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		fields, err := decodeFields(stored[i].data)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: stored[i].id, Fields: fields, CreatedAt: stored[i].createdAt})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, collection, id string) error {
	if err := validateKey(userID, collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return fmt.Errorf("delete from %s: %w", collection, s.writeErr)
	}

	key := memoryKey(userID, collection)
	docs := s.docs[key]
	for i, d := range docs {
		if d.id == id {
			s.docs[key] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Close() error {
	return nil
}
