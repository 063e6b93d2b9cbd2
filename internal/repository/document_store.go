package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document was modified concurrently")
)

// Backend persists opaque documents by key.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Versioned documents carry a counter that increments on every write.
type Versioned interface {
	GetVersion() int64
	SetVersion(v int64)
}

// DocumentStore is a typed JSON view over a Backend. Writes for the same key
// are serialized in-process and checked against the stored version so a
// writer outside this process cannot be silently overwritten.
type DocumentStore[T any, PT interface {
	*T
	Versioned
}] struct {
	backend Backend
	locks   sync.Map
}

func NewDocumentStore[T any, PT interface {
	*T
	Versioned
}](backend Backend) *DocumentStore[T, PT] {
	return &DocumentStore[T, PT]{backend: backend}
}

func (s *DocumentStore[T, PT]) lock(key string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Load never fails: a missing or unreadable document yields the zero value.
func (s *DocumentStore[T, PT]) Load(ctx context.Context, key string) PT {
	doc := PT(new(T))
	data, err := s.backend.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Info("document read failed", "key", key, "error", err.Error())
		}
		return doc
	}
	if err := json.Unmarshal(data, doc); err != nil {
		slog.Info("document is corrupt, using empty default", "key", key, "error", err.Error())
		return PT(new(T))
	}
	return doc
}

// Update runs a read-modify-write cycle for key. fn mutates the loaded
// document; returning an error from fn skips the write.
func (s *DocumentStore[T, PT]) Update(ctx context.Context, key string, fn func(PT) error) (PT, error) {
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	doc := s.Load(ctx, key)
	base := doc.GetVersion()

	if err := fn(doc); err != nil {
		return nil, err
	}

	if current := s.Load(ctx, key); current.GetVersion() != base {
		return nil, fmt.Errorf("%s: %w", key, ErrConflict)
	}

	doc.SetVersion(base)
	if err := s.write(ctx, key, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentStore[T, PT]) Keys(ctx context.Context) ([]string, error) {
	return s.backend.Keys(ctx)
}

func (s *DocumentStore[T, PT]) write(ctx context.Context, key string, doc PT) error {
	doc.SetVersion(doc.GetVersion() + 1)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Write(ctx, key, data); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
