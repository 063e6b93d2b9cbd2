package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/maheshrc27/ghostwriter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendCreatesDirLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scheduled_posts")
	b := NewFileBackend(dir)
	ctx := context.Background()

	_, err := b.Read(ctx, "user-1")
	require.ErrorIs(t, err, ErrNotFound)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, b.Write(ctx, "user-1", []byte(`{"version":1}`)))
	data, err := b.Read(ctx, "user-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1}`, string(data))

	keys, err = b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, keys)

	require.NoError(t, b.Delete(ctx, "user-1"))
	require.NoError(t, b.Delete(ctx, "user-1"))
}

func TestSafeKey(t *testing.T) {
	assert.Equal(t, "abc-123X", SafeKey("abc-123X"))
	assert.Equal(t, "a_5Fb", SafeKey("a_b"))
	assert.Equal(t, "_2E_2E_2Fetc_2Fpasswd", SafeKey("../etc/passwd"))
	assert.Equal(t, "_", SafeKey(""))

	for _, key := range []string{"", "a.b", "a_b", "a@b", "alice smith", "ünï", "_2E"} {
		got, ok := keyFromFileName(SafeKey(key))
		require.True(t, ok, key)
		assert.Equal(t, key, got)
	}

	for _, name := range []string{"a.b", "a_2", "a_zz", "a_2e"} {
		_, ok := keyFromFileName(name)
		assert.False(t, ok, name)
	}
}

func TestFileBackendKeepsSimilarIdsApart(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(dir)
	ctx := context.Background()

	ids := []string{"alice.smith", "alice_smith", "alice@smith"}
	for _, id := range ids {
		require.NoError(t, b.Write(ctx, id, []byte(`"`+id+`"`)))
	}
	// Stray files that no id maps to are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.name.json"), []byte("{}"), 0o644))

	for _, id := range ids {
		data, err := b.Read(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, `"`+id+`"`, string(data))
	}

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, keys)

	require.NoError(t, b.Delete(ctx, "alice_smith"))
	_, err = b.Read(ctx, "alice.smith")
	assert.NoError(t, err)
}

func TestDocumentStoreCorruptFileDegradesToDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1.json"), []byte("{not json"), 0o644))

	store := NewDocumentStore[models.ChatSession](NewFileBackend(dir))
	doc := store.Load(context.Background(), "s1")

	require.NotNil(t, doc)
	assert.Empty(t, doc.History)
	assert.Zero(t, doc.Version)
}

func TestDocumentStoreUpdateIncrementsVersion(t *testing.T) {
	store := NewDocumentStore[models.ChatSession](NewFileBackend(t.TempDir()))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		doc, err := store.Update(ctx, "s1", func(s *models.ChatSession) error {
			s.Append(models.RoleUser, fmt.Sprint(i))
			return nil
		})
		require.NoError(t, err)
		assert.EqualValues(t, i, doc.Version)
	}

	loaded := store.Load(ctx, "s1")
	assert.EqualValues(t, 3, loaded.Version)
	assert.Len(t, loaded.History, 3)
}

func TestDocumentStoreUpdateErrorSkipsWrite(t *testing.T) {
	store := NewDocumentStore[models.ChatSession](NewFileBackend(t.TempDir()))
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := store.Update(ctx, "s1", func(s *models.ChatSession) error {
		s.Append(models.RoleUser, "lost")
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, store.Load(ctx, "s1").History)
}

// A writer that bypasses the store bumps the version between load and write.
type racingBackend struct {
	Backend
	once sync.Once
}

func (b *racingBackend) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := b.Backend.Read(ctx, key)
	b.once.Do(func() {
		_ = b.Backend.Write(ctx, key, []byte(`{"version":7,"history":[]}`))
	})
	return data, err
}

func TestDocumentStoreDetectsForeignWriter(t *testing.T) {
	backend := &racingBackend{Backend: NewFileBackend(t.TempDir())}
	store := NewDocumentStore[models.ChatSession](backend)

	_, err := store.Update(context.Background(), "s1", func(s *models.ChatSession) error {
		s.Append(models.RoleUser, "hi")
		return nil
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDocumentStoreConcurrentUpdatesKeepEveryWrite(t *testing.T) {
	repo := NewScheduledPostRepository(NewFileBackend(t.TempDir()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, "user-1", func(d *models.UserPosts) error {
				d.Posts = append(d.Posts, &models.ScheduledPost{ID: fmt.Sprintf("p%d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc := repo.GetByUserID(ctx, "user-1")
	assert.Len(t, doc.Posts, 20)
	assert.EqualValues(t, 20, doc.Version)
}

func TestSessionRepositoryAppendTruncates(t *testing.T) {
	repo := NewSessionRepository(NewFileBackend(t.TempDir()))
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		_, err := repo.Append(ctx, "sess",
			models.ChatTurn{Role: models.RoleUser, Content: fmt.Sprintf("q%d", i)},
			models.ChatTurn{Role: models.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
		require.NoError(t, err)
	}

	s := repo.GetByID(ctx, "sess")
	require.Len(t, s.History, models.MaxHistoryTurns)
	assert.Equal(t, "q2", s.History[0].Content)
	assert.Equal(t, "a7", s.History[len(s.History)-1].Content)
}
