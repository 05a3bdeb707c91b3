package wishlist

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	return store
}

func TestInsertAndContains(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "Portal 2", AppID: 620, Suggester: "alice"}))

	assert.True(t, store.Contains(CollectionMulti, 620))
	assert.False(t, store.Contains(CollectionSingle, 620), "an id in multi must not block the single collection")
	assert.False(t, store.Contains(CollectionMulti, 400))
}

func TestIsMulti(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "Deep Rock Galactic", AppID: 548430}))
	require.NoError(t, store.Insert(CollectionSingle, Entry{Name: "The Witness", AppID: 210970}))

	assert.True(t, store.IsMulti(548430))
	assert.False(t, store.IsMulti(210970))
}

func TestRemoveByAppID_RemovesFromBothCollections(t *testing.T) {
	store := openTestStore(t)

	// Transient bug state: the same id in both collections. Removal must
	// clear both unconditionally.
	require.NoError(t, store.Insert(CollectionSingle, Entry{Name: "Portal 2", AppID: 620}))
	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "Portal 2", AppID: 620}))

	require.NoError(t, store.RemoveByAppID(620))

	assert.False(t, store.Contains(CollectionSingle, 620))
	assert.False(t, store.Contains(CollectionMulti, 620))
}

func TestRemoveByAppID_Idempotent(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Insert(CollectionSingle, Entry{Name: "The Witness", AppID: 210970}))
	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "Valheim", AppID: 892970}))

	require.NoError(t, store.RemoveByAppID(210970))
	singleAfterFirst, multiAfterFirst := store.Snapshot()

	require.NoError(t, store.RemoveByAppID(210970))
	singleAfterSecond, multiAfterSecond := store.Snapshot()

	assert.Equal(t, singleAfterFirst, singleAfterSecond)
	assert.Equal(t, multiAfterFirst, multiAfterSecond)
}

func TestRemoveByAppID_AbsentIsNoOp(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "Valheim", AppID: 892970}))
	require.NoError(t, store.RemoveByAppID(111111))

	assert.True(t, store.Contains(CollectionMulti, 892970))
}

func TestPersistence_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Insert(CollectionSingle, Entry{Name: "The Witness", AppID: 210970, Suggester: "bob"}))
	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "Valheim", AppID: 892970, Suggester: "carol"}))

	reopened, err := Open(dir, testLogger())
	require.NoError(t, err)

	single, multi := reopened.Snapshot()
	require.Len(t, single, 1)
	require.Len(t, multi, 1)
	assert.Equal(t, Entry{Name: "The Witness", AppID: 210970, Suggester: "bob"}, single[0])
	assert.Equal(t, Entry{Name: "Valheim", AppID: 892970, Suggester: "carol"}, multi[0])
}

func TestInsertionOrderPreserved(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "first", AppID: 1}))
	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "second", AppID: 2}))
	require.NoError(t, store.Insert(CollectionMulti, Entry{Name: "third", AppID: 3}))
	require.NoError(t, store.RemoveByAppID(2))

	_, multi := store.Snapshot()
	require.Len(t, multi, 2)
	assert.Equal(t, "first", multi[0].Name)
	assert.Equal(t, "third", multi[1].Name)
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Insert(CollectionSingle, Entry{Name: "The Witness", AppID: 210970}))

	single, _ := store.Snapshot()
	single[0].Name = "mutated"

	fresh, _ := store.Snapshot()
	assert.Equal(t, "The Witness", fresh[0].Name)
}

func TestOpen_MissingFilesStartEmpty(t *testing.T) {
	store := openTestStore(t)

	single, multi := store.Snapshot()
	assert.Empty(t, single)
	assert.Empty(t, multi)
}

func TestWatcher_ReloadsExternalEdit(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir, testLogger())
	require.NoError(t, err)

	watcher, err := NewWatcher(store, testLogger())
	require.NoError(t, err)
	defer watcher.Close()

	// Simulate a manual board edit outside the process.
	edited := `[{"name":"Portal 2","appId":620,"suggester":"admin"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, multiFile), []byte(edited), 0o600))

	assert.Eventually(t, func() bool {
		return store.Contains(CollectionMulti, 620)
	}, 3*time.Second, 50*time.Millisecond)
}
