package repository_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanBalaji/debridget/internal/repository"
	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/task"
)

func TestCreateFind(t *testing.T) {
	repo := repository.NewMemoryRepository()

	_, err := repo.Find("missing")
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	require.NoError(t, repo.Create(task.New("a", "a.bin")))

	got, err := repo.Find("a")
	require.NoError(t, err)
	assert.Equal(t, "a.bin", got.Filename)
	assert.Equal(t, status.Downloading, got.Status)

	assert.ErrorIs(t, repo.Create(task.New("a", "other.bin")), repository.ErrTaskExists)
	assert.ErrorIs(t, repo.Create(task.New("", "x")), repository.ErrEmptyID)
	assert.Equal(t, 1, repo.Len())
}

func TestFindReturnsCopy(t *testing.T) {
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Create(task.New("a", "a.bin")))

	got, err := repo.Find("a")
	require.NoError(t, err)
	got.Downloaded = 99

	all := repo.FindAll()
	entry := all["a"]
	entry.Filename = "changed"

	again, err := repo.Find("a")
	require.NoError(t, err)
	assert.Zero(t, again.Downloaded)
	assert.Equal(t, "a.bin", again.Filename)
}

func TestUpdate(t *testing.T) {
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Create(task.New("a", "a.bin")))

	err := repo.Update("missing", func(*task.Task) {})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	require.NoError(t, repo.Update("a", func(tk *task.Task) {
		tk.Size = 100
		tk.Downloaded = 50
		tk.ID = "rewritten"
	}))

	got, err := repo.Find("a")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Downloaded)
	assert.Equal(t, "a", got.ID, "id cannot be rewritten by an update")

	require.NoError(t, repo.Update("a", func(tk *task.Task) { tk.Complete() }))

	err = repo.Update("a", func(tk *task.Task) { tk.Downloaded = 1 })
	assert.ErrorIs(t, err, repository.ErrTaskTerminal)

	got, err = repo.Find("a")
	require.NoError(t, err)
	assert.Equal(t, status.Completed, got.Status)
	assert.Equal(t, int64(50), got.Downloaded)
	assert.Equal(t, 100, got.Progress)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	repo := repository.NewMemoryRepository()

	const tasks = 8
	const updates = 200

	for i := range tasks {
		require.NoError(t, repo.Create(task.New(fmt.Sprintf("t%d", i), "f")))
	}

	var wg sync.WaitGroup

	for i := range tasks {
		id := fmt.Sprintf("t%d", i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 1; n <= updates; n++ {
				assert.NoError(t, repo.Update(id, func(tk *task.Task) {
					tk.Size = updates
					tk.Downloaded = int64(n)
				}))
			}
		}()
	}

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range updates {
				for id, tk := range repo.FindAll() {
					assert.Equal(t, id, tk.ID)
					assert.LessOrEqual(t, tk.Downloaded, int64(updates))
				}
			}
		}()
	}

	wg.Wait()

	for id, tk := range repo.FindAll() {
		assert.Equal(t, int64(updates), tk.Downloaded, id)
	}
}
