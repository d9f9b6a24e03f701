package browserstate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/jrsteele09/go-cafe-storefront/server/browserstate"
	"github.com/jrsteele09/go-cafe-storefront/session"
	"github.com/stretchr/testify/require"
)

func TestRepos(t *testing.T) {
	repos := map[string]func(t *testing.T) browserstate.Repo{
		"memory": func(*testing.T) browserstate.Repo { return browserstate.NewInMemoryRepo() },
		"file":   func(t *testing.T) browserstate.Repo { return browserstate.NewFileRepo(t.TempDir()) },
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			alice, bob := browserstate.NewBrowserID(), browserstate.NewBrowserID()

			t.Run("browsers are isolated", func(t *testing.T) {
				storeA, err := repo.Store(alice)
				require.NoError(t, err)
				storeB, err := repo.Store(bob)
				require.NoError(t, err)

				require.NoError(t, session.New(storeA).SetToken("token-a"))
				require.True(t, session.New(storeA).IsAuthenticated())
				require.False(t, session.New(storeB).IsAuthenticated())
			})

			t.Run("same browser gets the same state", func(t *testing.T) {
				store, err := repo.Store(alice)
				require.NoError(t, err)
				token, ok := session.New(store).Token()
				require.True(t, ok)
				require.Equal(t, "token-a", token)
			})

			t.Run("delete forgets the browser", func(t *testing.T) {
				require.NoError(t, repo.Delete(alice))
				store, err := repo.Store(alice)
				require.NoError(t, err)
				require.False(t, session.New(store).IsAuthenticated())

				require.NoError(t, repo.Delete(browserstate.NewBrowserID()), "unknown browser is a no-op")
			})

			t.Run("malformed ids are rejected", func(t *testing.T) {
				for _, id := range []string{"", "../../etc/passwd", "not-a-uuid"} {
					_, err := repo.Store(id)
					require.ErrorIs(t, err, errors.ErrUnknownBrowser, id)
					require.ErrorIs(t, repo.Delete(id), errors.ErrUnknownBrowser, id)
				}
			})
		})
	}
}

func TestFileRepo_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	id := browserstate.NewBrowserID()

	store, err := browserstate.NewFileRepo(dir).Store(id)
	require.NoError(t, err)
	sess := session.New(store)
	require.NoError(t, sess.SetToken("persisted"))
	require.NoError(t, sess.SetUsername("sari"))

	_, err = os.Stat(filepath.Join(dir, id+".json"))
	require.NoError(t, err)

	restarted := browserstate.NewFileRepo(dir)
	store, err = restarted.Store(id)
	require.NoError(t, err)
	require.Equal(t, "sari", session.New(store).Username())

	require.NoError(t, restarted.Delete(id))
	_, err = os.Stat(filepath.Join(dir, id+".json"))
	require.True(t, os.IsNotExist(err))
}
