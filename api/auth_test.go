package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/apifake"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/jrsteele09/go-cafe-storefront/session"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token and username", func(t *testing.T) {
		backend, client := fixture(t, nil)
		require.NoError(t, backend.AddUser("sari", "kopi123"))

		result, err := client.Login(ctx, "sari", "kopi123")
		require.NoError(t, err)
		require.Equal(t, "sari", result.Username)
		require.Equal(t, "Login successful", result.Message)

		token, ok := client.Session().Token()
		require.True(t, ok)
		require.Equal(t, result.Token, token)
		require.Equal(t, "sari", client.Session().Username())
		require.True(t, client.IsAuthenticated())
	})

	t.Run("enveloped response", func(t *testing.T) {
		backend, client := fixture(t, []apifake.Option{apifake.WithEnvelope()})
		require.NoError(t, backend.AddUser("sari", "kopi123"))

		_, err := client.Login(ctx, "sari", "kopi123")
		require.NoError(t, err)
		require.True(t, client.IsAuthenticated())
	})

	t.Run("failure leaves session untouched", func(t *testing.T) {
		backend, client := fixture(t, nil)
		require.NoError(t, backend.AddUser("sari", "kopi123"))
		require.NoError(t, client.Session().SetToken("previous"))
		require.NoError(t, client.Session().SetUsername("budi"))

		_, err := client.Login(ctx, "sari", "wrong")
		require.ErrorIs(t, err, api.ErrAuth)
		require.Equal(t, "Invalid username or password", api.Message(err))

		token, ok := client.Session().Token()
		require.True(t, ok)
		require.Equal(t, "previous", token)
		require.Equal(t, "budi", client.Session().Username())
	})

	t.Run("store failure leaves session untouched", func(t *testing.T) {
		for _, key := range []string{session.UsernameKey, session.TokenKey} {
			t.Run(key, func(t *testing.T) {
				backend, client := fixture(t, nil)
				require.NoError(t, backend.AddUser("sari", "kopi123"))
				store := &failingStore{MemoryStore: session.NewMemoryStore()}
				sess := session.New(store)
				require.NoError(t, sess.SetUsername("budi"))
				store.failKey = key
				client = client.WithSession(sess)

				_, err := client.Login(ctx, "sari", "kopi123")
				require.ErrorIs(t, err, errDiskFull)
				require.False(t, client.IsAuthenticated())
				require.Equal(t, "budi", sess.Username())
			})
		}
	})

	t.Run("blank credentials never leave the client", func(t *testing.T) {
		backend, client := fixture(t, nil)
		_, err := client.Login(ctx, "  ", "x")
		require.ErrorIs(t, err, api.ErrValidation)
		require.Empty(t, backend.Requests())
	})
}

func TestClient_LoginResponseShapes(t *testing.T) {
	ctx := context.Background()
	serve := func(body string) *api.Client {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
		t.Cleanup(srv.Close)
		return api.New(api.Config{BaseURL: srv.URL}, session.New(nil))
	}

	t.Run("token field", func(t *testing.T) {
		client := serve(`{"message":"ok","token":"abc"}`)
		result, err := client.Login(ctx, "sari", "pw")
		require.NoError(t, err)
		require.Equal(t, "abc", result.Token)
	})

	t.Run("access_token wins over token", func(t *testing.T) {
		client := serve(`{"data":{"access_token":"new","token":"old"}}`)
		result, err := client.Login(ctx, "sari", "pw")
		require.NoError(t, err)
		require.Equal(t, "new", result.Token)
	})

	t.Run("no token at all", func(t *testing.T) {
		client := serve(`{"message":"maintenance"}`)
		_, err := client.Login(ctx, "sari", "pw")
		require.ErrorIs(t, err, errors.ErrBadEnvelope)
		require.Equal(t, "maintenance", api.Message(err))
		require.False(t, client.IsAuthenticated())
	})
}

func TestClient_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("mismatch is rejected locally", func(t *testing.T) {
		backend, client := fixture(t, nil)
		_, err := client.Register(ctx, "sari", "kopi123", "kopi124")

		var ve *api.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "confirm_password", ve.Field)
		require.Empty(t, backend.Requests())
	})

	t.Run("success returns backend message", func(t *testing.T) {
		_, client := fixture(t, nil)
		msg, err := client.Register(ctx, "sari", "kopi123", "kopi123")
		require.NoError(t, err)
		require.Equal(t, "User registered successfully", msg)
		require.False(t, client.IsAuthenticated(), "registering does not log in")

		_, err = client.Login(ctx, "sari", "kopi123")
		require.NoError(t, err)
	})

	t.Run("duplicate username", func(t *testing.T) {
		backend, client := fixture(t, nil)
		require.NoError(t, backend.AddUser("sari", "kopi123"))

		_, err := client.Register(ctx, "sari", "x", "x")
		var fe *api.FetchError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, http.StatusConflict, fe.StatusCode)
		require.Equal(t, "Username already exists", fe.Message)
	})
}

func TestClient_Logout(t *testing.T) {
	backend, client := fixture(t, nil)
	signIn(t, backend, client, "sari")
	require.NoError(t, client.Session().SetUsername("sari"))
	require.True(t, client.IsAuthenticated())

	require.NoError(t, client.Logout())
	require.False(t, client.IsAuthenticated())
	require.Empty(t, client.Session().Username())

	err := client.DeleteCoffee(context.Background(), 1)
	require.ErrorIs(t, err, api.ErrAuth)
}

var errDiskFull = errors.New("disk full")

// failingStore refuses writes to failKey.
type failingStore struct {
	*session.MemoryStore
	failKey string
}

func (s *failingStore) Set(key, value string) error {
	if key == s.failKey {
		return errDiskFull
	}
	return s.MemoryStore.Set(key, value)
}
